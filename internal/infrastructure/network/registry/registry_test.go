package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"network_registry/internal/domain/entity"
)

// recordingLogger captures messages so tests can assert on warnings.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) log(msg string) {
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Info(msg string, _ ...any)  { l.log(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.log(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.log(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.log(msg) }

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// stubMetadataSource returns canned descriptors or an error, counting calls.
type stubMetadataSource struct {
	descriptors []entity.ChainDescriptor
	err         error
	calls       atomic.Int64
}

func (s *stubMetadataSource) FetchChainList(_ context.Context) ([]entity.ChainDescriptor, error) {
	s.calls.Add(1)
	return s.descriptors, s.err
}

// newRPCServer starts a fake JSON-RPC endpoint that always reports chainID.
func newRPCServer(t *testing.T, chainID string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"%s"}`, chainID)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func rpcEntries(urls ...string) []entity.RPCEntry {
	out := make([]entity.RPCEntry, len(urls))
	for i, u := range urls {
		out[i] = entity.RPCEntry{URL: u}
	}
	return out
}

func TestNormalizeChainID(t *testing.T) {
	t.Run("decimal, decimal string and hex agree", func(t *testing.T) {
		forms := []string{"1", "0x1", "0X1", " 1 ", "0x01"}
		for _, form := range forms {
			got, err := NormalizeChainID(form)
			require.NoError(t, err, "input %q", form)
			assert.Equal(t, "0x1", got, "input %q", form)
		}
		assert.Equal(t, "0x1", ChainIDFromUint(1))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, input := range []string{"137", "0x89", "0xAA36A7", "11155111"} {
			once, err := NormalizeChainID(input)
			require.NoError(t, err)
			twice, err := NormalizeChainID(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		}
	})

	t.Run("lowercases hex", func(t *testing.T) {
		got, err := NormalizeChainID("0xAA36A7")
		require.NoError(t, err)
		assert.Equal(t, "0xaa36a7", got)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, input := range []string{"", "0x", "sepolia", "-1", "12ab", "0xzz"} {
			_, err := NormalizeChainID(input)
			assert.ErrorIs(t, err, entity.ErrInvalidChainID, "input %q", input)
		}
	})
}

func TestRegistrySeedLookup(t *testing.T) {
	log := &recordingLogger{}
	r := New(log) // embedded seed, no metadata source

	t.Run("all keys resolve the same record", func(t *testing.T) {
		keys := []string{"0x89", "137", "polygon", "matic", "pol", "polygon-pos", "Polygon-PoS"}
		first := r.lookup(keys[0])
		require.NotNil(t, first)
		for _, key := range keys[1:] {
			rec := r.lookup(key)
			require.NotNil(t, rec, "key %q", key)
			assert.Same(t, first, rec, "key %q must alias the same record", key)
		}
	})

	t.Run("unknown identifier misses", func(t *testing.T) {
		assert.Nil(t, r.lookup("no-such-chain"))
		assert.Nil(t, r.lookup(""))
	})

	t.Run("known lists distinct records", func(t *testing.T) {
		records := r.Known()
		seen := make(map[string]bool)
		for _, rec := range records {
			assert.False(t, seen[rec.ChainID], "duplicate record for %s", rec.ChainID)
			seen[rec.ChainID] = true
			assert.True(t, rec.Static)
			assert.NotEmpty(t, rec.RPCURLs)
		}
		assert.True(t, seen["0x1"])
		assert.True(t, seen["0xaa36a7"])
	})
}

func TestEnsureInitialized(t *testing.T) {
	t.Run("enrichment runs exactly once across concurrent callers", func(t *testing.T) {
		source := &stubMetadataSource{}
		r := New(&recordingLogger{}, WithMetadataSource(source))

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.EnsureInitialized(context.Background())
			}()
		}
		wg.Wait()
		r.EnsureInitialized(context.Background())

		assert.Equal(t, int64(1), source.calls.Load())
	})

	t.Run("enrichment failure leaves seed intact", func(t *testing.T) {
		log := &recordingLogger{}
		source := &stubMetadataSource{err: errors.New("remote down")}
		srv := newRPCServer(t, "0xaa36a7", nil)
		r := New(log,
			WithMetadataSource(source),
			WithStaticRecords([]entity.ChainRecord{{
				ChainID:     "0xaa36a7",
				DisplayName: "Sepolia",
				Decimals:    18,
				RPCURLs:     []string{srv.URL},
				ShortName:   "sep",
				Slug:        "sepolia",
			}}),
		)

		cfg, err := r.GetNetworkConfig(context.Background(), "sepolia", nil, false)
		require.NoError(t, err)
		assert.Equal(t, "0xaa36a7", cfg.ChainID)
		assert.Equal(t, srv.URL, cfg.RPCURLs[0])
		assert.True(t, log.contains("Chain list enrichment failed, continuing on seed data only"))
	})

	t.Run("enrichment adds records and appends to static ones", func(t *testing.T) {
		source := &stubMetadataSource{descriptors: []entity.ChainDescriptor{
			{
				Name:    "Ethereum Mainnet",
				ChainID: 1,
				RPC: rpcEntries(
					"https://extra.example.com",
					"wss://rejected.example.com",
					"https://rejected.example.com/v1/${API_KEY}",
				),
			},
			{
				Name:      "Fresh Chain",
				ShortName: "FRESH",
				ChainID:   999,
				Currency:  entity.ChainlistCurrency{Symbol: "FRS", Name: "Fresh", Decimals: 0},
				RPC:       rpcEntries("https://rpc.fresh.example.com"),
			},
			{
				Name:    "Useless Chain",
				ChainID: 1000,
				RPC:     rpcEntries("wss://only-websockets.example.com"),
			},
		}}
		r := New(&recordingLogger{},
			WithMetadataSource(source),
			WithStaticRecords([]entity.ChainRecord{{
				ChainID:     "0x1",
				DisplayName: "Ethereum Mainnet",
				Decimals:    18,
				RPCURLs:     []string{"https://seeded.example.com"},
			}}),
		)
		r.EnsureInitialized(context.Background())

		eth := r.lookup("0x1")
		require.NotNil(t, eth)
		assert.Equal(t, []string{"https://seeded.example.com", "https://extra.example.com"}, eth.RPCURLs,
			"static record endpoints are appended to, never reordered or replaced")

		fresh := r.lookup("999")
		require.NotNil(t, fresh)
		assert.Same(t, fresh, r.lookup("0x3e7"))
		assert.Same(t, fresh, r.lookup("fresh"))
		assert.Equal(t, int32(18), fresh.Decimals, "unknown decimals default to 18")
		assert.False(t, fresh.Static)

		assert.Nil(t, r.lookup("1000"), "descriptor with no usable endpoints is skipped")
	})
}

func TestGetNetworkConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("preference order beats untested fallbacks", func(t *testing.T) {
		var fallbackHits atomic.Int64
		badPreferred := newRPCServer(t, "0x1", nil) // wrong chain, fails verification
		goodPreferred := newRPCServer(t, "0x89", nil)
		fallback := newRPCServer(t, "0x89", &fallbackHits)

		r := New(&recordingLogger{}, WithStaticRecords([]entity.ChainRecord{{
			ChainID:     "0x89",
			DisplayName: "Polygon PoS",
			Decimals:    18,
			RPCURLs:     []string{fallback.URL},
		}}))

		cfg, err := r.GetNetworkConfig(ctx, "0x89", []string{badPreferred.URL, goodPreferred.URL}, false)
		require.NoError(t, err)
		require.Equal(t, []string{goodPreferred.URL, badPreferred.URL, fallback.URL}, cfg.RPCURLs,
			"verified url first, rest keep their original relative order")
		assert.Equal(t, int64(0), fallbackHits.Load(),
			"probing short-circuits before the fallback pool is touched")
	})

	t.Run("only preferred with no preferred urls fails", func(t *testing.T) {
		r := New(&recordingLogger{})
		_, err := r.GetNetworkConfig(ctx, "ethereum", nil, true)
		assert.ErrorIs(t, err, entity.ErrNoPreferredEndpoints)

		_, err = r.GetNetworkConfig(ctx, "ethereum", []string{"wss://filtered-out.example.com"}, true)
		assert.ErrorIs(t, err, entity.ErrNoPreferredEndpoints,
			"urls removed by sanitation do not count as preferred")
	})

	t.Run("unknown network", func(t *testing.T) {
		r := New(&recordingLogger{})
		_, err := r.GetNetworkConfig(ctx, "atlantis", nil, false)
		assert.ErrorIs(t, err, entity.ErrUnknownNetwork)
	})

	t.Run("all candidates failing is a soft miss", func(t *testing.T) {
		broken := newRPCServer(t, "0xdead", nil)
		r := New(&recordingLogger{}, WithStaticRecords([]entity.ChainRecord{{
			ChainID:     "0x89",
			DisplayName: "Polygon PoS",
			Decimals:    18,
			RPCURLs:     []string{broken.URL},
		}}))

		_, err := r.GetNetworkConfig(ctx, "0x89", nil, false)
		assert.ErrorIs(t, err, entity.ErrNoHealthyEndpoint)
	})

	t.Run("decimal identifier with failing preferred falls back and warns", func(t *testing.T) {
		log := &recordingLogger{}
		seeded := newRPCServer(t, "0x89", nil)
		r := New(log, WithStaticRecords([]entity.ChainRecord{{
			ChainID:     "0x89",
			DisplayName: "Polygon PoS",
			Decimals:    18,
			RPCURLs:     []string{seeded.URL},
		}}))

		cfg, err := r.GetNetworkConfig(ctx, "137", []string{"https://bad.invalid"}, false)
		require.NoError(t, err)
		assert.Equal(t, "0x89", cfg.ChainID)
		assert.Equal(t, seeded.URL, cfg.RPCURLs[0])
		assert.True(t, log.contains("All preferred rpc endpoints failed, falling back to cached pool"))
	})

	t.Run("duplicate preferred urls are collapsed", func(t *testing.T) {
		srv := newRPCServer(t, "0x1", nil)
		r := New(&recordingLogger{}, WithStaticRecords([]entity.ChainRecord{{
			ChainID:     "0x1",
			DisplayName: "Ethereum Mainnet",
			Decimals:    18,
			RPCURLs:     []string{srv.URL},
		}}))

		cfg, err := r.GetNetworkConfig(ctx, "1", []string{srv.URL, srv.URL}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL}, cfg.RPCURLs)
	})
}
