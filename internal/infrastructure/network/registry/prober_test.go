package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestConnection(t *testing.T) {
	ctx := context.Background()
	r := New(&recordingLogger{})

	t.Run("matching chain id passes", func(t *testing.T) {
		srv := newRPCServer(t, "0x89", nil)
		assert.True(t, r.TestConnection(ctx, srv.URL, "0x89", time.Second))
	})

	t.Run("hex and decimal expectations are interchangeable", func(t *testing.T) {
		srv := newRPCServer(t, "0x89", nil)
		assert.True(t, r.TestConnection(ctx, srv.URL, "137", time.Second))
	})

	t.Run("chain id mismatch fails", func(t *testing.T) {
		srv := newRPCServer(t, "0x1", nil)
		assert.False(t, r.TestConnection(ctx, srv.URL, "0x89", time.Second))
	})

	t.Run("invalid expected chain id fails without a request", func(t *testing.T) {
		var hits atomic.Int64
		srv := newRPCServer(t, "0x1", &hits)
		assert.False(t, r.TestConnection(ctx, srv.URL, "not-a-chain-id", time.Second))
		assert.Equal(t, int64(0), hits.Load())
	})

	t.Run("non-2xx status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)
		assert.False(t, r.TestConnection(ctx, srv.URL, "0x1", time.Second))
	})

	t.Run("rpc error payload fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
		}))
		t.Cleanup(srv.Close)
		assert.False(t, r.TestConnection(ctx, srv.URL, "0x1", time.Second))
	})

	t.Run("slow endpoint times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`))
		}))
		t.Cleanup(srv.Close)

		started := time.Now()
		assert.False(t, r.TestConnection(ctx, srv.URL, "0x1", 50*time.Millisecond))
		assert.Less(t, time.Since(started), 250*time.Millisecond, "timeout must cut the probe short")
	})

	t.Run("unreachable endpoint fails", func(t *testing.T) {
		assert.False(t, r.TestConnection(ctx, "https://bad.invalid", "0x1", time.Second))
	})
}

func TestFindFirstWorkingRPC(t *testing.T) {
	ctx := context.Background()
	r := New(&recordingLogger{})

	t.Run("first listed working endpoint wins", func(t *testing.T) {
		var laterHits atomic.Int64
		bad := newRPCServer(t, "0x1", nil) // wrong chain
		first := newRPCServer(t, "0x89", nil)
		later := newRPCServer(t, "0x89", &laterHits)

		url, ok := r.FindFirstWorkingRPC(ctx, []string{bad.URL, first.URL, later.URL}, "0x89", time.Second)
		require.True(t, ok)
		assert.Equal(t, first.URL, url)
		assert.Equal(t, int64(0), laterHits.Load(), "probing stops at the first success")
	})

	t.Run("all failing returns false", func(t *testing.T) {
		bad := newRPCServer(t, "0x1", nil)
		url, ok := r.FindFirstWorkingRPC(ctx, []string{bad.URL, "https://bad.invalid"}, "0x89", time.Second)
		assert.False(t, ok)
		assert.Empty(t, url)
	})

	t.Run("empty candidate list returns false", func(t *testing.T) {
		_, ok := r.FindFirstWorkingRPC(ctx, nil, "0x1", time.Second)
		assert.False(t, ok)
	})

	t.Run("cancelled context stops probing", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		var hits atomic.Int64
		srv := newRPCServer(t, "0x1", &hits)
		_, ok := r.FindFirstWorkingRPC(cancelled, []string{srv.URL}, "0x1", time.Second)
		assert.False(t, ok)
		assert.Equal(t, int64(0), hits.Load())
	})
}
