package registry

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
	networkdefinition "network_registry/internal/infrastructure/network/definition"
	"network_registry/internal/pkg/metrics"
	"network_registry/internal/pkg/utils"
)

const (
	defaultProbeTimeout        = 5 * time.Second
	defaultResolveProbeTimeout = 3 * time.Second
	defaultEnrichTimeout       = 15 * time.Second
)

// Registry owns the chain metadata cache and resolves working RPC endpoints.
// Construct one per process and inject it where needed; there is no hidden
// global instance.
//
// Lifecycle: the cache is seeded synchronously from the static table in New,
// then enriched at most once from the remote metadata source on the first
// EnsureInitialized call. Enrichment only adds records and appends endpoints;
// it never overwrites seeded data.
type Registry struct {
	logger port.Logger
	source port.ChainMetadataSource

	cache   *gocache.Cache
	mu      sync.RWMutex // guards the records the cache points at
	records []*entity.ChainRecord

	initOnce sync.Once
	limiter  *rate.Limiter
	seed     []entity.ChainRecord // consumed during New

	probeTimeout        time.Duration
	resolveProbeTimeout time.Duration
	enrichTimeout       time.Duration
}

var _ port.NetworkResolver = (*Registry)(nil)

// Option customizes a Registry.
type Option func(*Registry)

// WithMetadataSource enables remote enrichment from the given source. Without
// it the registry runs on seed data only.
func WithMetadataSource(src port.ChainMetadataSource) Option {
	return func(r *Registry) { r.source = src }
}

// WithStaticRecords replaces the embedded seed table.
func WithStaticRecords(records []entity.ChainRecord) Option {
	return func(r *Registry) { r.seed = records }
}

// WithProbeTimeout sets the default timeout for single-endpoint probes.
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Registry) { r.probeTimeout = d }
}

// WithResolveProbeTimeout sets the per-endpoint timeout used while resolving
// a network config.
func WithResolveProbeTimeout(d time.Duration) Option {
	return func(r *Registry) { r.resolveProbeTimeout = d }
}

// WithEnrichTimeout bounds the one-shot remote enrichment fetch.
func WithEnrichTimeout(d time.Duration) Option {
	return func(r *Registry) { r.enrichTimeout = d }
}

// WithProbeRateLimit throttles outgoing probes so resolution passes do not
// hammer public endpoints.
func WithProbeRateLimit(perSecond float64, burst int) Option {
	return func(r *Registry) { r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// New creates a registry seeded from the static table (or the records given
// via WithStaticRecords). Seeding happens before New returns, so the registry
// is immediately usable offline.
func New(log port.Logger, opts ...Option) *Registry {
	r := &Registry{
		logger:              log,
		cache:               gocache.New(gocache.NoExpiration, 0),
		probeTimeout:        defaultProbeTimeout,
		resolveProbeTimeout: defaultResolveProbeTimeout,
		enrichTimeout:       defaultEnrichTimeout,
		limiter:             rate.NewLimiter(rate.Limit(25), 50),
		seed:                networkdefinition.StaticRecords(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.mu.Lock()
	for i := range r.seed {
		rec := r.seed[i] // copy
		norm, err := NormalizeChainID(rec.ChainID)
		if err != nil {
			r.logger.Warn("Skipping seed record with invalid chain id", "chainId", rec.ChainID, "name", rec.DisplayName)
			continue
		}
		rec.ChainID = norm
		rec.RPCURLs = networkdefinition.SanitizeEndpoints(rec.RPCURLs)
		if rec.Decimals <= 0 {
			rec.Decimals = 18
		}
		if rec.Slug == "" {
			rec.Slug = networkdefinition.Slugify(rec.DisplayName)
		}
		rec.Static = true
		r.indexLocked(&rec)
	}
	for alias, id := range networkdefinition.Aliases {
		if rec := r.getLocked(id); rec != nil {
			r.cache.Set(alias, rec, gocache.NoExpiration)
		}
	}
	r.mu.Unlock()

	return r
}

// EnsureInitialized triggers the one-time remote enrichment. All callers,
// concurrent or sequential, join the same run; later calls return
// immediately. Enrichment failures are logged and swallowed so the registry
// stays usable on seed data.
func (r *Registry) EnsureInitialized(ctx context.Context) {
	r.initOnce.Do(func() { r.enrich(ctx) })
}

func (r *Registry) enrich(ctx context.Context) {
	if r.source == nil {
		metrics.EnrichmentTotal.WithLabelValues("disabled").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.enrichTimeout)
	defer cancel()

	descriptors, err := r.source.FetchChainList(ctx)
	if err != nil {
		r.logger.Warn("Chain list enrichment failed, continuing on seed data only", "error", err)
		metrics.EnrichmentTotal.WithLabelValues("error").Inc()
		return
	}

	added, extended := 0, 0
	r.mu.Lock()
	for _, d := range descriptors {
		if d.ChainID <= 0 {
			continue
		}
		urls := networkdefinition.SanitizeEndpoints(flattenRPCEntries(d.RPC))
		hexID := ChainIDFromUint(uint64(d.ChainID))

		if existing := r.getLocked(hexID); existing != nil {
			before := len(existing.RPCURLs)
			existing.RPCURLs = utils.AppendMissing(existing.RPCURLs, urls)
			if len(existing.RPCURLs) > before {
				extended++
			}
			// Additive only: fill gaps, never replace.
			if existing.ShortName == "" && d.ShortName != "" {
				existing.ShortName = strings.ToLower(d.ShortName)
			}
			if existing.BlockExplorerURL == "" && len(d.Explorers) > 0 {
				existing.BlockExplorerURL = d.Explorers[0].URL
			}
			r.indexSecondaryLocked(existing)
			continue
		}

		if len(urls) == 0 {
			continue // nothing probeable, not worth a record
		}
		rec := &entity.ChainRecord{
			ChainID:      hexID,
			DisplayName:  d.Name,
			NativeSymbol: d.Currency.Symbol,
			NativeName:   d.Currency.Name,
			Decimals:     d.Currency.Decimals,
			RPCURLs:      urls,
			ShortName:    strings.ToLower(d.ShortName),
			Slug:         networkdefinition.Slugify(d.Name),
		}
		if rec.Decimals <= 0 {
			rec.Decimals = 18
		}
		if len(d.Explorers) > 0 {
			rec.BlockExplorerURL = d.Explorers[0].URL
		}
		r.indexLocked(rec)
		added++
	}
	r.mu.Unlock()

	r.logger.Info("Chain metadata cache enriched from remote list",
		"fetched", len(descriptors), "added", added, "extended", extended)
	metrics.EnrichmentTotal.WithLabelValues("ok").Inc()
}

func flattenRPCEntries(entries []entity.RPCEntry) []string {
	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	return urls
}

// indexLocked stores a record under all of its lookup keys. The hex and
// decimal ids always point at the record; descriptive keys (short name, slug)
// never steal an already-taken key. Caller holds r.mu.
func (r *Registry) indexLocked(rec *entity.ChainRecord) {
	r.records = append(r.records, rec)
	r.cache.Set(rec.ChainID, rec, gocache.NoExpiration)
	if v, err := hexutil.DecodeUint64(rec.ChainID); err == nil {
		r.cache.Set(strconv.FormatUint(v, 10), rec, gocache.NoExpiration)
	}
	r.indexSecondaryLocked(rec)
}

func (r *Registry) indexSecondaryLocked(rec *entity.ChainRecord) {
	if rec.ShortName != "" {
		_ = r.cache.Add(strings.ToLower(rec.ShortName), rec, gocache.NoExpiration)
	}
	if rec.Slug != "" {
		_ = r.cache.Add(rec.Slug, rec, gocache.NoExpiration)
	}
}

func (r *Registry) getLocked(key string) *entity.ChainRecord {
	if v, ok := r.cache.Get(key); ok {
		return v.(*entity.ChainRecord)
	}
	return nil
}

// lookup resolves an identifier to a cached record, trying the raw form, the
// lowercase form and the normalized chain id.
func (r *Registry) lookup(identifier string) *entity.ChainRecord {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if rec := r.getLocked(identifier); rec != nil {
		return rec
	}
	if rec := r.getLocked(strings.ToLower(identifier)); rec != nil {
		return rec
	}
	if norm, err := NormalizeChainID(identifier); err == nil {
		if rec := r.getLocked(norm); rec != nil {
			return rec
		}
	}
	return nil
}

// GetNetworkConfig resolves a working endpoint for the identifier (name,
// decimal id or hex id). preferredURLs are probed first, in order; unless
// onlyPreferred is set, the cached fallback pool follows. The returned
// config's first endpoint passed a live chain-id probe; the rest keep their
// relative order and are untested.
func (r *Registry) GetNetworkConfig(ctx context.Context, identifier string, preferredURLs []string, onlyPreferred bool) (*entity.NetworkConfig, error) {
	r.EnsureInitialized(ctx)

	rec := r.lookup(identifier)
	if rec == nil {
		metrics.ResolutionsTotal.WithLabelValues("unknown_network").Inc()
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownNetwork, identifier)
	}

	r.mu.RLock()
	snapshot := *rec
	snapshot.RPCURLs = append([]string(nil), rec.RPCURLs...)
	r.mu.RUnlock()

	preferred := utils.DedupeStrings(networkdefinition.SanitizeEndpoints(preferredURLs))
	if onlyPreferred && len(preferred) == 0 {
		metrics.ResolutionsTotal.WithLabelValues("no_preferred").Inc()
		return nil, fmt.Errorf("%w for %s (%s)", entity.ErrNoPreferredEndpoints, snapshot.DisplayName, snapshot.ChainID)
	}

	candidates := append([]string(nil), preferred...)
	if !onlyPreferred {
		candidates = utils.AppendMissing(candidates, snapshot.RPCURLs)
	}
	if len(candidates) == 0 {
		metrics.ResolutionsTotal.WithLabelValues("no_healthy_endpoint").Inc()
		return nil, fmt.Errorf("%w for %s (%s): no candidate endpoints", entity.ErrNoHealthyEndpoint, snapshot.DisplayName, snapshot.ChainID)
	}

	working, ok := r.FindFirstWorkingRPC(ctx, candidates, snapshot.ChainID, r.resolveProbeTimeout)
	if !ok {
		r.logger.Warn("No candidate rpc endpoint passed verification",
			"network", snapshot.DisplayName, "chainId", snapshot.ChainID, "candidates", len(candidates))
		metrics.ResolutionsTotal.WithLabelValues("no_healthy_endpoint").Inc()
		return nil, fmt.Errorf("%w for %s (%s)", entity.ErrNoHealthyEndpoint, snapshot.DisplayName, snapshot.ChainID)
	}

	if len(preferred) > 0 && !utils.ContainsString(preferred, working) {
		r.logger.Warn("All preferred rpc endpoints failed, falling back to cached pool",
			"network", snapshot.DisplayName, "fallback", working, "preferredTried", len(preferred))
	}

	ordered := make([]string, 0, len(candidates))
	ordered = append(ordered, working)
	for _, u := range candidates {
		if u != working {
			ordered = append(ordered, u)
		}
	}

	metrics.ResolutionsTotal.WithLabelValues("ok").Inc()
	return &entity.NetworkConfig{
		ChainID:          snapshot.ChainID,
		DisplayName:      snapshot.DisplayName,
		NativeSymbol:     snapshot.NativeSymbol,
		NativeName:       snapshot.NativeName,
		Decimals:         snapshot.Decimals,
		RPCURLs:          ordered,
		BlockExplorerURL: snapshot.BlockExplorerURL,
	}, nil
}

// Known returns a snapshot of every distinct cached record, sorted by display
// name.
func (r *Registry) Known() []entity.ChainRecord {
	r.mu.RLock()
	out := make([]entity.ChainRecord, 0, len(r.records))
	for _, rec := range r.records {
		snapshot := *rec
		snapshot.RPCURLs = append([]string(nil), rec.RPCURLs...)
		out = append(out, snapshot)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}

// NormalizeChainID converts a decimal string or 0x-hex string (any case) to
// the canonical lowercase 0x-hex form. Idempotent. Returns
// entity.ErrInvalidChainID for anything else.
func NormalizeChainID(id string) (string, error) {
	s := strings.TrimSpace(id)
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q", entity.ErrInvalidChainID, id)
		}
		return hexutil.EncodeUint64(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidChainID, id)
	}
	return hexutil.EncodeUint64(v), nil
}

// ChainIDFromUint returns the canonical hex form of a numeric chain id.
func ChainIDFromUint(v uint64) string {
	return hexutil.EncodeUint64(v)
}
