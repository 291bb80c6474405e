package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
)

const defaultMaxConcurrentResolves = 4

// ResolverService sits between integration surfaces (REST, CLI, adapters)
// and the registry: it fans out multi-network resolution and applies the
// validation guards.
type ResolverService struct {
	logger        port.Logger
	resolver      port.NetworkResolver
	maxConcurrent int
}

// NewResolverService creates a ResolverService. maxConcurrent <= 0 falls back
// to a small default.
func NewResolverService(log port.Logger, resolver port.NetworkResolver, maxConcurrent int) *ResolverService {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentResolves
	}
	return &ResolverService{
		logger:        log,
		resolver:      resolver,
		maxConcurrent: maxConcurrent,
	}
}

// ResolveAll resolves several networks concurrently, bounded by the service's
// concurrency limit. Each network's own endpoint probing stays strictly
// sequential inside the registry; only distinct networks run in parallel.
// Failed identifiers are logged and omitted from the result, so the returned
// map holds valid configs only.
func (s *ResolverService) ResolveAll(ctx context.Context, identifiers []string, preferredByID map[string][]string) map[string]*entity.NetworkConfig {
	results := make(map[string]*entity.NetworkConfig, len(identifiers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, identifier := range identifiers {
		g.Go(func() error {
			cfg, err := s.resolver.GetNetworkConfig(gctx, identifier, preferredByID[identifier], false)
			if err != nil {
				s.logger.Warn("Skipping network, resolution failed", "identifier", identifier, "error", err)
				return nil // soft failure, the rest keep going
			}
			mu.Lock()
			results[identifier] = cfg
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return FilterValidConfigs(results)
}

// FilterValidConfigs drops nil entries, entries without a chain id and
// entries without endpoints from a keyed map of configs. The input map is not
// modified.
func FilterValidConfigs(configs map[string]*entity.NetworkConfig) map[string]*entity.NetworkConfig {
	out := make(map[string]*entity.NetworkConfig, len(configs))
	for key, cfg := range configs {
		if isUsableConfig(cfg) {
			out[key] = cfg
		}
	}
	return out
}

// FilterValidConfigList is the ordered-sequence counterpart of
// FilterValidConfigs; relative order of the survivors is preserved.
func FilterValidConfigList(configs []*entity.NetworkConfig) []*entity.NetworkConfig {
	out := make([]*entity.NetworkConfig, 0, len(configs))
	for _, cfg := range configs {
		if isUsableConfig(cfg) {
			out = append(out, cfg)
		}
	}
	return out
}

func isUsableConfig(cfg *entity.NetworkConfig) bool {
	return cfg != nil && cfg.ChainID != "" && len(cfg.RPCURLs) > 0
}

// ValidateConfig is the fail-fast guard for integration seams: it returns a
// descriptive error naming the calling context (and the chain, when known)
// for a nil or unusable config, where silently proceeding would be worse than
// stopping. Soft failures belong to the resolver's error returns instead.
func ValidateConfig(cfg *entity.NetworkConfig, context string) error {
	if context == "" {
		context = "network config check"
	}
	if cfg == nil {
		return fmt.Errorf("%s: network config is nil", context)
	}
	if cfg.ChainID == "" {
		return fmt.Errorf("%s: network config %q has an empty chain id", context, cfg.DisplayName)
	}
	if len(cfg.RPCURLs) == 0 {
		return fmt.Errorf("%s: network %s (%s) has no rpc endpoints", context, cfg.DisplayName, cfg.ChainID)
	}
	return nil
}
