package client

import (
	"fmt"
	"sync"
	"time"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
)

const defaultConnectionTimeout = 10 * time.Second

// evmClientProvider implements port.BlockchainClientProvider with a
// per-chain-id client cache, so adapters do not reconnect on every call.
type evmClientProvider struct {
	clients           map[string]port.BlockchainClient
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	callTimeout       time.Duration
}

// NewEVMClientProvider creates a caching client provider.
func NewEVMClientProvider(log port.Logger, callTimeout time.Duration) port.BlockchainClientProvider {
	return &evmClientProvider{
		clients:           make(map[string]port.BlockchainClient),
		logger:            log,
		connectionTimeout: defaultConnectionTimeout,
		callTimeout:       callTimeout,
	}
}

// GetClient returns the cached client for the config's chain id, dialing a
// new one on first use.
func (p *evmClientProvider) GetClient(cfg *entity.NetworkConfig) (port.BlockchainClient, error) {
	if cfg == nil || cfg.ChainID == "" {
		return nil, fmt.Errorf("evm client provider: nil or unkeyed network config")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.clients[cfg.ChainID]; ok {
		return existing, nil
	}

	p.logger.Info("Dialing new EVM client", "network", cfg.DisplayName, "chainId", cfg.ChainID)
	newClient, err := NewEVMClient(cfg, p.connectionTimeout, p.callTimeout)
	if err != nil {
		p.logger.Error("Failed to dial EVM client", "network", cfg.DisplayName, "error", err)
		return nil, fmt.Errorf("create evm client for %s: %w", cfg.DisplayName, err)
	}

	p.clients[cfg.ChainID] = newClient
	return newClient, nil
}
