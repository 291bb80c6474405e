package port

import (
	"context"
	"math/big"
	"time"

	"network_registry/internal/domain/entity"
)

// ChainMetadataSource fetches chain descriptors from a remote listing
// service. Implementations are best-effort: the registry treats any error as
// "enrichment unavailable" and keeps running on seed data.
type ChainMetadataSource interface {
	FetchChainList(ctx context.Context) ([]entity.ChainDescriptor, error)
}

// NetworkResolver is the public surface of the chain metadata registry.
type NetworkResolver interface {
	// EnsureInitialized runs the one-shot remote enrichment. Idempotent;
	// concurrent callers join the same run. Never fails.
	EnsureInitialized(ctx context.Context)

	// GetNetworkConfig resolves a working endpoint for the identifier.
	// Misses surface as entity.ErrUnknownNetwork, entity.ErrNoHealthyEndpoint
	// or entity.ErrNoPreferredEndpoints.
	GetNetworkConfig(ctx context.Context, identifier string, preferredURLs []string, onlyPreferred bool) (*entity.NetworkConfig, error)

	// TestConnection probes a single endpoint for reachability and the
	// expected chain id. Every failure mode collapses to false.
	TestConnection(ctx context.Context, url string, expectedChainID string, timeout time.Duration) bool

	// FindFirstWorkingRPC probes urls strictly in order and returns the first
	// that passes, or false when all fail.
	FindFirstWorkingRPC(ctx context.Context, urls []string, expectedChainID string, timeout time.Duration) (string, bool)

	// Known returns a snapshot of every distinct cached record.
	Known() []entity.ChainRecord
}

// BlockchainClient is a connected client bound to one resolved network.
type BlockchainClient interface {
	// Config returns the resolved network configuration the client was
	// dialed with.
	Config() entity.NetworkConfig

	// ChainID returns the chain id reported by the connected endpoint.
	ChainID(ctx context.Context) (*big.Int, error)

	// BlockNumber returns the latest block height.
	BlockNumber(ctx context.Context) (uint64, error)

	// GetNativeBalance fetches the native currency balance for a wallet.
	GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error)

	// Close releases the underlying connection.
	Close()
}

// BlockchainClientProvider hands out cached blockchain clients per network.
type BlockchainClientProvider interface {
	GetClient(cfg *entity.NetworkConfig) (BlockchainClient, error)
}
