package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
)

// EVMClient implements port.BlockchainClient for EVM-compatible chains. It is
// dialed against the first reachable endpoint of an already-resolved network
// config, falling through the ordered list on connect failures.
type EVMClient struct {
	ethClient   *ethclient.Client
	cfg         entity.NetworkConfig
	callTimeout time.Duration
}

var _ port.BlockchainClient = (*EVMClient)(nil)

// NewEVMClient dials the endpoints of cfg in order and verifies the chain id
// of the one that connects. cfg should come from the registry, so its first
// entry already passed a probe recently; later entries cover the window where
// that endpoint went down in between.
func NewEVMClient(cfg *entity.NetworkConfig, connectionTimeout, callTimeout time.Duration) (port.BlockchainClient, error) {
	if cfg == nil || len(cfg.RPCURLs) == 0 {
		return nil, fmt.Errorf("evm client: no rpc endpoints for network config")
	}

	var lastErr error
	for _, rpcURL := range cfg.RPCURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		ethClient, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("dial %s: %w", rpcURL, err)
			continue
		}

		chainID, err := ethClient.ChainID(ctx)
		cancel()
		if err != nil {
			ethClient.Close()
			lastErr = fmt.Errorf("chain id check on %s: %w", rpcURL, err)
			continue
		}
		if got := "0x" + chainID.Text(16); got != cfg.ChainID {
			ethClient.Close()
			lastErr = fmt.Errorf("chain id mismatch on %s: expected %s, got %s", rpcURL, cfg.ChainID, got)
			continue
		}

		return &EVMClient{ethClient: ethClient, cfg: *cfg, callTimeout: callTimeout}, nil
	}

	return nil, fmt.Errorf("all rpc connection attempts failed for %s: %w", cfg.DisplayName, lastErr)
}

// Config returns the network configuration the client was dialed with.
func (c *EVMClient) Config() entity.NetworkConfig {
	return c.cfg
}

// ChainID returns the chain id reported by the connected endpoint.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.ethClient.ChainID(ctx)
}

// BlockNumber returns the latest block height.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.ethClient.BlockNumber(ctx)
}

// GetNativeBalance fetches the native currency balance for a wallet address.
func (c *EVMClient) GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error) {
	if !common.IsHexAddress(walletAddress) {
		return nil, fmt.Errorf("invalid wallet address %q", walletAddress)
	}
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.ethClient.BalanceAt(ctx, common.HexToAddress(walletAddress), nil)
}

// Close releases the underlying connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}
