package port

import (
	"context"
	"math/big"

	"portfolio_oracle/internal/domain/entity"
)

// BlockchainClient defines the interface for interacting with a blockchain network.
// Every call may fail independently; callers treat a failure as "unavailable".
type BlockchainClient interface {
	// GetNativeBalance fetches the native currency balance (e.g., ETH, ZETA) for a wallet.
	GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error)

	// GetTokenBalance fetches the balance of a specific token for a wallet.
	GetTokenBalance(ctx context.Context, tokenAddress string, walletAddress string) (*big.Int, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all supported network definitions.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByChainID возвращает определение и true, если сеть поддерживается.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(networkDefinition entity.NetworkDefinition) (BlockchainClient, error)
}
