package port

import (
	"context"

	"portfolio_oracle/internal/domain/entity"
)

// BalanceResolver returns raw balances for every registered token in registry order.
type BalanceResolver interface {
	Resolve(ctx context.Context, walletAddress string, chainID uint64) ([]entity.RawBalance, error)
}

// PortfolioService defines the interface for fetching wallet portfolio information.
type PortfolioService interface {
	// GetPortfolio resolves, prices and scores the holdings of one address on one chain.
	GetPortfolio(ctx context.Context, walletAddress string, chainID uint64) (entity.Portfolio, error)
}
