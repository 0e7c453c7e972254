package port

import (
	"context"

	"portfolio_oracle/internal/domain/entity"
)

// TokenRegistry supplies the static list of trackable tokens per chain.
type TokenRegistry interface {
	ListTokens(ctx context.Context, chainID uint64) ([]entity.Token, error)
}

// PriceOracle supplies USD prices by symbol. Unknown symbols are simply absent.
type PriceOracle interface {
	GetPrices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// PriceFeed is the upstream source a caching PriceOracle loads from.
type PriceFeed interface {
	FetchPrices(ctx context.Context, symbols []string) (map[string]float64, error)
	KnownSymbols() []string
}
