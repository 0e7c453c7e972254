package pricefeed

import (
	"context"
	"sort"
)

// DefaultPrices is the demo USD price table for testnet assets.
var DefaultPrices = map[string]float64{
	"ETH":   2500,
	"ZETA":  0.85,
	"USDC":  1,
	"USDT":  1,
	"DAI":   1,
	"WETH":  2500,
	"tBTC":  45000,
	"tUSDC": 1,
	"tETH":  2500,
}

// StaticFeed implements port.PriceFeed over an in-memory table.
// Таблица неизменяема после создания, поэтому блокировки не нужны.
type StaticFeed struct {
	prices map[string]float64
}

// NewStaticFeed copies DefaultPrices and applies overrides on top.
// A non-positive override removes the symbol.
func NewStaticFeed(overrides map[string]float64) *StaticFeed {
	prices := make(map[string]float64, len(DefaultPrices)+len(overrides))
	for symbol, price := range DefaultPrices {
		prices[symbol] = price
	}
	for symbol, price := range overrides {
		if price <= 0 {
			delete(prices, symbol)
			continue
		}
		prices[symbol] = price
	}
	return &StaticFeed{prices: prices}
}

// FetchPrices returns the known subset of symbols.
func (f *StaticFeed) FetchPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		if price, ok := f.prices[symbol]; ok {
			out[symbol] = price
		}
	}
	return out, nil
}

// KnownSymbols returns every symbol in the table, sorted.
func (f *StaticFeed) KnownSymbols() []string {
	symbols := make([]string, 0, len(f.prices))
	for symbol := range f.prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
