package service

import (
	"context"
	"sort"
	"strconv"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/utils"
)

const (
	topTokensLimit = 5

	highConcentration   = 0.5
	mediumConcentration = 0.3
)

// PortfolioAggregator prices raw balances and produces the summary.
type PortfolioAggregator struct {
	prices port.PriceOracle
	logger port.Logger
}

func NewPortfolioAggregator(prices port.PriceOracle, logger port.Logger) *PortfolioAggregator {
	return &PortfolioAggregator{prices: prices, logger: logger}
}

// Aggregate joins balances with prices. A failing price oracle values every
// token at zero rather than failing the portfolio.
func (a *PortfolioAggregator) Aggregate(ctx context.Context, balances []entity.RawBalance, chainID uint64) entity.Portfolio {
	symbols := make([]string, 0, len(balances))
	seen := make(map[string]struct{}, len(balances))
	for _, b := range balances {
		if b.IsZero() {
			continue
		}
		if _, ok := seen[b.Token.Symbol]; ok {
			continue
		}
		seen[b.Token.Symbol] = struct{}{}
		symbols = append(symbols, b.Token.Symbol)
	}

	var prices map[string]float64
	if len(symbols) > 0 {
		var err error
		prices, err = a.prices.GetPrices(ctx, symbols)
		if err != nil {
			a.logger.Warn("Price lookup failed, valuing tokens at zero", "chain_id", strconv.FormatUint(chainID, 10), "error", err)
			prices = nil
		}
	}
	return BuildPortfolio(balances, prices)
}

// BuildPortfolio is the pure part of aggregation.
func BuildPortfolio(balances []entity.RawBalance, prices map[string]float64) entity.Portfolio {
	holdings := make([]entity.TokenBalance, 0, len(balances))
	var total float64

	for _, b := range balances {
		if b.IsZero() {
			continue
		}
		formatted := utils.FormatTokenBalance(b.Amount, b.Token.Decimals)
		usd := utils.DecimalToFloat(formatted) * prices[b.Token.Symbol]
		holdings = append(holdings, entity.TokenBalance{
			Token:            b.Token,
			Balance:          b.Amount.String(),
			BalanceFormatted: formatted,
			USDValue:         usd,
		})
		total += usd
	}

	if total > 0 {
		for i := range holdings {
			holdings[i].Percentage = holdings[i].USDValue / total * 100
		}
	}

	return entity.Portfolio{
		Summary:       Summarize(holdings, total),
		TokenBalances: holdings,
	}
}

// Summarize builds the summary from holdings whose percentages are already set.
func Summarize(holdings []entity.TokenBalance, total float64) entity.PortfolioSummary {
	ranked := make([]entity.TokenBalance, len(holdings))
	copy(ranked, holdings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].USDValue > ranked[j].USDValue
	})
	if len(ranked) > topTokensLimit {
		ranked = ranked[:topTokensLimit]
	}

	concentration := Concentration(holdings)
	return entity.PortfolioSummary{
		TotalValue:    total,
		TokenCount:    len(holdings),
		TopTokens:     ranked,
		RiskLevel:     ScoreRisk(concentration),
		Concentration: concentration,
	}
}

// Concentration is the Herfindahl index of all holdings on a 0..1 scale.
func Concentration(holdings []entity.TokenBalance) float64 {
	var hhi float64
	for _, h := range holdings {
		share := h.Percentage / 100
		hhi += share * share
	}
	return hhi
}

// ScoreRisk maps concentration to a tier; both thresholds are strict.
func ScoreRisk(concentration float64) entity.RiskLevel {
	switch {
	case concentration > highConcentration:
		return entity.RiskHigh
	case concentration > mediumConcentration:
		return entity.RiskMedium
	default:
		return entity.RiskLow
	}
}
