package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"portfolio_oracle/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPortfolioService(client *fakeClient, timeout time.Duration) *PortfolioService {
	registry := fakeRegistry{tokens: []entity.Token{nativeToken(), erc20("USDC", usdcAddr, 6)}}
	resolver := NewBalanceResolver(fakeNetworks{}, fakeClients{client: client}, registry, quiet(), 1)
	agg := NewPortfolioAggregator(fakePrices{prices: map[string]float64{"ZETA": 0.85, "USDC": 1}}, quiet())
	return NewPortfolioService(resolver, agg, quiet(), timeout)
}

func TestGetPortfolio(t *testing.T) {
	client := &fakeClient{
		native: wei("2000000000000000000"),
		tokens: map[string]*big.Int{usdcAddr: big.NewInt(3_300_000)},
	}
	svc := newTestPortfolioService(client, time.Second)

	p, err := svc.GetPortfolio(context.Background(), testWallet, 7001)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Summary.TokenCount)
	assert.InDelta(t, 1.7+3.3, p.Summary.TotalValue, 1e-9)
	assert.Equal(t, "USDC", p.Summary.TopTokens[0].Token.Symbol)
	assert.Equal(t, "3.3", p.TokenBalances[1].BalanceFormatted)
}

func TestGetPortfolioTimeout(t *testing.T) {
	client := &fakeClient{native: wei("1"), delay: 200 * time.Millisecond}
	svc := newTestPortfolioService(client, 20*time.Millisecond)

	start := time.Now()
	p, err := svc.GetPortfolio(context.Background(), testWallet, 7001)

	assert.ErrorIs(t, err, entity.ErrPortfolioTimeout)
	assert.Empty(t, p.TokenBalances, "partial work is discarded")
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestGetPortfolioPassesValidationErrors(t *testing.T) {
	svc := newTestPortfolioService(&fakeClient{}, time.Second)

	_, err := svc.GetPortfolio(context.Background(), testWallet, 424242)
	assert.ErrorIs(t, err, entity.ErrUnsupportedChain)
	assert.True(t, entity.IsValidation(err))
}

func TestGetPortfolioCallerCancellation(t *testing.T) {
	client := &fakeClient{delay: time.Second}
	svc := newTestPortfolioService(client, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.GetPortfolio(ctx, testWallet, 7001)
	assert.ErrorIs(t, err, context.Canceled)
}
