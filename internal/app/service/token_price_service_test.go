package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFeed struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  [][]string
	err    error
}

func (f *countingFeed) FetchPrices(_ context.Context, symbols []string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbols)
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]float64{}
	for _, s := range symbols {
		if v, ok := f.prices[s]; ok {
			out[s] = v
		}
	}
	return out, nil
}

func (f *countingFeed) KnownSymbols() []string {
	out := make([]string, 0, len(f.prices))
	for s := range f.prices {
		out = append(out, s)
	}
	return out
}

func TestTokenPriceServiceCachesAfterWarmup(t *testing.T) {
	feed := &countingFeed{prices: map[string]float64{"ETH": 2500, "ZETA": 0.85}}
	svc := NewTokenPriceService(feed, time.Minute, quiet())

	require.NoError(t, svc.LoadAndCacheTokenPrices(context.Background()))
	require.Len(t, feed.calls, 1)

	got, err := svc.GetPrices(context.Background(), []string{"ETH", "ZETA"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"ETH": 2500, "ZETA": 0.85}, got)
	assert.Len(t, feed.calls, 1, "served from cache")
}

func TestTokenPriceServiceFetchesMissesOnly(t *testing.T) {
	feed := &countingFeed{prices: map[string]float64{"ETH": 2500, "DAI": 1}}
	svc := NewTokenPriceService(feed, time.Minute, quiet())

	_, err := svc.GetPrices(context.Background(), []string{"ETH"})
	require.NoError(t, err)

	got, err := svc.GetPrices(context.Background(), []string{"ETH", "DAI", "UNKNOWN"})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"ETH": 2500, "DAI": 1}, got)
	require.Len(t, feed.calls, 2)
	assert.Equal(t, []string{"DAI", "UNKNOWN"}, feed.calls[1])
}

func TestTokenPriceServiceFeedFailure(t *testing.T) {
	feed := &countingFeed{prices: map[string]float64{"ETH": 2500}}
	svc := NewTokenPriceService(feed, time.Minute, quiet())
	require.NoError(t, svc.LoadAndCacheTokenPrices(context.Background()))

	feed.err = errors.New("upstream down")

	got, err := svc.GetPrices(context.Background(), []string{"ETH", "DAI"})
	require.NoError(t, err, "cached subset is served")
	assert.Equal(t, map[string]float64{"ETH": 2500}, got)

	_, err = svc.GetPrices(context.Background(), []string{"DAI"})
	assert.Error(t, err)
}
