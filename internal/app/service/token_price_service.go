package service

import (
	"context"
	"fmt"
	"time"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
)

// TokenPriceService is a TTL cache in front of a PriceFeed. It implements port.PriceOracle.
type TokenPriceService struct {
	feed   port.PriceFeed
	cache  *cache.Cache
	logger port.Logger
}

// NewTokenPriceService creates the cache; cleanup runs at twice the TTL.
func NewTokenPriceService(feed port.PriceFeed, ttl time.Duration, logger port.Logger) *TokenPriceService {
	s := &TokenPriceService{
		feed:   feed,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
	logger.Info("TokenPriceService успешно инициализирован.", "ttl", ttl)
	return s
}

// LoadAndCacheTokenPrices прогревает кеш всеми символами, известными источнику.
func (s *TokenPriceService) LoadAndCacheTokenPrices(ctx context.Context) error {
	symbols := s.feed.KnownSymbols()
	if len(symbols) == 0 {
		s.logger.Warn("Price feed reports no symbols, nothing to cache")
		return nil
	}
	prices, err := s.feed.FetchPrices(ctx, symbols)
	if err != nil {
		return fmt.Errorf("failed to load token prices: %w", err)
	}
	for symbol, price := range prices {
		s.cache.Set(symbol, price, cache.DefaultExpiration)
	}
	s.logger.Info("Token prices cached", "count", len(prices))
	return nil
}

// GetPrices serves hits from the cache and fetches the misses in one call.
// Symbols the feed does not know are left out of the result.
func (s *TokenPriceService) GetPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	var misses []string
	for _, symbol := range symbols {
		if v, ok := s.cache.Get(symbol); ok {
			out[symbol] = v.(float64)
			metrics.PriceCacheLookups.WithLabelValues("hit").Inc()
			continue
		}
		misses = append(misses, symbol)
		metrics.PriceCacheLookups.WithLabelValues("miss").Inc()
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := s.feed.FetchPrices(ctx, misses)
	if err != nil {
		if len(out) > 0 {
			s.logger.Warn("Price feed failed, serving cached subset", "missing", misses, "error", err)
			return out, nil
		}
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	for symbol, price := range fetched {
		s.cache.Set(symbol, price, cache.DefaultExpiration)
		out[symbol] = price
	}
	return out, nil
}
