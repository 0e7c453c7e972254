package service

import (
	"context"
	"strconv"
	"time"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/metrics"
)

const defaultPortfolioTimeout = 15 * time.Second

// PortfolioService resolves balances and aggregates them under a wall-clock deadline.
type PortfolioService struct {
	resolver   port.BalanceResolver
	aggregator *PortfolioAggregator
	logger     port.Logger
	timeout    time.Duration
}

// NewPortfolioService creates a service; a non-positive timeout means 15s.
func NewPortfolioService(
	resolver port.BalanceResolver,
	aggregator *PortfolioAggregator,
	logger port.Logger,
	timeout time.Duration,
) *PortfolioService {
	if timeout <= 0 {
		timeout = defaultPortfolioTimeout
	}
	return &PortfolioService{
		resolver:   resolver,
		aggregator: aggregator,
		logger:     logger,
		timeout:    timeout,
	}
}

type portfolioResult struct {
	portfolio entity.Portfolio
	err       error
}

// GetPortfolio races the fetch against the timeout. If the timeout wins the
// fetch keeps running until it notices cancellation, and its result is dropped.
func (s *PortfolioService) GetPortfolio(ctx context.Context, walletAddress string, chainID uint64) (entity.Portfolio, error) {
	start := time.Now()
	chainLabel := strconv.FormatUint(chainID, 10)
	defer func() {
		metrics.PortfolioDuration.WithLabelValues(chainLabel).Observe(time.Since(start).Seconds())
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// буфер 1: опоздавший результат уходит в канал и собирается GC, никого не блокируя
	done := make(chan portfolioResult, 1)
	go func() {
		p, err := s.fetch(fetchCtx, walletAddress, chainID)
		done <- portfolioResult{portfolio: p, err: err}
	}()

	select {
	case r := <-done:
		if fetchCtx.Err() != nil {
			// результат собран уже после отмены (нули вместо балансов), его нельзя отдавать
			return s.abandoned(ctx, walletAddress, chainLabel)
		}
		if r.err != nil {
			outcome := "error"
			if entity.IsValidation(r.err) {
				outcome = "invalid"
			}
			metrics.PortfolioRequests.WithLabelValues(chainLabel, outcome).Inc()
			return entity.Portfolio{}, r.err
		}
		metrics.PortfolioRequests.WithLabelValues(chainLabel, "ok").Inc()
		return r.portfolio, nil
	case <-fetchCtx.Done():
		return s.abandoned(ctx, walletAddress, chainLabel)
	}
}

func (s *PortfolioService) abandoned(ctx context.Context, walletAddress, chainLabel string) (entity.Portfolio, error) {
	if err := ctx.Err(); err != nil {
		metrics.PortfolioRequests.WithLabelValues(chainLabel, "cancelled").Inc()
		return entity.Portfolio{}, err
	}
	metrics.PortfolioRequests.WithLabelValues(chainLabel, "timeout").Inc()
	s.logger.Warn("Portfolio fetch timed out", "address", walletAddress, "chain_id", chainLabel, "timeout", s.timeout)
	return entity.Portfolio{}, entity.ErrPortfolioTimeout
}

func (s *PortfolioService) fetch(ctx context.Context, walletAddress string, chainID uint64) (entity.Portfolio, error) {
	balances, err := s.resolver.Resolve(ctx, walletAddress, chainID)
	if err != nil {
		return entity.Portfolio{}, err
	}
	p := s.aggregator.Aggregate(ctx, balances, chainID)
	s.logger.Debug("Portfolio aggregated",
		"address", walletAddress,
		"chain_id", chainID,
		"token_count", p.Summary.TokenCount,
		"total_value", p.Summary.TotalValue,
		"risk_level", p.Summary.RiskLevel)
	return p, nil
}
