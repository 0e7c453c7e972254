package service

import (
	"context"
	"fmt"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/app/prompt"
	"portfolio_oracle/internal/domain/entity"
)

const (
	defaultMaxTokens   = 500
	defaultTemperature = 0.8
)

// FortuneService builds prompts and opens a generation stream.
type FortuneService struct {
	generator   port.TextGenerator
	logger      port.Logger
	maxTokens   int64
	temperature float64
}

func NewFortuneService(generator port.TextGenerator, logger port.Logger, maxTokens int64, temperature float64) *FortuneService {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &FortuneService{
		generator:   generator,
		logger:      logger,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Stream validates req and starts generation. Errors returned here happen
// before any fragment exists; mid-stream failures surface through the stream.
func (s *FortuneService) Stream(ctx context.Context, req entity.OracleRequest) (port.FragmentStream, error) {
	if req.PortfolioSummary == nil {
		return nil, entity.NewValidationError("portfolioSummary", entity.ErrSummaryRequired)
	}

	var (
		userPrompt string
		err        error
	)
	if req.IsFollowUp {
		userPrompt, err = prompt.FollowUp(*req.PortfolioSummary, req.UserQuestion)
	} else {
		userPrompt, err = prompt.Fortune(*req.PortfolioSummary)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Starting oracle generation", "follow_up", req.IsFollowUp, "prompt_length", len(userPrompt))
	stream, err := s.generator.Generate(ctx, port.GenerateRequest{
		System:      prompt.System,
		User:        userPrompt,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start generation: %w", err)
	}
	return stream, nil
}
