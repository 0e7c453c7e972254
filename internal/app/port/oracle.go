package port

import (
	"context"
	"io"

	"portfolio_oracle/internal/domain/entity"
)

// GenerateRequest is a single prompt pair sent to a text-generation backend.
type GenerateRequest struct {
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// FragmentStream yields generated text incrementally.
// Next blocks until a fragment is available or the stream ends.
type FragmentStream interface {
	Next() bool
	Fragment() string
	Err() error
	Close() error
}

// TextGenerator is the AI backend.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (FragmentStream, error)
}

// FortuneService turns an oracle request into a fragment stream.
type FortuneService interface {
	Stream(ctx context.Context, req entity.OracleRequest) (FragmentStream, error)
}

// OracleAPI is the HTTP surface as seen by a client session.
type OracleAPI interface {
	FetchPortfolio(ctx context.Context, walletAddress string, chainID uint64) (entity.Portfolio, error)
	// StreamOracle returns the raw event stream body; the caller closes it.
	StreamOracle(ctx context.Context, req entity.OracleRequest) (io.ReadCloser, error)
}
