package aiclient

import (
	"context"

	"portfolio_oracle/internal/app/port"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
)

// AnthropicGenerator implements port.TextGenerator on the streaming Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
	logger port.Logger
}

// NewAnthropicGenerator creates a generator. Extra options (base URL, retries)
// are passed through to the SDK client.
func NewAnthropicGenerator(apiKey, model string, logger port.Logger, opts ...option.RequestOption) *AnthropicGenerator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
		logger: logger,
	}
}

// Generate opens a message stream. Connection errors surface from the first Next.
func (g *AnthropicGenerator) Generate(ctx context.Context, req port.GenerateRequest) (port.FragmentStream, error) {
	params := anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: req.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	g.logger.Debug("Opening Anthropic message stream", "model", g.model, "max_tokens", req.MaxTokens)
	return &anthropicStream{stream: g.client.Messages.NewStreaming(ctx, params)}, nil
}

// anthropicStream отдает только текстовые дельты, остальные события пропускаются.
type anthropicStream struct {
	stream  *ssestream.Stream[anthropic.MessageStreamEventUnion]
	current string
}

func (s *anthropicStream) Next() bool {
	for s.stream.Next() {
		event := s.stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				s.current = delta.Text
				return true
			}
		case anthropic.MessageStopEvent:
			return false
		}
	}
	return false
}

func (s *anthropicStream) Fragment() string { return s.current }

func (s *anthropicStream) Err() error { return s.stream.Err() }

func (s *anthropicStream) Close() error { return s.stream.Close() }

var _ port.TextGenerator = (*AnthropicGenerator)(nil)
