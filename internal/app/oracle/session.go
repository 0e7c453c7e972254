package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
)

// DefaultChainID is the chain a new session starts on.
const DefaultChainID uint64 = 7001

// ErrStale is returned by LoadPortfolio when the address or chain changed
// while the fetch was in flight. The result is dropped.
var ErrStale = errors.New("portfolio result is stale")

// State is a read-only view of the session.
type State struct {
	Address            string
	ChainID            uint64
	Portfolio          *entity.Portfolio
	LoadingPortfolio   bool
	PortfolioErr       error
	GeneratingFortune  bool
	GeneratingResponse bool
}

// Session owns the conversation for one address on one chain.
type Session struct {
	api        port.OracleAPI
	logger     port.Logger
	transcript *Transcript

	mu                 sync.Mutex
	address            string
	chainID            uint64
	portfolio          *entity.Portfolio
	portfolioErr       error
	loading            bool
	generation         uint64
	generatingFortune  bool
	generatingResponse bool
}

// NewSession creates a session; chainID 0 selects DefaultChainID.
func NewSession(api port.OracleAPI, logger port.Logger, address string, chainID uint64) *Session {
	if chainID == 0 {
		chainID = DefaultChainID
	}
	return &Session{
		api:        api,
		logger:     logger,
		transcript: NewTranscript(),
		address:    address,
		chainID:    chainID,
	}
}

func (s *Session) Transcript() *Transcript { return s.transcript }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Address:            s.address,
		ChainID:            s.chainID,
		LoadingPortfolio:   s.loading,
		PortfolioErr:       s.portfolioErr,
		GeneratingFortune:  s.generatingFortune,
		GeneratingResponse: s.generatingResponse,
	}
	if s.portfolio != nil {
		p := *s.portfolio
		st.Portfolio = &p
	}
	return st
}

// LoadPortfolio fetches the portfolio for the current address and chain.
func (s *Session) LoadPortfolio(ctx context.Context) (entity.Portfolio, error) {
	s.mu.Lock()
	gen := s.generation
	address, chainID := s.address, s.chainID
	s.loading = true
	s.portfolioErr = nil
	s.mu.Unlock()

	p, err := s.api.FetchPortfolio(ctx, address, chainID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("Discarding stale portfolio result", "address", address, "chain_id", chainID)
		return entity.Portfolio{}, ErrStale
	}
	s.loading = false
	if err != nil {
		s.portfolioErr = err
		return entity.Portfolio{}, err
	}
	s.portfolio = &p
	return p, nil
}

// SwitchChain resets the conversation and refetches for the new chain.
func (s *Session) SwitchChain(ctx context.Context, chainID uint64) (entity.Portfolio, error) {
	s.mu.Lock()
	s.chainID = chainID
	s.resetLocked()
	s.mu.Unlock()
	s.transcript.Clear()
	return s.LoadPortfolio(ctx)
}

// SwitchAddress resets the conversation and refetches for the new address.
func (s *Session) SwitchAddress(ctx context.Context, address string) (entity.Portfolio, error) {
	s.mu.Lock()
	s.address = address
	s.resetLocked()
	s.mu.Unlock()
	s.transcript.Clear()
	return s.LoadPortfolio(ctx)
}

func (s *Session) resetLocked() {
	s.generation++
	s.portfolio = nil
	s.portfolioErr = nil
	s.loading = false
}

// ClearChat empties the transcript and keeps the portfolio.
func (s *Session) ClearChat() {
	s.transcript.Clear()
}

// GenerateFortune streams the initial narrative into a new oracle message.
func (s *Session) GenerateFortune(ctx context.Context) (entity.ChatMessage, error) {
	summary, err := s.begin(&s.generatingFortune)
	if err != nil {
		return entity.ChatMessage{}, err
	}
	defer s.end(&s.generatingFortune)

	slot := s.transcript.OpenOracleSlot()
	return s.stream(ctx, slot, entity.OracleRequest{PortfolioSummary: &summary})
}

// AskFollowUp records the question immediately, then streams the answer
// into its own oracle message.
func (s *Session) AskFollowUp(ctx context.Context, question string) (entity.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return entity.ChatMessage{}, entity.NewValidationError("question", errors.New("question is empty"))
	}
	summary, err := s.begin(&s.generatingResponse)
	if err != nil {
		return entity.ChatMessage{}, err
	}
	defer s.end(&s.generatingResponse)

	s.transcript.AppendUser(question)
	slot := s.transcript.OpenOracleSlot()
	return s.stream(ctx, slot, entity.OracleRequest{
		PortfolioSummary: &summary,
		UserQuestion:     question,
		IsFollowUp:       true,
	})
}

func (s *Session) begin(flag *bool) (entity.PortfolioSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *flag {
		return entity.PortfolioSummary{}, entity.ErrGenerationInProgress
	}
	if s.portfolio == nil {
		return entity.PortfolioSummary{}, entity.ErrNoPortfolio
	}
	*flag = true
	return s.portfolio.Summary, nil
}

func (s *Session) end(flag *bool) {
	s.mu.Lock()
	*flag = false
	s.mu.Unlock()
}

func (s *Session) stream(ctx context.Context, slot *Slot, req entity.OracleRequest) (entity.ChatMessage, error) {
	body, err := s.api.StreamOracle(ctx, req)
	if err != nil {
		slot.Finish(entity.MessageStalled)
		msg, _ := s.transcript.Get(slot.ID())
		return msg, fmt.Errorf("failed to open oracle stream: %w", err)
	}
	defer body.Close()

	state, err := Consume(body, slot)
	msg, _ := s.transcript.Get(slot.ID())
	if err != nil {
		s.logger.Warn("Oracle stream stalled", "message_id", slot.ID(), "state", state, "error", err)
	}
	return msg, err
}
