package provider

import (
	"context"
	"fmt"
	"sync"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
)

// TokenListLoader loads the raw token list of one network.
type TokenListLoader interface {
	LoadTokens(netDef entity.NetworkDefinition) ([]entity.Token, error)
}

type tokenProviderImpl struct {
	loader   TokenListLoader
	networks port.NetworkDefinitionProvider
	logger   port.Logger

	mu          sync.Mutex
	tokensCache map[uint64][]entity.Token // Cache loaded tokens
}

// NewTokenProvider creates a TokenRegistry that loads each chain's list once.
func NewTokenProvider(loader TokenListLoader, networks port.NetworkDefinitionProvider, logger port.Logger) port.TokenRegistry {
	return &tokenProviderImpl{
		loader:      loader,
		networks:    networks,
		logger:      logger,
		tokensCache: make(map[uint64][]entity.Token),
	}
}

// ListTokens returns a copy of the cached list so callers cannot mutate it.
func (p *tokenProviderImpl) ListTokens(_ context.Context, chainID uint64) ([]entity.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tokens, ok := p.tokensCache[chainID]; ok {
		return append([]entity.Token(nil), tokens...), nil
	}

	netDef, ok := p.networks.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		return nil, fmt.Errorf("chain %d: %w", chainID, entity.ErrUnsupportedChain)
	}

	p.logger.Debug("Loading tokens from disk", "network", netDef.Identifier)
	tokens, err := p.loader.LoadTokens(netDef)
	if err != nil {
		p.logger.Error("Failed to load tokens", "network", netDef.Identifier, "error", err)
		return nil, err
	}

	p.tokensCache[chainID] = tokens
	p.logger.Info("Tokens loaded and cached successfully", "network", netDef.Identifier, "count", len(tokens))
	return append([]entity.Token(nil), tokens...), nil
}
