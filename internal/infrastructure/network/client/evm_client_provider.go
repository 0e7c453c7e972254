package client

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"

	"golang.org/x/time/rate"
)

// ProviderConfig holds the knobs shared by every client the provider creates.
type ProviderConfig struct {
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	// RateLimit запросов в секунду на сеть; 0 отключает ограничение.
	RateLimit  float64
	BurstLimit int
	HTTPClient *http.Client
}

// evmClientProvider implements the port.BlockchainClientProvider interface.
type evmClientProvider struct {
	clients map[uint64]*EVMClient
	mu      sync.Mutex
	logger  port.Logger
	cfg     ProviderConfig
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(cfg ProviderConfig, logger port.Logger) *evmClientProvider {
	if cfg.ConnectionTimeout <= 0 {
		cfg.ConnectionTimeout = 10 * time.Second
	}
	if cfg.RPCCallTimeout <= 0 {
		cfg.RPCCallTimeout = 10 * time.Second
	}
	if cfg.BurstLimit <= 0 {
		cfg.BurstLimit = 1
	}
	return &evmClientProvider{
		clients: make(map[uint64]*EVMClient),
		logger:  logger,
		cfg:     cfg,
	}
}

// GetClient retrieves a blockchain client for the given network definition.
// It caches clients to avoid reconnecting repeatedly.
func (p *evmClientProvider) GetClient(netDef entity.NetworkDefinition) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[netDef.ChainID]; exists {
		return client, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	var limiter *rate.Limiter
	if p.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(p.cfg.RateLimit), p.cfg.BurstLimit)
	}
	newClient, err := NewEVMClient(netDef, p.cfg.HTTPClient, p.cfg.ConnectionTimeout, p.cfg.RPCCallTimeout, limiter)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.ChainID] = newClient
	p.logger.Info("Successfully created and cached new EVM client", "network", netDef.Name)
	return newClient, nil
}

// Close closes every cached client.
func (p *evmClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}
