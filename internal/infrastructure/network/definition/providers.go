package networkdefinition

import (
	"sort"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger  port.Logger
	byChain map[uint64]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	ZetaChainAthens = entity.NetworkDefinition{
		ChainID:          7001,
		Name:             "ZetaChain Testnet",
		Identifier:       "zetachain_athens",
		NativeSymbol:     "ZETA",
		NativeName:       "ZETA",
		Decimals:         18,
		PrimaryRPCURL:    "https://zetachain-athens-evm.blockpi.network/v1/rpc/public",
		FallbackRPCURLs:  []string{},
		BlockExplorerURL: "https://explorer.zetachain.com",
		Testnet:          true,
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia",
		Identifier:       "sepolia",
		NativeSymbol:     "ETH",
		NativeName:       "Ethereum",
		Decimals:         18,
		PrimaryRPCURL:    "https://ethereum-sepolia.publicnode.com",
		FallbackRPCURLs:  []string{"https://sepolia.gateway.tenderly.co", "https://rpc.sepolia.org"},
		BlockExplorerURL: "https://sepolia.etherscan.io",
		Testnet:          true,
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = []entity.NetworkDefinition{ZetaChainAthens, Sepolia}

// RPCOverride replaces the endpoints of one network, typically from config.
type RPCOverride struct {
	ChainID       uint64
	PrimaryRPCURL string
	FallbackURLs  []string
}

// NewNetworkDefinitionProvider creates a new NetworkDefinitionProvider.
func NewNetworkDefinitionProvider(log port.Logger, overrides []RPCOverride) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:  log,
		byChain: make(map[uint64]entity.NetworkDefinition, len(allKnownDefinitions)),
	}
	for _, def := range allKnownDefinitions {
		def.FallbackRPCURLs = append([]string(nil), def.FallbackRPCURLs...)
		p.byChain[def.ChainID] = def
	}

	for _, o := range overrides {
		def, ok := p.byChain[o.ChainID]
		if !ok {
			p.logger.Warn("RPC override for unknown network, skipping", "chain_id", o.ChainID)
			continue
		}
		if o.PrimaryRPCURL != "" {
			def.PrimaryRPCURL = o.PrimaryRPCURL
		}
		if len(o.FallbackURLs) > 0 {
			def.FallbackRPCURLs = append([]string(nil), o.FallbackURLs...)
		}
		p.byChain[o.ChainID] = def
		p.logger.Debug("RPC endpoints overridden", "network", def.Name, "primary", def.PrimaryRPCURL)
	}

	p.logger.Info("NetworkDefinitionProvider initialized", "networks", len(p.byChain))
	return p
}

// GetAllNetworkDefinitions returns supported networks ordered by chain id.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.byChain))
	for _, def := range p.byChain {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.byChain[chainID]
	return def, ok
}
