package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID          uint64   `json:"chainId" yaml:"chainId"`
	Name             string   `json:"name" yaml:"name"`
	Identifier       string   `json:"identifier" yaml:"identifier"` // Уникальный идентификатор сети, он же имя файла токенов
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeName       string   `json:"nativeName" yaml:"nativeName"`
	Decimals         uint8    `json:"decimals" yaml:"decimals"` // Количество десятичных знаков для нативного токена
	PrimaryRPCURL    string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	Testnet          bool     `json:"testnet" yaml:"testnet"`
}

// NativeToken builds the registry entry for the chain's base currency.
func (n NetworkDefinition) NativeToken() Token {
	return Token{
		Address:  ZeroAddress,
		Symbol:   n.NativeSymbol,
		Name:     n.NativeName,
		Decimals: n.Decimals,
		ChainID:  n.ChainID,
	}
}
