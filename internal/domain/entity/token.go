package entity

import "strings"

// ZeroAddress зарезервирован за нативной валютой сети.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Token describes a trackable asset on a specific chain.
type Token struct {
	Address  string `json:"address" yaml:"address"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	ChainID  uint64 `json:"chainId" yaml:"chainId"`
	LogoURI  string `json:"logoURI,omitempty" yaml:"logoURI,omitempty"`
}

// IsNative reports whether the token stands for the chain's base currency.
func (t Token) IsNative() bool {
	return strings.EqualFold(t.Address, ZeroAddress)
}
