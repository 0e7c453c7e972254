package entity

import "math/big"

// RawBalance is an on-chain balance before formatting and pricing.
type RawBalance struct {
	Token  Token
	Amount *big.Int
}

// IsZero считает отсутствующий баланс нулевым.
func (b RawBalance) IsZero() bool {
	return b.Amount == nil || b.Amount.Sign() == 0
}

// TokenBalance is a priced, formatted holding as returned by the portfolio API.
type TokenBalance struct {
	Token            Token   `json:"token"`
	Balance          string  `json:"balance"`
	BalanceFormatted string  `json:"balanceFormatted"`
	USDValue         float64 `json:"usdValue"`
	Percentage       float64 `json:"percentage"`
}
