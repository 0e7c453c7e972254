package entity

// Wallet is an address the CLI can be pointed at from a wallet file.
type Wallet struct {
	Address string `json:"address"`
}
