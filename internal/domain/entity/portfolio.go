package entity

// RiskLevel is the discrete tier derived from portfolio concentration.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PortfolioSummary is recomputed wholesale on every balance refresh.
type PortfolioSummary struct {
	TotalValue    float64        `json:"totalValue"`
	TokenCount    int            `json:"tokenCount"`
	TopTokens     []TokenBalance `json:"topTokens"`
	RiskLevel     RiskLevel      `json:"riskLevel"`
	Concentration float64        `json:"concentration"`
}

// Portfolio bundles the summary with the full list of retained balances.
type Portfolio struct {
	Summary       PortfolioSummary `json:"portfolio"`
	TokenBalances []TokenBalance   `json:"tokenBalances"`
}
