package entity

// OracleRequest is the body of POST /api/ai.
type OracleRequest struct {
	PortfolioSummary *PortfolioSummary `json:"portfolioSummary"`
	UserQuestion     string            `json:"userQuestion,omitempty"`
	IsFollowUp       bool              `json:"isFollowUp,omitempty"`
}
