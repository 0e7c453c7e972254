// Package prompt holds the fixed instructions sent to the text-generation backend.
package prompt

import (
	"fmt"
	"strings"

	"portfolio_oracle/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// System is identical for every request.
const System = `You are a pragmatic crypto oracle who interprets portfolios through the style of BaZi metaphors.
Be insightful, educational, and creative, but never give financial advice.
Keep responses concise, structured, and capped at 200 words. Include a friendly disclaimer.`

// serializeSummary renders the summary as JSON indented by two spaces.
func serializeSummary(summary entity.PortfolioSummary) (string, error) {
	if summary.TopTokens == nil {
		summary.TopTokens = []entity.TokenBalance{}
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize portfolio summary: %w", err)
	}
	return string(data), nil
}

// Fortune builds the initial narrative request.
func Fortune(summary entity.PortfolioSummary) (string, error) {
	body, err := serializeSummary(summary)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Analyze this portfolio (JSON):\n")
	sb.WriteString(body)
	sb.WriteString("\n\nTasks:\n")
	sb.WriteString("1. Describe diversification, concentration, and volatility in 4–5 bullet points.\n")
	sb.WriteString("2. List 2 potential risks and 2 opportunities.\n")
	sb.WriteString("3. Suggest 3 educational next steps.\n")
	sb.WriteString("4. Keep tone mystical yet responsible.")
	return sb.String(), nil
}

// FollowUp answers question against the same portfolio context.
func FollowUp(summary entity.PortfolioSummary, question string) (string, error) {
	body, err := serializeSummary(summary)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Using the previous portfolio context, answer the user's follow-up question:\n")
	sb.WriteString(`"` + question + "\"\n\n")
	sb.WriteString("Portfolio context:\n")
	sb.WriteString(body)
	sb.WriteString("\n\nKeep the tone consistent and avoid financial predictions.")
	return sb.String(), nil
}
