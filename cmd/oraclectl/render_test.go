package main

import (
	"bytes"
	"strings"
	"testing"

	"portfolio_oracle/internal/app/oracle"
	"portfolio_oracle/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestRendererPrintsIncrementally(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(&buf)

	msgs := []entity.ChatMessage{{ID: "a", Type: entity.MessageOracle, Content: "The ", State: entity.MessageStreaming}}
	r.render(msgs)
	msgs[0].Content = "The stars"
	r.render(msgs)
	msgs[0].State = entity.MessageComplete
	r.render(msgs)
	r.render(msgs)

	msgs = append(msgs,
		entity.ChatMessage{ID: "b", Type: entity.MessageUser, Content: "Moon?", State: entity.MessageComplete},
		entity.ChatMessage{ID: "c", Type: entity.MessageOracle, Content: "Per", State: entity.MessageStalled},
	)
	r.render(msgs)

	assert.Equal(t, "\n🔮 Oracle: The stars\n\n🧑 You: Moon?\n\n🔮 Oracle: Per …\n", buf.String())
}

func TestRendererFollowFlushesOnStop(t *testing.T) {
	var buf bytes.Buffer
	tr := oracle.NewTranscript()
	stop := newRenderer(&buf).follow(tr)

	slot := tr.OpenOracleSlot()
	slot.Set("Fortune smiles.")
	slot.Finish(entity.MessageComplete)
	stop()
	stop()

	assert.Equal(t, 1, strings.Count(buf.String(), "Fortune smiles."))
	assert.True(t, strings.HasSuffix(buf.String(), "Fortune smiles.\n"))
}

func TestPrintPortfolio(t *testing.T) {
	var buf bytes.Buffer
	printPortfolio(&buf, "0xabc", 7001, entity.Portfolio{Summary: entity.PortfolioSummary{
		TotalValue: 3750, TokenCount: 2, RiskLevel: entity.RiskHigh, Concentration: 0.5556,
		TopTokens: []entity.TokenBalance{{Token: entity.Token{Symbol: "ETH"}, BalanceFormatted: "1", USDValue: 2500, Percentage: 66.67}},
	}})
	out := buf.String()
	assert.Contains(t, out, "$3750.00")
	assert.Contains(t, out, "HIGH (concentration 0.5556)")
	assert.Contains(t, out, "1. ETH")
}
