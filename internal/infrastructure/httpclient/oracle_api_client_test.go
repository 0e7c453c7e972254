package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio_oracle/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const wallet = "0x1111111111111111111111111111111111111111"

func TestFetchPortfolio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio", r.URL.Path)
		assert.Equal(t, wallet, r.URL.Query().Get("address"))
		assert.Equal(t, "11155111", r.URL.Query().Get("chainId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"portfolio":{"totalValue":3750,"tokenCount":2,"topTokens":[],"riskLevel":"high","concentration":0.5556},"tokenBalances":[]}`)
	}))
	defer srv.Close()

	c := NewOracleAPIClient(srv.URL, time.Second, zap.NewNop())
	p, err := c.FetchPortfolio(context.Background(), wallet, 11155111)
	require.NoError(t, err)
	assert.Equal(t, 3750.0, p.Summary.TotalValue)
	assert.Equal(t, entity.RiskHigh, p.Summary.RiskLevel)
}

func TestFetchPortfolio_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		validation bool
		message    string
	}{
		{"bad request", http.StatusBadRequest, `{"error":"Unsupported chain"}`, true, "Unsupported chain"},
		{"server error", http.StatusInternalServerError, `{"error":"Failed to fetch portfolio data"}`, false, "Failed to fetch portfolio data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewOracleAPIClient(srv.URL, time.Second, zap.NewNop()).FetchPortfolio(context.Background(), wallet, 1)
			require.Error(t, err)
			assert.Equal(t, tt.validation, entity.IsValidation(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestStreamOracle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"userQuestion":"Will it rain?"`)
		assert.Contains(t, string(body), `"isFollowUp":true`)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"content\":\"Yes\"}\n\ndata: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewOracleAPIClient(srv.URL, time.Second, zap.NewNop())
	rc, err := c.StreamOracle(context.Background(), entity.OracleRequest{
		PortfolioSummary: &entity.PortfolioSummary{RiskLevel: entity.RiskLow},
		UserQuestion:     "Will it rain?",
		IsFollowUp:       true,
	})
	require.NoError(t, err)
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data: {\"content\":\"Yes\"}\n\ndata: [DONE]\n\n", string(raw))
}

func TestStreamOracle_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Portfolio summary is required"}`)
	}))
	defer srv.Close()

	_, err := NewOracleAPIClient(srv.URL, time.Second, zap.NewNop()).StreamOracle(context.Background(), entity.OracleRequest{})
	require.Error(t, err)
	assert.True(t, entity.IsValidation(err))
	assert.Contains(t, err.Error(), "Portfolio summary is required")
}
