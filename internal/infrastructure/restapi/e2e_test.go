package restapi

import (
	"context"
	"math/big"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portfolio_oracle/internal/app/oracle"
	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/app/provider"
	"portfolio_oracle/internal/app/service"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/infrastructure/aiclient"
	"portfolio_oracle/internal/infrastructure/httpclient"
	networkdefinition "portfolio_oracle/internal/infrastructure/network/definition"
	"portfolio_oracle/internal/infrastructure/pricefeed"
	"portfolio_oracle/internal/infrastructure/tokenloader"
	"portfolio_oracle/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sepoliaUSDC = "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"

type stubChain struct{ netDef entity.NetworkDefinition }

func (s stubChain) GetNativeBalance(context.Context, string) (*big.Int, error) {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), nil // 1 ETH
}

func (s stubChain) GetTokenBalance(context.Context, string, string) (*big.Int, error) {
	return big.NewInt(1_250_000_000), nil // 1250 USDC
}

func (s stubChain) Definition() entity.NetworkDefinition { return s.netDef }

type stubClients struct{}

func (stubClients) GetClient(netDef entity.NetworkDefinition) (port.BlockchainClient, error) {
	return stubChain{netDef: netDef}, nil
}

func TestEndToEnd_PortfolioAndFortune(t *testing.T) {
	dir := t.TempDir()
	tokens := `[
  {"address":"0x0000000000000000000000000000000000000000","symbol":"ETH","name":"Ethereum Native Token","decimals":18,"chainId":11155111},
  {"address":"` + sepoliaUSDC + `","symbol":"USDC","name":"USD Coin","decimals":6,"chainId":11155111}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sepolia.json"), []byte(tokens), 0o600))

	log := logger.Nop()
	networks := networkdefinition.NewNetworkDefinitionProvider(log, nil)
	registry := provider.NewTokenProvider(tokenloader.NewTokenLoader(dir, log), networks, log)
	prices := service.NewTokenPriceService(pricefeed.NewStaticFeed(nil), time.Minute, log)
	resolver := service.NewBalanceResolver(networks, stubClients{}, registry, log, 2)
	portfolios := service.NewPortfolioService(resolver, service.NewPortfolioAggregator(prices, log), log, 5*time.Second)
	fortunes := service.NewFortuneService(aiclient.NewScriptedGenerator("The stars align.", 0), log, 500, 0.8)

	router := newTestRouter(portfolios, fortunes)
	srv := httptest.NewServer(router)
	defer srv.Close()

	api := httpclient.NewOracleAPIClient(srv.URL, 5*time.Second, zap.NewNop())
	session := oracle.NewSession(api, log, wallet, 11155111)

	p, err := session.LoadPortfolio(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 3750, p.Summary.TotalValue, 1e-9)
	assert.Equal(t, 2, p.Summary.TokenCount)
	assert.Equal(t, entity.RiskHigh, p.Summary.RiskLevel)
	require.Len(t, p.Summary.TopTokens, 2)
	assert.Equal(t, "ETH", p.Summary.TopTokens[0].Token.Symbol)
	assert.Equal(t, "1", p.Summary.TopTokens[0].BalanceFormatted)
	assert.Equal(t, "1250", p.Summary.TopTokens[1].BalanceFormatted)

	msg, err := session.GenerateFortune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The stars align.", msg.Content)
	assert.Equal(t, entity.MessageComplete, msg.State)

	_, err = session.AskFollowUp(context.Background(), "  Will ETH moon?  ")
	require.NoError(t, err)

	messages := session.Transcript().Snapshot()
	require.Len(t, messages, 3)
	assert.Equal(t, entity.MessageOracle, messages[0].Type)
	assert.Equal(t, entity.MessageUser, messages[1].Type)
	assert.Equal(t, "Will ETH moon?", messages[1].Content)
	assert.Equal(t, entity.MessageComplete, messages[2].State)

	_, err = session.SwitchChain(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, entity.IsValidation(err))
	assert.Contains(t, err.Error(), "Unsupported chain")
	assert.Zero(t, session.Transcript().Len())
}
