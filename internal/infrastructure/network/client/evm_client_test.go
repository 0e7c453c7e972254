package client

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "0x1111111111111111111111111111111111111111"

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode answers eth_getBalance and eth_call with fixed values.
func fakeNode(t *testing.T, callResult string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var result string
		switch req.Method {
		case "eth_getBalance":
			result = `"0xde0b6b3a7640000"` // 1e18
		case "eth_call":
			var msg struct {
				Input string `json:"input"`
				Data  string `json:"data"`
			}
			assert.NoError(t, json.Unmarshal(req.Params[0], &msg))
			data := msg.Input
			if data == "" {
				data = msg.Data
			}
			// balanceOf selector plus the left-padded owner.
			assert.True(t, strings.HasPrefix(data, "0x70a08231"), data)
			assert.True(t, strings.HasSuffix(data, strings.TrimPrefix(testWallet, "0x")), data)
			result = callResult
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
}

func newTestClient(t *testing.T, url string) *EVMClient {
	t.Helper()
	netDef := entity.NetworkDefinition{ChainID: 11155111, Name: "Sepolia", PrimaryRPCURL: url}
	c, err := NewEVMClient(netDef, nil, time.Second, time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestEVMClient_GetNativeBalance(t *testing.T) {
	srv := fakeNode(t, `"0x"`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	balance, err := c.GetNativeBalance(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", balance.String())
	assert.Equal(t, uint64(11155111), c.Definition().ChainID)
}

func TestEVMClient_GetTokenBalance(t *testing.T) {
	// 2500 * 10^6 encoded as a single uint256 word.
	word := "0x" + strings.Repeat("0", 64-8) + "9502f900"
	srv := fakeNode(t, `"`+word+`"`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	balance, err := c.GetTokenBalance(context.Background(), "0x2222222222222222222222222222222222222222", testWallet)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(big.NewInt(2_500_000_000)))
}

func TestEVMClient_GetTokenBalanceEmptyResult(t *testing.T) {
	srv := fakeNode(t, `"0x"`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetTokenBalance(context.Background(), "0x2222222222222222222222222222222222222222", testWallet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no contract code")
}

func TestNewEVMClient_NoEndpoints(t *testing.T) {
	_, err := NewEVMClient(entity.NetworkDefinition{Name: "Nowhere"}, nil, time.Second, time.Second, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nowhere")
}

func TestEVMClientProvider_CachesByChain(t *testing.T) {
	srv := fakeNode(t, `"0x"`)
	defer srv.Close()

	p := NewEVMClientProvider(ProviderConfig{RateLimit: 50, BurstLimit: 5}, logger.Nop())
	defer p.Close()
	netDef := entity.NetworkDefinition{ChainID: 7001, Name: "ZetaChain Testnet", PrimaryRPCURL: srv.URL}

	first, err := p.GetClient(netDef)
	require.NoError(t, err)
	second, err := p.GetClient(netDef)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
