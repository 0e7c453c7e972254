package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/logger"
)

const (
	testWallet = "0x1111111111111111111111111111111111111111"
	usdcAddr   = "0x2222222222222222222222222222222222222222"
	daiAddr    = "0x3333333333333333333333333333333333333333"
)

var testNet = entity.NetworkDefinition{
	ChainID:      7001,
	Name:         "ZetaChain Athens Testnet",
	Identifier:   "zetachain_athens",
	NativeSymbol: "ZETA",
	NativeName:   "ZetaChain",
	Decimals:     18,
}

type fakeNetworks struct{}

func (fakeNetworks) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	return []entity.NetworkDefinition{testNet}
}

func (fakeNetworks) GetNetworkDefinitionByChainID(id uint64) (entity.NetworkDefinition, bool) {
	if id == testNet.ChainID {
		return testNet, true
	}
	return entity.NetworkDefinition{}, false
}

type fakeClient struct {
	mu        sync.Mutex
	native    *big.Int
	nativeErr error
	tokens    map[string]*big.Int
	tokenErrs map[string]error
	delay     time.Duration
	calls     []string
}

func (c *fakeClient) record(s string) {
	c.mu.Lock()
	c.calls = append(c.calls, s)
	c.mu.Unlock()
}

func (c *fakeClient) wait(ctx context.Context) error {
	if c.delay == 0 {
		return nil
	}
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeClient) GetNativeBalance(ctx context.Context, _ string) (*big.Int, error) {
	c.record("native")
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.native, c.nativeErr
}

func (c *fakeClient) GetTokenBalance(ctx context.Context, token string, _ string) (*big.Int, error) {
	c.record(strings.ToLower(token))
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if err := c.tokenErrs[token]; err != nil {
		return nil, err
	}
	if v, ok := c.tokens[token]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}

func (c *fakeClient) Definition() entity.NetworkDefinition { return testNet }

type fakeClients struct {
	client port.BlockchainClient
	err    error
}

func (f fakeClients) GetClient(entity.NetworkDefinition) (port.BlockchainClient, error) {
	return f.client, f.err
}

type fakeRegistry struct {
	tokens []entity.Token
	err    error
}

func (r fakeRegistry) ListTokens(context.Context, uint64) ([]entity.Token, error) {
	return r.tokens, r.err
}

type fakePrices struct {
	prices map[string]float64
	err    error
}

func (p fakePrices) GetPrices(_ context.Context, symbols []string) (map[string]float64, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := map[string]float64{}
	for _, s := range symbols {
		if v, ok := p.prices[s]; ok {
			out[s] = v
		}
	}
	return out, nil
}

var errRPC = errors.New("execution reverted")

func nativeToken() entity.Token { return testNet.NativeToken() }

func erc20(symbol, addr string, decimals uint8) entity.Token {
	return entity.Token{Address: addr, Symbol: symbol, Name: symbol, Decimals: decimals, ChainID: testNet.ChainID}
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}

func quiet() port.Logger { return logger.Nop() }
