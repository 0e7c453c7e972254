package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsolatesFailures(t *testing.T) {
	client := &fakeClient{
		nativeErr: errRPC,
		tokens:    map[string]*big.Int{daiAddr: wei("5000000000000000000")},
		tokenErrs: map[string]error{usdcAddr: errRPC},
	}
	registry := fakeRegistry{tokens: []entity.Token{
		nativeToken(),
		erc20("USDC", usdcAddr, 6),
		erc20("BROKEN", "0xnot-an-address", 18),
		erc20("DAI", daiAddr, 18),
	}}

	for _, concurrency := range []int{1, 4} {
		r := NewBalanceResolver(fakeNetworks{}, fakeClients{client: client}, registry, quiet(), concurrency)
		got, err := r.Resolve(context.Background(), testWallet, 7001)
		require.NoError(t, err)
		require.Len(t, got, 4)

		assert.Equal(t, []string{"ZETA", "USDC", "BROKEN", "DAI"}, symbols(got))
		assert.Zero(t, got[0].Amount.Sign(), "native failure becomes zero")
		assert.Zero(t, got[1].Amount.Sign(), "reverted call becomes zero")
		assert.Zero(t, got[2].Amount.Sign(), "malformed address becomes zero")
		assert.Equal(t, "5000000000000000000", got[3].Amount.String())
	}
	assert.NotContains(t, client.calls, "0xnot-an-address", "malformed address is never queried")
}

func TestResolveSynthesizesNativeToken(t *testing.T) {
	client := &fakeClient{native: wei("1500000000000000000")}
	registry := fakeRegistry{tokens: []entity.Token{erc20("USDC", usdcAddr, 6)}}

	r := NewBalanceResolver(fakeNetworks{}, fakeClients{client: client}, registry, quiet(), 1)
	got, err := r.Resolve(context.Background(), testWallet, 7001)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Token.IsNative())
	assert.Equal(t, "ZETA", got[0].Token.Symbol)
	assert.Equal(t, "1500000000000000000", got[0].Amount.String())
	assert.Equal(t, "USDC", got[1].Token.Symbol)
}

func TestResolveValidation(t *testing.T) {
	r := NewBalanceResolver(fakeNetworks{}, fakeClients{client: &fakeClient{}}, fakeRegistry{}, quiet(), 1)

	cases := []struct {
		name    string
		address string
		chainID uint64
		want    error
	}{
		{"missing address", "", 7001, entity.ErrAddressRequired},
		{"malformed address", "0x1234", 7001, entity.ErrInvalidAddress},
		{"unsupported chain", testWallet, 1, entity.ErrUnsupportedChain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tc.address, tc.chainID)
			require.Error(t, err)
			assert.True(t, entity.IsValidation(err))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestResolveWithoutClientReturnsZeros(t *testing.T) {
	registry := fakeRegistry{tokens: []entity.Token{nativeToken(), erc20("USDC", usdcAddr, 6)}}
	r := NewBalanceResolver(fakeNetworks{}, fakeClients{err: errors.New("dial failed")}, registry, quiet(), 1)

	got, err := r.Resolve(context.Background(), testWallet, 7001)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, b := range got {
		assert.True(t, b.IsZero())
	}
}

func TestResolveRegistryFailure(t *testing.T) {
	r := NewBalanceResolver(fakeNetworks{}, fakeClients{client: &fakeClient{}}, fakeRegistry{err: errors.New("disk")}, quiet(), 1)

	_, err := r.Resolve(context.Background(), testWallet, 7001)
	require.Error(t, err)
	assert.False(t, entity.IsValidation(err))
}

func symbols(bs []entity.RawBalance) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Token.Symbol
	}
	return out
}

func TestResolveAbandonedLookupsAreNotFailures(t *testing.T) {
	client := &fakeClient{delay: time.Hour}
	registry := fakeRegistry{tokens: []entity.Token{nativeToken(), erc20("USDC", usdcAddr, 6)}}
	r := NewBalanceResolver(fakeNetworks{}, fakeClients{client: client}, registry, quiet(), 1)

	native := metrics.BalanceLookupFailures.WithLabelValues("7001", "native")
	token := metrics.BalanceLookupFailures.WithLabelValues("7001", "token")
	nativeBefore, tokenBefore := testutil.ToFloat64(native), testutil.ToFloat64(token)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	got, err := r.Resolve(ctx, testWallet, 7001)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Zero(t, got[0].Amount.Sign())
	assert.Zero(t, got[1].Amount.Sign())

	assert.Equal(t, nativeBefore, testutil.ToFloat64(native))
	assert.Equal(t, tokenBefore, testutil.ToFloat64(token))
}

func TestResolveProviderFailureIsCounted(t *testing.T) {
	client := &fakeClient{nativeErr: errRPC}
	r := NewBalanceResolver(fakeNetworks{}, fakeClients{client: client}, fakeRegistry{tokens: []entity.Token{nativeToken()}}, quiet(), 1)

	native := metrics.BalanceLookupFailures.WithLabelValues("7001", "native")
	before := testutil.ToFloat64(native)

	_, err := r.Resolve(context.Background(), testWallet, 7001)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(native))
}
