package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/metrics"
	"portfolio_oracle/internal/pkg/utils"
)

// BalanceResolver fetches native and token balances for one address on one
// chain. Every lookup failure is isolated and valued at zero.
type BalanceResolver struct {
	networks    port.NetworkDefinitionProvider
	clients     port.BlockchainClientProvider
	registry    port.TokenRegistry
	logger      port.Logger
	concurrency int
}

// NewBalanceResolver creates a resolver. concurrency <= 1 keeps lookups sequential.
func NewBalanceResolver(
	networks port.NetworkDefinitionProvider,
	clients port.BlockchainClientProvider,
	registry port.TokenRegistry,
	logger port.Logger,
	concurrency int,
) *BalanceResolver {
	return &BalanceResolver{
		networks:    networks,
		clients:     clients,
		registry:    registry,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Resolve returns one entry per registered token, zero balances included, in
// registry order. A native entry is synthesized first when the registry has none.
func (r *BalanceResolver) Resolve(ctx context.Context, walletAddress string, chainID uint64) ([]entity.RawBalance, error) {
	if walletAddress == "" {
		return nil, entity.NewValidationError("address", entity.ErrAddressRequired)
	}
	if !utils.IsHexAddress(walletAddress) {
		return nil, entity.NewValidationError("address", entity.ErrInvalidAddress)
	}
	netDef, ok := r.networks.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		return nil, entity.NewValidationError("chainId", entity.ErrUnsupportedChain)
	}

	tokens, err := r.registry.ListTokens(ctx, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens for chain %d: %w", chainID, err)
	}
	tokens = withNativeToken(tokens, netDef)

	client, clientErr := r.clients.GetClient(netDef)
	if clientErr != nil {
		// без клиента все запросы считаются недоступными и дают 0
		r.logger.Warn("Blockchain client unavailable, balances will be zero", "network", netDef.Name, "error", clientErr)
	}

	chainLabel := strconv.FormatUint(chainID, 10)
	nativeSeen := false

	type lookup struct {
		token  entity.Token
		native bool
	}
	lookups := make([]lookup, len(tokens))
	for i, t := range tokens {
		// только первый нулевой адрес считается нативным, повторы идут как обычные токены
		native := t.IsNative() && !nativeSeen
		nativeSeen = nativeSeen || native
		lookups[i] = lookup{token: t, native: native}
	}

	return utils.TolerantBatch(ctx, lookups, r.concurrency,
		func(ctx context.Context, l lookup) (entity.RawBalance, error) {
			if clientErr != nil {
				return entity.RawBalance{}, clientErr
			}
			var (
				amount *big.Int
				err    error
			)
			switch {
			case l.native:
				amount, err = client.GetNativeBalance(ctx, walletAddress)
			case !utils.IsHexAddress(l.token.Address):
				return entity.RawBalance{}, entity.NewValidationError("token.address", entity.ErrInvalidAddress)
			default:
				amount, err = client.GetTokenBalance(ctx, l.token.Address, walletAddress)
			}
			if err != nil {
				return entity.RawBalance{}, err
			}
			if amount == nil {
				amount = new(big.Int)
			}
			return entity.RawBalance{Token: l.token, Amount: amount}, nil
		},
		func(l lookup, err error) entity.RawBalance {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// запрос брошен вызывающим, это не отказ провайдера
				r.logger.Debug("Balance lookup abandoned", "network", netDef.Name, "token", l.token.Symbol, "error", err)
				return entity.RawBalance{Token: l.token, Amount: new(big.Int)}
			}
			kind := "token"
			switch {
			case l.native:
				kind = "native"
			case entity.IsValidation(err):
				kind = "invalid_address"
			}
			metrics.BalanceLookupFailures.WithLabelValues(chainLabel, kind).Inc()
			r.logger.Warn("Balance lookup failed, substituting zero",
				"network", netDef.Name,
				"token", l.token.Symbol,
				"token_address", l.token.Address,
				"kind", kind,
				"error", err)
			return entity.RawBalance{Token: l.token, Amount: new(big.Int)}
		},
	), nil
}

func withNativeToken(tokens []entity.Token, netDef entity.NetworkDefinition) []entity.Token {
	for _, t := range tokens {
		if t.IsNative() {
			return tokens
		}
	}
	out := make([]entity.Token, 0, len(tokens)+1)
	out = append(out, netDef.NativeToken())
	return append(out, tokens...)
}
