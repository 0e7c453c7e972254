package client

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"
)

// EVMClient implements the port.BlockchainClient interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
}

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		if _, ok := parsedERC20ABI.Methods["balanceOf"]; !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
	})
}

// NewEVMClient dials the primary RPC and then each fallback until one answers.
// limiter may be nil for an unthrottled client.
func NewEVMClient(
	netDef entity.NetworkDefinition,
	httpClient *http.Client,
	connectionTimeout time.Duration,
	rpcCallTimeout time.Duration,
	limiter *rate.Limiter,
) (*EVMClient, error) {
	initParsedERC20ABI()
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		opts := []rpc.ClientOption{}
		if httpClient != nil {
			opts = append(opts, rpc.WithHTTPClient(httpClient))
		}
		rpcClient, err := rpc.DialOptions(ctx, rpcURL, opts...)
		cancel()

		if err == nil {
			return &EVMClient{
				ethClient:      ethclient.NewClient(rpcClient),
				netDef:         netDef,
				rpcCallTimeout: rpcCallTimeout,
				limiter:        limiter,
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC endpoints configured")
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	return callCtx, cancel, nil
}

// GetNativeBalance issues eth_getBalance at the latest block.
func (c *EVMClient) GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	balance, err := c.ethClient.BalanceAt(callCtx, common.HexToAddress(walletAddress), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch native balance on %s: %w", c.netDef.Name, err)
	}
	return balance, nil
}

// GetTokenBalance calls balanceOf(walletAddress) on the token contract.
// An empty return (no contract at the address) is an error, not zero.
func (c *EVMClient) GetTokenBalance(ctx context.Context, tokenAddress string, walletAddress string) (*big.Int, error) {
	callData, err := parsedERC20ABI.Pack("balanceOf", common.HexToAddress(walletAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}
	to := common.HexToAddress(tokenAddress)

	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	result, err := c.ethClient.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: callData}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed for %s on %s: %w", tokenAddress, c.netDef.Name, err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no contract code at %s on %s", tokenAddress, c.netDef.Name)
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result for %s: %w. Raw: %s", tokenAddress, err, hexutil.Encode(result))
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("balanceOf unpack returned no data for %s", tokenAddress)
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("failed to assert unpacked balanceOf result to *big.Int for %s. Got: %T", tokenAddress, unpacked[0])
	}
	return balance, nil
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

var _ port.BlockchainClient = (*EVMClient)(nil)
