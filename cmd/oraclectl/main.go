package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"portfolio_oracle/internal/infrastructure/httpclient"
	"portfolio_oracle/internal/infrastructure/walletloader"
	"portfolio_oracle/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

type rootFlags struct {
	serverURL  string
	address    string
	walletFile string
	chainID    uint64
	timeout    time.Duration
	logLevel   string
	jsonOutput bool
}

type cliState struct {
	flags     rootFlags
	zapLogger *zap.Logger
	api       *httpclient.OracleAPIClient
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	s := &cliState{}
	root := &cobra.Command{
		Use:           "oraclectl",
		Short:         "Query a portfolio oracle server from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return s.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if s.zapLogger != nil {
				_ = s.zapLogger.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&s.flags.serverURL, "server", "http://localhost:3000", "oracle server base URL")
	f.StringVar(&s.flags.address, "address", "", "wallet address (0x...)")
	f.StringVar(&s.flags.walletFile, "wallet-file", "", "file with one wallet address per line")
	f.Uint64Var(&s.flags.chainID, "chain", 7001, "chain id (7001 ZetaChain testnet, 11155111 Sepolia)")
	f.DurationVar(&s.flags.timeout, "timeout", 20*time.Second, "portfolio request timeout")
	f.StringVar(&s.flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	f.BoolVar(&s.flags.jsonOutput, "json", false, "print raw JSON instead of text")

	root.AddCommand(s.newPortfolioCommand())
	root.AddCommand(s.newFortuneCommand())
	return root
}

// init поднимает zap и направляет в него slog через zapslog.
func (s *cliState) init() error {
	zapLogger, err := logger.NewZap(s.flags.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	s.zapLogger = zapLogger
	logger.Use(slog.New(zapslog.NewHandler(zapLogger.Core())))

	s.api = httpclient.NewOracleAPIClient(s.flags.serverURL, s.flags.timeout, zapLogger)
	return nil
}

// addresses returns --address, or every wallet from --wallet-file.
// С обоими флагами файл работает как allowlist для --address.
func (s *cliState) addresses() ([]string, error) {
	if s.flags.address == "" && s.flags.walletFile == "" {
		return nil, fmt.Errorf("either --address or --wallet-file is required")
	}
	if s.flags.walletFile == "" {
		return []string{s.flags.address}, nil
	}
	loader := walletloader.NewWalletFileLoader(s.flags.walletFile, logger.Named("wallets"))
	if s.flags.address != "" {
		wallet, err := loader.GetWalletByAddress(s.flags.address)
		if err != nil {
			return nil, err
		}
		return []string{wallet.Address}, nil
	}
	wallets, err := loader.GetWallets()
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallet addresses in %s", s.flags.walletFile)
	}
	out := make([]string, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, w.Address)
	}
	return out, nil
}
