package walletloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/utils"
)

// DefaultWalletFilePath is used when no path is given.
const DefaultWalletFilePath = "data/wallets.txt"

// WalletFileLoader implements the port.WalletProvider interface by loading wallets from a file.
// Формат: один адрес на строку, пустые строки и # комментарии пропускаются.
type WalletFileLoader struct {
	filePath string
	logger   port.Logger
}

// NewWalletFileLoader creates a new WalletFileLoader.
func NewWalletFileLoader(filePath string, logger port.Logger) *WalletFileLoader {
	if filePath == "" {
		filePath = DefaultWalletFilePath
	}
	return &WalletFileLoader{filePath: filePath, logger: logger}
}

// GetWallets reads wallet addresses from the configured file path.
func (l *WalletFileLoader) GetWallets() ([]entity.Wallet, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", l.filePath, err)
	}
	defer file.Close()

	var wallets []entity.Wallet
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !utils.IsHexAddress(line) {
			l.logger.Info("Skipping invalid wallet address format", "file", l.filePath, "line_number", lineNum, "address", line)
			continue
		}
		wallets = append(wallets, entity.Wallet{Address: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", l.filePath, err)
	}

	l.logger.Debug("Wallets loaded successfully from file", "count", len(wallets), "path", l.filePath)
	return wallets, nil
}

// GetWalletByAddress searches for a wallet by its address in the file.
func (l *WalletFileLoader) GetWalletByAddress(address string) (*entity.Wallet, error) {
	wallets, err := l.GetWallets()
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets when searching by address '%s': %w", address, err)
	}

	for _, wallet := range wallets {
		if strings.EqualFold(wallet.Address, address) {
			return &wallet, nil
		}
	}
	return nil, fmt.Errorf("wallet with address %s not found in %s", address, l.filePath)
}

var _ port.WalletProvider = (*WalletFileLoader)(nil)
