package tokenloader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"portfolio_oracle/internal/app/port"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/utils"
)

// DefaultTokenDirectoryPath is where <identifier>.json token lists are looked up.
const DefaultTokenDirectoryPath = "data/tokens"

// TokenFileLoader reads per-network token lists from JSON files.
// Сеть без файла получает встроенный список из одного нативного токена.
type TokenFileLoader struct {
	tokenDirPath string
	logger       port.Logger
}

// NewTokenLoader creates a new TokenFileLoader. An empty dir selects the default path.
func NewTokenLoader(tokenDirPath string, logger port.Logger) *TokenFileLoader {
	if tokenDirPath == "" {
		tokenDirPath = DefaultTokenDirectoryPath
	}
	return &TokenFileLoader{tokenDirPath: tokenDirPath, logger: logger}
}

// LoadTokens returns the token list for one network, in file order.
// Tokens with a mismatched chainId or a malformed address are skipped.
func (l *TokenFileLoader) LoadTokens(netDef entity.NetworkDefinition) ([]entity.Token, error) {
	filePath := filepath.Join(l.tokenDirPath, netDef.Identifier+".json")

	tokensInFile, err := utils.ReadJSONFile[[]entity.Token](filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Info("No token file for network, using built-in list", "network_identifier", netDef.Identifier, "path", filePath)
			return BuiltinTokens(netDef), nil
		}
		return nil, fmt.Errorf("failed to load tokens for %s: %w", netDef.Identifier, err)
	}

	valid := make([]entity.Token, 0, len(tokensInFile))
	for _, token := range tokensInFile {
		if token.ChainID != netDef.ChainID {
			l.logger.Warn("Token has mismatched ChainID in file, skipping token.",
				"file", filePath, "token_symbol", token.Symbol, "token_address", token.Address,
				"token_chain_id", token.ChainID, "expected_chain_id", netDef.ChainID)
			continue
		}
		if !utils.IsHexAddress(token.Address) {
			l.logger.Warn("Token has malformed address, skipping token.", "file", filePath, "token_symbol", token.Symbol, "token_address", token.Address)
			continue
		}
		valid = append(valid, token)
	}

	l.logger.Info("Successfully loaded and validated tokens for network from file",
		"network_identifier", netDef.Identifier, "count", len(valid))
	return valid, nil
}

// BuiltinTokens is the static list used when no token file exists.
func BuiltinTokens(netDef entity.NetworkDefinition) []entity.Token {
	native := netDef.NativeToken()
	native.Name = netDef.Name + " Native Token"
	switch netDef.ChainID {
	case 7001:
		native.Name = "ZetaChain Native Token"
	case 11155111:
		native.Name = "Ethereum Native Token"
	}
	return []entity.Token{native}
}
