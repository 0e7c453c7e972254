package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsHexAddress требует префикс 0x и ровно 40 шестнадцатеричных символов.
func IsHexAddress(addr string) bool {
	return strings.HasPrefix(addr, "0x") && common.IsHexAddress(addr)
}

// NormalizeAddress lowercases a valid address; invalid input is returned unchanged.
func NormalizeAddress(addr string) string {
	if !IsHexAddress(addr) {
		return addr
	}
	return strings.ToLower(addr)
}
