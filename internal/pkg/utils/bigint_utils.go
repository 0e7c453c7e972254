package utils

import (
	"math/big"
	"strconv"
	"strings"
	"sync"
)

var (
	pow10Mu    sync.Mutex
	pow10Cache = map[uint8]*big.Int{}
)

// pow10 возвращает 10^d; результат не должен изменяться вызывающим кодом.
func pow10(d uint8) *big.Int {
	pow10Mu.Lock()
	defer pow10Mu.Unlock()
	if v, ok := pow10Cache[d]; ok {
		return v
	}
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil)
	pow10Cache[d] = v
	return v
}

// FormatTokenBalance converts a raw integer amount into its exact decimal
// representation with the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
// Only integer arithmetic is used, so no precision is lost for any magnitude.
func FormatTokenBalance(amount *big.Int, decimals uint8) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	abs := new(big.Int).Abs(amount)
	whole, frac := new(big.Int).QuoRem(abs, pow10(decimals), new(big.Int))

	var sb strings.Builder
	if amount.Sign() < 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(whole.String())

	if frac.Sign() != 0 {
		digits := frac.String()
		// дополняем нулями слева до ширины decimals, затем срезаем хвостовые нули
		padded := strings.Repeat("0", int(decimals)-len(digits)) + digits
		sb.WriteByte('.')
		sb.WriteString(strings.TrimRight(padded, "0"))
	}
	return sb.String()
}

// ParseTokenBalance is the inverse of FormatTokenBalance.
func ParseTokenBalance(formatted string, decimals uint8) (*big.Int, bool) {
	neg := strings.HasPrefix(formatted, "-")
	formatted = strings.TrimPrefix(formatted, "-")

	whole, frac, _ := strings.Cut(formatted, ".")
	if len(frac) > int(decimals) {
		return nil, false
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, false
	}
	if neg {
		v.Neg(v)
	}
	return v, true
}

// DecimalToFloat parses a formatted balance for USD valuation.
// Malformed input values at zero.
func DecimalToFloat(formatted string) float64 {
	f, err := strconv.ParseFloat(formatted, 64)
	if err != nil {
		return 0
	}
	return f
}
