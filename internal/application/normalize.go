package application

import (
	"math/big"
	"strings"
)

// NativeDecimals is the fixed-point scale of the native currency: 10^18
// base units per display unit.
const NativeDecimals = 18

var nativeScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(NativeDecimals), nil)

// ParseBigInt reads a non-negative base-unit integer from its decimal
// string form. Absent or unparsable input yields zero rather than an error
// so that one bad record cannot abort a whole aggregation.
func ParseBigInt(raw string) *big.Int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return new(big.Int)
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return new(big.Int)
	}
	return value
}

// ParseHexBigInt reads a base-unit integer from a 0x-prefixed hex string,
// as returned by the RPC source. Empty or unparsable input yields zero.
func ParseHexBigInt(raw string) *big.Int {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if trimmed == "" {
		return new(big.Int)
	}
	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return new(big.Int)
	}
	return value
}

// FormatUnits renders a base-unit integer as a display-unit decimal string
// with exactly the requested number of fractional digits, rounding half
// away from zero. All money paths go through here; no float64 involved.
func FormatUnits(baseUnits *big.Int, places int) string {
	if baseUnits == nil {
		baseUnits = new(big.Int)
	}
	quantity := new(big.Rat).SetFrac(baseUnits, nativeScale)
	return quantity.FloatString(places)
}

// FormatRat renders an arbitrary rational quantity with fixed precision.
func FormatRat(quantity *big.Rat, places int) string {
	if quantity == nil {
		quantity = new(big.Rat)
	}
	return quantity.FloatString(places)
}
