// Package units converts between on-chain integer token amounts and
// human readable decimal amounts.
package units

import (
	"dao-explorer/internal/model"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// XTZDecimals is the precision of the native asset (1 tez = 10^6 mutez).
const XTZDecimals int32 = 6

// ParseUnits scales a decimal amount up to the smallest unit of a token with
// the given precision. Fractional leftovers are rounded half away from zero,
// so 0.5 of the smallest unit becomes 1 and -0.5 becomes -1.
func ParseUnits(value decimal.Decimal, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("parse units with %d decimals: %w", decimals, model.ErrInvalidDecimals)
	}

	return value.Shift(decimals).Round(0).BigInt(), nil
}

// FormatUnits scales an integer amount in the smallest unit down to a decimal
// amount. The result is exact.
func FormatUnits(value *big.Int, decimals int32) (decimal.Decimal, error) {
	if decimals < 0 {
		return decimal.Zero, fmt.Errorf("format units with %d decimals: %w", decimals, model.ErrInvalidDecimals)
	}
	if value == nil {
		return decimal.Zero, nil
	}

	return decimal.NewFromBigInt(value, -decimals), nil
}

// XTZToMutez converts a tez amount to mutez.
func XTZToMutez(amount decimal.Decimal) *big.Int {
	mutez, _ := ParseUnits(amount, XTZDecimals)
	return mutez
}

// MutezToXTZ converts a mutez amount to tez.
func MutezToXTZ(amount *big.Int) decimal.Decimal {
	xtz, _ := FormatUnits(amount, XTZDecimals)
	return xtz
}
