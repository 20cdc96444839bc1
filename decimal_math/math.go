package decimal_math

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var q64 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0)

// Pow10 returns 10^n exactly.
func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// FromX64 converts a Q64.64 fixed point integer into a decimal rounded to scale places.
func FromX64(num *big.Int, scale int32) decimal.Decimal {
	return decimal.NewFromBigInt(num, 0).DivRound(q64, scale)
}

// ToX64 converts a decimal into Q64.64, flooring the fractional remainder.
func ToX64(num decimal.Decimal) *big.Int {
	return num.Mul(q64).Floor().BigInt()
}

// ScaleByDecimals multiplies a raw ratio by 10^(decimalsA-decimalsB).
func ScaleByDecimals(num decimal.Decimal, decimalsA, decimalsB uint8) decimal.Decimal {
	return num.Mul(Pow10(int32(decimalsA) - int32(decimalsB)))
}

// AdjustDecimals turns a raw token amount into its UI amount.
func AdjustDecimals(amount *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// RoundSignificant rounds num to digits significant digits, so tiny prices keep
// the same relative precision as large ones.
func RoundSignificant(num decimal.Decimal, digits int32) decimal.Decimal {
	if num.IsZero() {
		return num
	}
	coefficient := new(big.Int).Abs(num.Coefficient())
	magnitude := int32(len(coefficient.String())) + num.Exponent()
	return num.Round(digits - magnitude)
}
