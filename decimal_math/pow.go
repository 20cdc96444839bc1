package decimal_math

import (
	"github.com/shopspring/decimal"
)

// PowInt raises base to an integer exponent by repeated squaring. Negative
// exponents divide one by the positive power, rounded to scale places.
func PowInt(base decimal.Decimal, exponent int64, scale int32) decimal.Decimal {
	if exponent == 0 {
		return decimal.NewFromInt(1)
	}
	neg := exponent < 0
	n := exponent
	if neg {
		n = -n
	}

	// intermediate rounding keeps coefficients bounded for large bin ids
	work := scale + 20
	result := decimal.NewFromInt(1)
	b := base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(b).Round(work)
		}
		n >>= 1
		if n > 0 {
			b = b.Mul(b).Round(work)
		}
	}

	if neg {
		return decimal.NewFromInt(1).DivRound(result, scale)
	}
	return result.Round(scale)
}
