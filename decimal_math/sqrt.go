package decimal_math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

var ErrNegativeSqrt = errors.New("sqrt of negative decimal")

// Sqrt computes the square root with a big.Float of prec mantissa bits.
func Sqrt(x decimal.Decimal, prec uint) (decimal.Decimal, error) {
	if x.Sign() < 0 {
		return decimal.Zero, ErrNegativeSqrt
	}
	if x.Sign() == 0 {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(
		new(big.Float).SetPrec(prec).Sqrt(
			x.BigFloat().SetPrec(prec),
		).Text('f', -1),
	)
}
