package orca

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/decimal_math"
	"github.com/krazyTry/kliquidity-go/shared"
)

var ErrNonPositivePrice = errors.New("price must be positive")

// SqrtPriceX64ToPrice unscales the sqrt price in decimal space first, then squares it.
func SqrtPriceX64ToPrice(sqrtPriceX64 *big.Int, decimalsA, decimalsB uint8) decimal.Decimal {
	sqrt := decimal_math.FromX64(sqrtPriceX64, 2*shared.PricePrecision)
	price := sqrt.Mul(sqrt)
	return decimal_math.RoundSignificant(decimal_math.ScaleByDecimals(price, decimalsA, decimalsB), shared.PriceSignificantDigits)
}

func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	sqrtPriceX64, err := TickIndexToSqrtPriceX64(tick)
	if err != nil {
		return decimal.Zero, err
	}
	return SqrtPriceX64ToPrice(sqrtPriceX64, decimalsA, decimalsB), nil
}

func PriceToSqrtPriceX64(price decimal.Decimal, decimalsA, decimalsB uint8) (*big.Int, error) {
	if price.Sign() <= 0 {
		return nil, ErrNonPositivePrice
	}
	raw := decimal_math.ScaleByDecimals(price, decimalsB, decimalsA)
	sqrt, err := decimal_math.Sqrt(raw, 256)
	if err != nil {
		return nil, err
	}
	return decimal_math.ToX64(sqrt), nil
}

// PriceToTickIndex returns the greatest tick whose price does not exceed price.
func PriceToTickIndex(price decimal.Decimal, decimalsA, decimalsB uint8) (int32, error) {
	sqrtPriceX64, err := PriceToSqrtPriceX64(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	if sqrtPriceX64.Cmp(MinSqrtPriceX64) < 0 {
		return MinTickIndex, nil
	}
	if sqrtPriceX64.Cmp(MaxSqrtPriceX64) > 0 {
		return MaxTickIndex, nil
	}
	return SqrtPriceX64ToTickIndex(sqrtPriceX64)
}
