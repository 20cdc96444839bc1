package raydium

import (
	"errors"
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/decimal_math"
	"github.com/krazyTry/kliquidity-go/shared"
)

var ErrNonPositivePrice = errors.New("price must be positive")

var q128 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0)

// SqrtPriceX64ToPrice squares the raw Q64.64 value as an integer and unscales by 2^128.
func SqrtPriceX64ToPrice(sqrtPriceX64 cosmath.Int, decimalsA, decimalsB uint8) decimal.Decimal {
	squared := sqrtPriceX64.Mul(sqrtPriceX64)
	price := decimal.NewFromBigInt(squared.BigInt(), 0).DivRound(q128, 2*shared.PricePrecision)
	return decimal_math.RoundSignificant(decimal_math.ScaleByDecimals(price, decimalsA, decimalsB), shared.PriceSignificantDigits)
}

func TickToPrice(tick int32, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	sqrt, err := GetSqrtPriceX64FromTick(tick)
	if err != nil {
		return decimal.Zero, err
	}
	return SqrtPriceX64ToPrice(sqrt, decimalsA, decimalsB), nil
}

func PriceToSqrtPriceX64(price decimal.Decimal, decimalsA, decimalsB uint8) (cosmath.Int, error) {
	if price.Sign() <= 0 {
		return cosmath.Int{}, ErrNonPositivePrice
	}
	raw := decimal_math.ScaleByDecimals(price, decimalsB, decimalsA)
	sqrt, err := decimal_math.Sqrt(raw, 256)
	if err != nil {
		return cosmath.Int{}, err
	}
	return cosmath.NewIntFromBigInt(decimal_math.ToX64(sqrt)), nil
}

// PriceToTick clamps to the supported sqrt price range before taking the log.
func PriceToTick(price decimal.Decimal, decimalsA, decimalsB uint8) (int32, error) {
	sqrt, err := PriceToSqrtPriceX64(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	if sqrt.LT(MinSqrtPriceX64) {
		return MinTick, nil
	}
	if sqrt.GT(MaxSqrtPriceX64) {
		return MaxTick, nil
	}
	return GetTickFromSqrtPriceX64(sqrt)
}
