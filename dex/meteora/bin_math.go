package meteora

import (
	"errors"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/decimal_math"
	"github.com/krazyTry/kliquidity-go/shared"
)

var (
	ErrBinStepRequired  = errors.New("bin step is required")
	ErrBinOutOfRange    = errors.New("bin id out of range")
	ErrNonPositivePrice = errors.New("price must be positive")
)

func binBase(binStep uint16) decimal.Decimal {
	// BasisPointMax is 10^4
	return decimal.NewFromInt(1).Add(decimal.New(int64(binStep), -4))
}

// GetPriceOfBinByBinId returns (1 + binStep/10000)^binId as a price per lamport.
func GetPriceOfBinByBinId(binId int32, binStep uint16) (decimal.Decimal, error) {
	if binStep == 0 {
		return decimal.Zero, ErrBinStepRequired
	}
	if binId < MinBinId || binId > MaxBinId {
		return decimal.Zero, ErrBinOutOfRange
	}
	return decimal_math.PowInt(binBase(binStep), int64(binId), 2*shared.PricePrecision), nil
}

// FromPricePerLamport converts a lamport price to a UI price.
func FromPricePerLamport(price decimal.Decimal, decimalsX, decimalsY uint8) decimal.Decimal {
	return decimal_math.RoundSignificant(decimal_math.ScaleByDecimals(price, decimalsX, decimalsY), shared.PriceSignificantDigits)
}

// ToPricePerLamport converts a UI price to a lamport price.
func ToPricePerLamport(price decimal.Decimal, decimalsX, decimalsY uint8) decimal.Decimal {
	return decimal_math.ScaleByDecimals(price, decimalsY, decimalsX)
}

// GetBinIdFromPrice returns the bin id whose lamport price is nearest to pricePerLamport.
func GetBinIdFromPrice(pricePerLamport decimal.Decimal, binStep uint16) (int32, error) {
	if binStep == 0 {
		return 0, ErrBinStepRequired
	}
	if pricePerLamport.Sign() <= 0 {
		return 0, ErrNonPositivePrice
	}

	f, _ := pricePerLamport.Float64()
	estimate := math.Log(f) / math.Log1p(float64(binStep)/BasisPointMax)
	if math.IsInf(estimate, 0) || math.IsNaN(estimate) {
		return 0, ErrBinOutOfRange
	}

	center := int32(math.Round(estimate))
	best := center
	var bestDist decimal.Decimal
	found := false
	for id := center - 2; id <= center+2; id++ {
		if id < MinBinId || id > MaxBinId {
			continue
		}
		p, err := GetPriceOfBinByBinId(id, binStep)
		if err != nil {
			return 0, err
		}
		dist := p.Sub(pricePerLamport).Abs()
		if !found || dist.LessThan(bestDist) {
			best, bestDist, found = id, dist, true
		}
	}
	if !found {
		return 0, ErrBinOutOfRange
	}
	return best, nil
}

// PriceX64ToPrice converts the linear Q64.64 price stored on bins into a UI price.
func PriceX64ToPrice(priceX64 *big.Int, decimalsX, decimalsY uint8) decimal.Decimal {
	return FromPricePerLamport(decimal_math.FromX64(priceX64, 2*shared.PricePrecision), decimalsX, decimalsY)
}

// PriceToPriceX64 is the inverse of PriceX64ToPrice, flooring the remainder.
func PriceToPriceX64(price decimal.Decimal, decimalsX, decimalsY uint8) (*big.Int, error) {
	if price.Sign() <= 0 {
		return nil, ErrNonPositivePrice
	}
	return decimal_math.ToX64(ToPricePerLamport(price, decimalsX, decimalsY)), nil
}

// BinIdToSqrtPriceX64 returns sqrt of the bin's lamport price in Q64.64, for
// callers that apply concentrated liquidity formulas over a bin range.
func BinIdToSqrtPriceX64(binId int32, binStep uint16) (*big.Int, error) {
	p, err := GetPriceOfBinByBinId(binId, binStep)
	if err != nil {
		return nil, err
	}
	sqrt, err := decimal_math.Sqrt(p, 256)
	if err != nil {
		return nil, err
	}
	return decimal_math.ToX64(sqrt), nil
}

// BinIdToBinArrayIndex divides bins across arrays of MaxBinPerArray, flooring negatives.
func BinIdToBinArrayIndex(binId int32) int64 {
	q := binId / MaxBinPerArray
	if binId < 0 && binId%MaxBinPerArray != 0 {
		q--
	}
	return int64(q)
}
