package shared

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Enums and common types shared by dex, quote and rebalance.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

// Percentage is a fraction numerator/denominator, used for slippage tolerances.
type Percentage struct {
	Numerator   *big.Int
	Denominator *big.Int
}

func NewPercentage(numerator, denominator int64) Percentage {
	return Percentage{Numerator: big.NewInt(numerator), Denominator: big.NewInt(denominator)}
}

// PercentageFromBps builds a Percentage out of basis points (50 = 0.5%).
func PercentageFromBps(bps uint16) Percentage {
	return NewPercentage(int64(bps), BasisPointMax)
}

func (p Percentage) IsZero() bool {
	return p.Numerator == nil || p.Numerator.Sign() == 0
}

func (p Percentage) Decimal() decimal.Decimal {
	if p.Denominator == nil || p.Denominator.Sign() == 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.Numerator, 0).DivRound(decimal.NewFromBigInt(p.Denominator, 0), PricePrecision)
}

// ZeroSlippage is used by quotes that want the exact estimate as the minimum.
var ZeroSlippage = NewPercentage(0, 1)

const (
	BasisPointMax = 10_000

	ScaleOffset = 64

	// PricePrecision is the number of fractional digits kept for intermediate
	// price math.
	PricePrecision int32 = 40
	// PriceSignificantDigits bounds human prices.
	PriceSignificantDigits int32 = 40

	SecondsPerDay  = 86_400
	SecondsPerYear = SecondsPerDay * 365
	DaysPerYear    = 365

	NumRewards = 3
)

var (
	OneQ64  = new(big.Int).Lsh(big.NewInt(1), ScaleOffset)
	OneQ128 = new(big.Int).Lsh(big.NewInt(1), 2*ScaleOffset)
	MaxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	U64Max  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
)
