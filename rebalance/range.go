package rebalance

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var bpsDenominator = decimal.NewFromInt(10000)

// PriceConverter is the part of a venue price codec the range helpers need.
// dex.PriceCodec satisfies it.
type PriceConverter interface {
	IndexToPrice(index int32, decimalsA, decimalsB uint8, spacing uint16) (decimal.Decimal, error)
	SqrtPriceToPrice(sqrtPriceX64 *big.Int, decimalsA, decimalsB uint8) (decimal.Decimal, error)
}

type PositionRange struct {
	LowerPrice decimal.Decimal
	UpperPrice decimal.Decimal
}

// PoolContext carries the live pool values a range is computed against.
type PoolContext struct {
	// CurrentIndex is the pool tick or the active bin id.
	CurrentIndex int32
	Price        decimal.Decimal
	DecimalsA    uint8
	DecimalsB    uint8
	// Spacing is the tick spacing or the bin step.
	Spacing uint16
	// PositionLower and PositionUpper are the indexes of the open position,
	// used for manual strategies.
	PositionLower int32
	PositionUpper int32
}

// DeriveRange returns mid-below and mid+above, failing when either leaves the
// int32 range.
func DeriveRange(mid, below, above int32) (int32, int32, error) {
	lower := int64(mid) - int64(below)
	upper := int64(mid) + int64(above)
	if lower < math.MinInt32 || lower > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: lower index %d", ErrValueOutOfRange, lower)
	}
	if upper < math.MinInt32 || upper > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: upper index %d", ErrValueOutOfRange, upper)
	}
	return int32(lower), int32(upper), nil
}

func PositionRangeFromIndexes(c PriceConverter, lower, upper int32, decimalsA, decimalsB uint8, spacing uint16) (PositionRange, error) {
	lowerPrice, err := c.IndexToPrice(lower, decimalsA, decimalsB, spacing)
	if err != nil {
		return PositionRange{}, fmt.Errorf("lower index %d: %w", lower, err)
	}
	upperPrice, err := c.IndexToPrice(upper, decimalsA, decimalsB, spacing)
	if err != nil {
		return PositionRange{}, fmt.Errorf("upper index %d: %w", upper, err)
	}
	return PositionRange{LowerPrice: lowerPrice, UpperPrice: upperPrice}, nil
}

// PriceRangeFromBps widens price by lowerBps below and upperBps above.
func PriceRangeFromBps(price decimal.Decimal, lowerBps, upperBps uint16) PositionRange {
	lower := price.Mul(bpsDenominator.Sub(decimal.NewFromInt(int64(lowerBps)))).Div(bpsDenominator)
	upper := price.Mul(bpsDenominator.Add(decimal.NewFromInt(int64(upperBps)))).Div(bpsDenominator)
	if lower.Sign() < 0 {
		lower = decimal.Zero
	}
	return PositionRange{LowerPrice: lower, UpperPrice: upper}
}

// RangeForParams returns the position range the vault would target for the
// params and state stored in raw.
func RangeForParams(kind RebalanceType, raw RebalanceRaw, c PriceConverter, pool PoolContext) (PositionRange, error) {
	p, err := ParseParams(kind, raw.Params[:])
	if err != nil {
		return PositionRange{}, err
	}

	fromMid := func(mid, below, above int32) (PositionRange, error) {
		lower, upper, err := DeriveRange(mid, below, above)
		if err != nil {
			return PositionRange{}, err
		}
		return PositionRangeFromIndexes(c, lower, upper, pool.DecimalsA, pool.DecimalsB, pool.Spacing)
	}

	switch p := p.(type) {
	case ManualParams:
		return PositionRangeFromIndexes(c, pool.PositionLower, pool.PositionUpper, pool.DecimalsA, pool.DecimalsB, pool.Spacing)
	case PricePercentageParams:
		return PriceRangeFromBps(pool.Price, p.LowerRangeBps, p.UpperRangeBps), nil
	case PricePercentageWithResetParams:
		return PriceRangeFromBps(pool.Price, p.LowerRangeBps, p.UpperRangeBps), nil
	case PeriodicRebalanceParams:
		return PriceRangeFromBps(pool.Price, p.LowerRangeBps, p.UpperRangeBps), nil
	case ExpanderParams:
		return PriceRangeFromBps(pool.Price, p.LowerRangeBps, p.UpperRangeBps), nil
	case DriftParams:
		return fromMid(pool.CurrentIndex, p.TicksBelowMid, p.TicksAboveMid)
	case AutodriftParams:
		s, err := DecodeAutodriftState(raw.State[:])
		if err != nil {
			return PositionRange{}, err
		}
		mid := pool.CurrentIndex
		if s.Initialized {
			mid = s.CurrentWindow.StrategyMidTick
		}
		return fromMid(mid, p.TicksBelowMid, p.TicksAboveMid)
	case TakeProfitParams:
		lower, err := c.SqrtPriceToPrice(p.LowerSqrtPriceX64, pool.DecimalsA, pool.DecimalsB)
		if err != nil {
			return PositionRange{}, err
		}
		upper, err := c.SqrtPriceToPrice(p.UpperSqrtPriceX64, pool.DecimalsA, pool.DecimalsB)
		if err != nil {
			return PositionRange{}, err
		}
		return PositionRange{LowerPrice: lower, UpperPrice: upper}, nil
	}
	return PositionRange{}, fmt.Errorf("%w: %d", ErrUnknownRebalanceType, uint8(kind))
}
