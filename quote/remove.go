package quote

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/kliquidity-go/dex"
	"github.com/krazyTry/kliquidity-go/shared"
)

// PositionStatus locates the pool price relative to a position range.
type PositionStatus uint8

const (
	PriceBelowRange PositionStatus = iota
	PriceInRange
	PriceAboveRange
)

// GetPositionStatus uses the tick convention shared by the three venues: the
// upper index is exclusive.
func GetPositionStatus(tickCurrent, tickLower, tickUpper int32) PositionStatus {
	switch {
	case tickCurrent < tickLower:
		return PriceBelowRange
	case tickCurrent < tickUpper:
		return PriceInRange
	default:
		return PriceAboveRange
	}
}

type RemoveLiquidityParams struct {
	Liquidity        *big.Int
	SqrtPrice        *big.Int
	TickCurrentIndex int32
	TickLowerIndex   int32
	TickUpperIndex   int32
	TickSpacing      uint16
	Codec            dex.PriceCodec
	Slippage         shared.Percentage
}

type RemoveLiquidityQuote struct {
	EstTokenA *big.Int
	EstTokenB *big.Int
	MinTokenA *big.Int
	MinTokenB *big.Int
	Liquidity *big.Int
}

type rangeSqrtPrices struct {
	lower *big.Int
	upper *big.Int
}

func sqrtPricesForRange(codec dex.PriceCodec, tickLower, tickUpper int32, spacing uint16) (rangeSqrtPrices, error) {
	if codec == nil {
		return rangeSqrtPrices{}, ErrMissingPool
	}
	if tickLower >= tickUpper {
		return rangeSqrtPrices{}, fmt.Errorf("%w: %d >= %d", ErrInvalidRange, tickLower, tickUpper)
	}
	lower, err := codec.IndexToSqrtPriceX64(tickLower, spacing)
	if err != nil {
		return rangeSqrtPrices{}, fmt.Errorf("lower index %d: %w", tickLower, err)
	}
	upper, err := codec.IndexToSqrtPriceX64(tickUpper, spacing)
	if err != nil {
		return rangeSqrtPrices{}, fmt.Errorf("upper index %d: %w", tickUpper, err)
	}
	return rangeSqrtPrices{lower: lower, upper: upper}, nil
}

// GetRemoveLiquidityQuote estimates the tokens returned for withdrawing
// Liquidity. Estimates round down; minimums apply the slippage haircut.
func GetRemoveLiquidityQuote(p RemoveLiquidityParams) (*RemoveLiquidityQuote, error) {
	if p.Liquidity == nil || p.SqrtPrice == nil {
		return nil, ErrMissingPool
	}
	if p.SqrtPrice.Sign() <= 0 {
		return nil, ErrInvalidSqrtPrice
	}
	r, err := sqrtPricesForRange(p.Codec, p.TickLowerIndex, p.TickUpperIndex, p.TickSpacing)
	if err != nil {
		return nil, err
	}

	estA, estB := big.NewInt(0), big.NewInt(0)
	switch GetPositionStatus(p.TickCurrentIndex, p.TickLowerIndex, p.TickUpperIndex) {
	case PriceBelowRange:
		estA = GetTokenAFromLiquidity(p.Liquidity, r.lower, r.upper, shared.RoundingDown)
	case PriceInRange:
		estA = GetTokenAFromLiquidity(p.Liquidity, p.SqrtPrice, r.upper, shared.RoundingDown)
		estB = GetTokenBFromLiquidity(p.Liquidity, r.lower, p.SqrtPrice, shared.RoundingDown)
	case PriceAboveRange:
		estB = GetTokenBFromLiquidity(p.Liquidity, r.lower, r.upper, shared.RoundingDown)
	}

	return &RemoveLiquidityQuote{
		EstTokenA: estA,
		EstTokenB: estB,
		MinTokenA: AdjustForSlippage(estA, p.Slippage, false),
		MinTokenB: AdjustForSlippage(estB, p.Slippage, false),
		Liquidity: new(big.Int).Set(p.Liquidity),
	}, nil
}
