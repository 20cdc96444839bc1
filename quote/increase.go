package quote

import (
	"math/big"

	"github.com/krazyTry/kliquidity-go/dex"
	"github.com/krazyTry/kliquidity-go/shared"
)

type IncreaseLiquidityParams struct {
	InputTokenAmount *big.Int
	InputIsTokenA    bool
	SqrtPrice        *big.Int
	TickCurrentIndex int32
	TickLowerIndex   int32
	TickUpperIndex   int32
	TickSpacing      uint16
	Codec            dex.PriceCodec
	Slippage         shared.Percentage
}

type IncreaseLiquidityQuote struct {
	Liquidity *big.Int
	TokenEstA *big.Int
	TokenEstB *big.Int
	TokenMaxA *big.Int
	TokenMaxB *big.Int
}

func zeroIncreaseQuote() *IncreaseLiquidityQuote {
	return &IncreaseLiquidityQuote{
		Liquidity: big.NewInt(0),
		TokenEstA: big.NewInt(0),
		TokenEstB: big.NewInt(0),
		TokenMaxA: big.NewInt(0),
		TokenMaxB: big.NewInt(0),
	}
}

// GetIncreaseLiquidityQuote sizes a deposit from one input token. Outside the
// range only one token can be deposited; supplying the other yields a zero quote.
func GetIncreaseLiquidityQuote(p IncreaseLiquidityParams) (*IncreaseLiquidityQuote, error) {
	if p.InputTokenAmount == nil || p.SqrtPrice == nil {
		return nil, ErrMissingPool
	}
	if p.SqrtPrice.Sign() <= 0 {
		return nil, ErrInvalidSqrtPrice
	}
	r, err := sqrtPricesForRange(p.Codec, p.TickLowerIndex, p.TickUpperIndex, p.TickSpacing)
	if err != nil {
		return nil, err
	}

	var liquidity, estA, estB *big.Int
	switch GetPositionStatus(p.TickCurrentIndex, p.TickLowerIndex, p.TickUpperIndex) {
	case PriceBelowRange:
		if !p.InputIsTokenA {
			return zeroIncreaseQuote(), nil
		}
		liquidity = liquidityFromTokenA(p.InputTokenAmount, r.lower, r.upper, shared.RoundingDown)
		estA = GetTokenAFromLiquidity(liquidity, r.lower, r.upper, shared.RoundingUp)
		estB = big.NewInt(0)
	case PriceAboveRange:
		if p.InputIsTokenA {
			return zeroIncreaseQuote(), nil
		}
		liquidity = liquidityFromTokenB(p.InputTokenAmount, r.lower, r.upper, shared.RoundingDown)
		estA = big.NewInt(0)
		estB = GetTokenBFromLiquidity(liquidity, r.lower, r.upper, shared.RoundingUp)
	default:
		if p.InputIsTokenA {
			liquidity = liquidityFromTokenA(p.InputTokenAmount, p.SqrtPrice, r.upper, shared.RoundingDown)
		} else {
			liquidity = liquidityFromTokenB(p.InputTokenAmount, r.lower, p.SqrtPrice, shared.RoundingDown)
		}
		estA = GetTokenAFromLiquidity(liquidity, p.SqrtPrice, r.upper, shared.RoundingUp)
		estB = GetTokenBFromLiquidity(liquidity, r.lower, p.SqrtPrice, shared.RoundingUp)
	}

	return &IncreaseLiquidityQuote{
		Liquidity: liquidity,
		TokenEstA: estA,
		TokenEstB: estB,
		TokenMaxA: AdjustForSlippage(estA, p.Slippage, true),
		TokenMaxB: AdjustForSlippage(estB, p.Slippage, true),
	}, nil
}
