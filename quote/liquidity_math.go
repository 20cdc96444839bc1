package quote

import (
	"math/big"

	"github.com/krazyTry/kliquidity-go/shared"
)

// MulDiv returns x*y/denominator rounded as requested. A zero denominator yields zero.
func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding) *big.Int {
	if denominator.Sign() == 0 {
		return big.NewInt(0)
	}
	mul := new(big.Int).Mul(x, y)
	div, mod := new(big.Int).QuoRem(mul, denominator, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		return div.Add(div, big.NewInt(1))
	}
	return div
}

func orderSqrtPrices(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// GetTokenAFromLiquidity returns L * (sb - sa) / (sa * sb) with both sqrt prices in Q64.64.
func GetTokenAFromLiquidity(liquidity, sqrtPriceA, sqrtPriceB *big.Int, rounding shared.Rounding) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceA, sqrtPriceB)
	numerator := new(big.Int).Lsh(liquidity, shared.ScaleOffset)
	delta := new(big.Int).Sub(upper, lower)
	denominator := new(big.Int).Mul(lower, upper)
	return MulDiv(numerator, delta, denominator, rounding)
}

// GetTokenBFromLiquidity returns L * (sb - sa) >> 64.
func GetTokenBFromLiquidity(liquidity, sqrtPriceA, sqrtPriceB *big.Int, rounding shared.Rounding) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceA, sqrtPriceB)
	delta := new(big.Int).Sub(upper, lower)
	return MulDiv(liquidity, delta, shared.OneQ64, rounding)
}

// liquidityFromTokenA is the inverse of GetTokenAFromLiquidity.
func liquidityFromTokenA(amount, sqrtPriceA, sqrtPriceB *big.Int, rounding shared.Rounding) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceA, sqrtPriceB)
	delta := new(big.Int).Sub(upper, lower)
	if delta.Sign() == 0 {
		return big.NewInt(0)
	}
	product := new(big.Int).Mul(lower, upper)
	return MulDiv(amount, product, new(big.Int).Lsh(delta, shared.ScaleOffset), rounding)
}

// liquidityFromTokenB is the inverse of GetTokenBFromLiquidity.
func liquidityFromTokenB(amount, sqrtPriceA, sqrtPriceB *big.Int, rounding shared.Rounding) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceA, sqrtPriceB)
	delta := new(big.Int).Sub(upper, lower)
	return MulDiv(amount, shared.OneQ64, delta, rounding)
}

// GetLiquidityFromAmounts returns the largest liquidity both amounts can fund
// for a position between sqrtPriceLower and sqrtPriceUpper.
func GetLiquidityFromAmounts(sqrtPriceCurrent, sqrtPriceLower, sqrtPriceUpper, amountA, amountB *big.Int) *big.Int {
	lower, upper := orderSqrtPrices(sqrtPriceLower, sqrtPriceUpper)

	switch {
	case sqrtPriceCurrent.Cmp(lower) <= 0:
		return liquidityFromTokenA(amountA, lower, upper, shared.RoundingDown)
	case sqrtPriceCurrent.Cmp(upper) < 0:
		fromA := liquidityFromTokenA(amountA, sqrtPriceCurrent, upper, shared.RoundingDown)
		fromB := liquidityFromTokenB(amountB, lower, sqrtPriceCurrent, shared.RoundingDown)
		if fromA.Cmp(fromB) < 0 {
			return fromA
		}
		return fromB
	default:
		return liquidityFromTokenB(amountB, lower, upper, shared.RoundingDown)
	}
}

// AdjustForSlippage scales n up by (1 + slippage) or down by 1 / (1 + slippage).
func AdjustForSlippage(n *big.Int, slippage shared.Percentage, adjustUp bool) *big.Int {
	if slippage.IsZero() || slippage.Denominator == nil || slippage.Denominator.Sign() == 0 {
		return new(big.Int).Set(n)
	}
	total := new(big.Int).Add(slippage.Denominator, slippage.Numerator)
	if adjustUp {
		return MulDiv(n, total, slippage.Denominator, shared.RoundingDown)
	}
	return MulDiv(n, slippage.Denominator, total, shared.RoundingDown)
}
