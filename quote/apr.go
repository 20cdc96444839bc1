package quote

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/decimal_math"
	"github.com/krazyTry/kliquidity-go/dex"
	"github.com/krazyTry/kliquidity-go/dex/meteora"
	"github.com/krazyTry/kliquidity-go/dex/orca"
	"github.com/krazyTry/kliquidity-go/dex/raydium"
	"github.com/krazyTry/kliquidity-go/prices"
	"github.com/krazyTry/kliquidity-go/shared"
)

type Apr struct {
	Fee     float64
	Rewards [shared.NumRewards]float64
}

// AprReward is one emission slot of a pool. EmissionsPerSecondX64 is the raw
// per second amount in Q64.64.
type AprReward struct {
	Mint                  solana.PublicKey
	EmissionsPerSecondX64 *big.Int
	Initialized           bool
}

// AprPool is the venue neutral view of a pool used for yield estimates.
type AprPool struct {
	Codec            dex.PriceCodec
	Liquidity        *big.Int
	SqrtPrice        *big.Int
	TickCurrentIndex int32
	TickSpacing      uint16
	MintA            solana.PublicKey
	MintB            solana.PublicKey
	DecimalsA        uint8
	DecimalsB        uint8
	Rewards          [shared.NumRewards]AprReward
}

func AprPoolFromWhirlpool(w *orca.Whirlpool, decimalsA, decimalsB uint8) AprPool {
	p := AprPool{
		Codec:            dex.OrcaCodec{},
		Liquidity:        w.LiquidityBig(),
		SqrtPrice:        w.SqrtPriceBig(),
		TickCurrentIndex: w.TickCurrentIndex,
		TickSpacing:      w.TickSpacing,
		MintA:            w.TokenMintA,
		MintB:            w.TokenMintB,
		DecimalsA:        decimalsA,
		DecimalsB:        decimalsB,
	}
	for i, r := range w.RewardInfos {
		p.Rewards[i] = AprReward{Mint: r.Mint, EmissionsPerSecondX64: r.EmissionsPerSecondX64.Big(), Initialized: r.Initialized()}
	}
	return p
}

func AprPoolFromRaydium(s *raydium.PoolState) AprPool {
	p := AprPool{
		Codec:            dex.RaydiumCodec{},
		Liquidity:        s.Liquidity.Big(),
		SqrtPrice:        s.SqrtPriceX64.Big(),
		TickCurrentIndex: s.TickCurrent,
		TickSpacing:      s.TickSpacing,
		MintA:            s.TokenMint0,
		MintB:            s.TokenMint1,
		DecimalsA:        s.MintDecimals0,
		DecimalsB:        s.MintDecimals1,
	}
	for i, r := range s.RewardInfos {
		p.Rewards[i] = AprReward{Mint: r.TokenMint, EmissionsPerSecondX64: r.EmissionsPerSecondX64.Big(), Initialized: r.Initialized()}
	}
	return p
}

// AprPoolFromLbPair treats the pair as concentrated liquidity around the
// active bin. DLMM pairs do not store a pool wide liquidity value so the
// caller supplies it.
func AprPoolFromLbPair(l *meteora.LbPair, liquidity *big.Int, decimalsX, decimalsY uint8) (AprPool, error) {
	sqrtPrice, err := meteora.BinIdToSqrtPriceX64(l.ActiveId, l.BinStep)
	if err != nil {
		return AprPool{}, err
	}
	p := AprPool{
		Codec:            dex.MeteoraCodec{},
		Liquidity:        liquidity,
		SqrtPrice:        sqrtPrice,
		TickCurrentIndex: l.ActiveId,
		TickSpacing:      l.BinStep,
		MintA:            l.TokenXMint,
		MintB:            l.TokenYMint,
		DecimalsA:        decimalsX,
		DecimalsB:        decimalsY,
	}
	for i, r := range l.RewardInfos {
		p.Rewards[i] = AprReward{Mint: r.Mint, EmissionsPerSecondX64: r.RewardRate, Initialized: r.Initialized()}
	}
	return p, nil
}

func tokenValue(amount *big.Int, decimals uint8, price decimal.Decimal) decimal.Decimal {
	return decimal_math.AdjustDecimals(amount, decimals).Mul(price)
}

// EstimateAprsForPriceRange annualizes fees24h (USD) and reward emissions
// against the value the pool's whole liquidity would hold if concentrated in
// [tickLower, tickUpper]. A zero Apr is returned when fees24h is not positive,
// either pool token has no price, the range is empty or the concentrated value
// is zero. Rewards without a price count as zero.
func EstimateAprsForPriceRange(
	pool AprPool,
	tokenPrices prices.TokenPrices,
	fees24h decimal.Decimal,
	tickLower, tickUpper int32,
	rewardDecimals map[solana.PublicKey]uint8,
) (Apr, error) {
	if fees24h.Sign() <= 0 {
		return Apr{}, nil
	}
	if pool.Codec == nil || pool.Liquidity == nil || pool.SqrtPrice == nil {
		return Apr{}, ErrMissingPool
	}
	if tokenPrices == nil {
		return Apr{}, ErrMissingPrice
	}

	priceA, okA := tokenPrices.Get(pool.MintA)
	priceB, okB := tokenPrices.Get(pool.MintB)
	if !okA || !okB || tickLower >= tickUpper {
		return Apr{}, nil
	}

	q, err := GetRemoveLiquidityQuote(RemoveLiquidityParams{
		Liquidity:        pool.Liquidity,
		SqrtPrice:        pool.SqrtPrice,
		TickCurrentIndex: pool.TickCurrentIndex,
		TickLowerIndex:   tickLower,
		TickUpperIndex:   tickUpper,
		TickSpacing:      pool.TickSpacing,
		Codec:            pool.Codec,
		Slippage:         shared.ZeroSlippage,
	})
	if err != nil {
		return Apr{}, err
	}

	concentratedValue := tokenValue(q.EstTokenA, pool.DecimalsA, priceA).
		Add(tokenValue(q.EstTokenB, pool.DecimalsB, priceB))
	if concentratedValue.Sign() <= 0 {
		return Apr{}, nil
	}

	var out Apr
	out.Fee = fees24h.Mul(decimal.NewFromInt(shared.DaysPerYear)).Div(concentratedValue).InexactFloat64()

	secondsPerYear := decimal.NewFromInt(shared.SecondsPerYear)
	for i, r := range pool.Rewards {
		if !r.Initialized || r.EmissionsPerSecondX64 == nil {
			continue
		}
		priceR, ok := tokenPrices.Get(r.Mint)
		if !ok {
			continue
		}
		decimals, ok := rewardDecimals[r.Mint]
		if !ok {
			return Apr{}, fmt.Errorf("%w: %s", ErrMissingDecimals, r.Mint)
		}
		perSecond := decimal_math.FromX64(r.EmissionsPerSecondX64, shared.PricePrecision).
			Shift(-int32(decimals))
		perYear := perSecond.Mul(secondsPerYear).Mul(priceR)
		out.Rewards[i] = perYear.Div(concentratedValue).InexactFloat64()
	}
	return out, nil
}
