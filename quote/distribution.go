package quote

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/dex"
	"github.com/krazyTry/kliquidity-go/dex/meteora"
	"github.com/krazyTry/kliquidity-go/dex/orca"
	"github.com/krazyTry/kliquidity-go/dex/raydium"
)

// TickLiquidity is the signed liquidity delta crossing into TickIndex.
type TickLiquidity struct {
	TickIndex    int32
	LiquidityNet *big.Int
}

// LiquidityPool is the pool data the distribution is anchored to.
type LiquidityPool struct {
	Liquidity        *big.Int
	TickCurrentIndex int32
	TickSpacing      uint16
	DecimalsA        uint8
	DecimalsB        uint8
}

type LiquidityDatapoint struct {
	TickIndex int32
	Price     decimal.Decimal
	Liquidity *big.Int
}

type LiquidityDistribution struct {
	Datapoints []LiquidityDatapoint
	// Anchored is false when the current tick is outside the scanned window
	// and the series could not be corrected against the pool liquidity.
	Anchored bool
}

// GetLiquidityDistribution accumulates liquidityNet over [tickLower, tickUpper].
// The scan rarely starts at the first initialized tick of the pool, so the
// running totals are shifted until the datapoint covering the current tick
// equals the pool liquidity. Negative values are then clamped to zero.
func GetLiquidityDistribution(codec dex.PriceCodec, pool LiquidityPool, ticks []TickLiquidity, tickLower, tickUpper int32) (*LiquidityDistribution, error) {
	if codec == nil || pool.Liquidity == nil {
		return nil, ErrMissingPool
	}
	if tickLower >= tickUpper {
		return nil, fmt.Errorf("%w: %d >= %d", ErrInvalidRange, tickLower, tickUpper)
	}

	window := make([]TickLiquidity, 0, len(ticks))
	for _, t := range ticks {
		if t.TickIndex < tickLower || t.TickIndex > tickUpper || t.LiquidityNet == nil {
			continue
		}
		window = append(window, t)
	}
	sort.Slice(window, func(i, j int) bool { return window[i].TickIndex < window[j].TickIndex })

	out := &LiquidityDistribution{Datapoints: make([]LiquidityDatapoint, 0, len(window))}
	running := big.NewInt(0)
	anchor := -1
	for _, t := range window {
		running = new(big.Int).Add(running, t.LiquidityNet)
		price, err := codec.IndexToPrice(t.TickIndex, pool.DecimalsA, pool.DecimalsB, pool.TickSpacing)
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", t.TickIndex, err)
		}
		if t.TickIndex <= pool.TickCurrentIndex {
			anchor = len(out.Datapoints)
		}
		out.Datapoints = append(out.Datapoints, LiquidityDatapoint{TickIndex: t.TickIndex, Price: price, Liquidity: running})
	}

	inWindow := pool.TickCurrentIndex >= tickLower && pool.TickCurrentIndex <= tickUpper
	if inWindow {
		// below the first initialized tick the running total is still zero
		covered := big.NewInt(0)
		if anchor >= 0 {
			covered = out.Datapoints[anchor].Liquidity
		}
		correction := new(big.Int).Sub(pool.Liquidity, covered)
		for i := range out.Datapoints {
			out.Datapoints[i].Liquidity.Add(out.Datapoints[i].Liquidity, correction)
		}
		out.Anchored = true
	}

	for i := range out.Datapoints {
		if out.Datapoints[i].Liquidity.Sign() < 0 {
			out.Datapoints[i].Liquidity.SetInt64(0)
		}
	}
	return out, nil
}

// OrcaTickLiquidity flattens initialized ticks of whirlpool tick arrays.
func OrcaTickLiquidity(arrays []*orca.TickArray, tickSpacing uint16) []TickLiquidity {
	var out []TickLiquidity
	for _, a := range arrays {
		if a == nil {
			continue
		}
		for i, t := range a.Ticks {
			if !t.Initialized {
				continue
			}
			out = append(out, TickLiquidity{TickIndex: a.TickIndex(i, tickSpacing), LiquidityNet: t.LiquidityNet})
		}
	}
	return out
}

// RaydiumTickLiquidity flattens ticks with gross liquidity of CLMM tick arrays.
func RaydiumTickLiquidity(arrays []*raydium.TickArray) []TickLiquidity {
	var out []TickLiquidity
	for _, a := range arrays {
		if a == nil {
			continue
		}
		for _, t := range a.Ticks {
			if t.LiquidityGross == nil || t.LiquidityGross.Sign() == 0 {
				continue
			}
			out = append(out, TickLiquidity{TickIndex: t.Tick, LiquidityNet: t.LiquidityNet})
		}
	}
	return out
}

type BinLiquidity struct {
	BinId   int32
	AmountX uint64
	AmountY uint64
}

type BinDatapoint struct {
	BinId int32
	Price decimal.Decimal
	// Liquidity is amountX * price + amountY in token Y lamports.
	Liquidity decimal.Decimal
}

// MeteoraBinLiquidity flattens non-empty bins of DLMM bin arrays.
func MeteoraBinLiquidity(arrays []*meteora.BinArray) []BinLiquidity {
	var out []BinLiquidity
	for _, a := range arrays {
		if a == nil {
			continue
		}
		for i, b := range a.Bins {
			if b.AmountX == 0 && b.AmountY == 0 {
				continue
			}
			out = append(out, BinLiquidity{BinId: a.BinId(i), AmountX: b.AmountX, AmountY: b.AmountY})
		}
	}
	return out
}

// GetBinDistribution prices every bin in [binLower, binUpper] in ascending order.
func GetBinDistribution(bins []BinLiquidity, binStep uint16, decimalsX, decimalsY uint8, binLower, binUpper int32) ([]BinDatapoint, error) {
	if binLower > binUpper {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidRange, binLower, binUpper)
	}

	out := make([]BinDatapoint, 0, len(bins))
	for _, b := range bins {
		if b.BinId < binLower || b.BinId > binUpper {
			continue
		}
		perLamport, err := meteora.GetPriceOfBinByBinId(b.BinId, binStep)
		if err != nil {
			return nil, fmt.Errorf("bin %d: %w", b.BinId, err)
		}
		liquidity := decimal.NewFromBigInt(new(big.Int).SetUint64(b.AmountX), 0).
			Mul(perLamport).
			Add(decimal.NewFromBigInt(new(big.Int).SetUint64(b.AmountY), 0))
		out = append(out, BinDatapoint{
			BinId:     b.BinId,
			Price:     meteora.FromPricePerLamport(perLamport, decimalsX, decimalsY),
			Liquidity: liquidity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BinId < out[j].BinId })
	return out, nil
}
