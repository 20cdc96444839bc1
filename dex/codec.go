package dex

import (
	"errors"
	"fmt"
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/dex/meteora"
	"github.com/krazyTry/kliquidity-go/dex/orca"
	"github.com/krazyTry/kliquidity-go/dex/raydium"
)

var ErrNilSqrtPrice = errors.New("sqrt price is nil")

// PriceCodec converts between a venue's native price encoding and decimal prices.
// Indexes are ticks for Orca and Raydium and bin ids for Meteora; spacing is the
// tick spacing or bin step.
type PriceCodec interface {
	Dex() Dex
	IndexToPrice(index int32, decimalsA, decimalsB uint8, spacing uint16) (decimal.Decimal, error)
	PriceToIndex(price decimal.Decimal, decimalsA, decimalsB uint8, spacing uint16) (int32, error)
	// SqrtPriceToPrice reads the pool's Q64.64 price field. Meteora stores a
	// linear price there, not a square root.
	SqrtPriceToPrice(sqrtPriceX64 *big.Int, decimalsA, decimalsB uint8) (decimal.Decimal, error)
	PriceToSqrtPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (*big.Int, error)
	// IndexToSqrtPriceX64 returns the square root of the raw index price in Q64.64.
	IndexToSqrtPriceX64(index int32, spacing uint16) (*big.Int, error)
}

var (
	orcaCodec    PriceCodec = OrcaCodec{}
	raydiumCodec PriceCodec = RaydiumCodec{}
	meteoraCodec PriceCodec = MeteoraCodec{}
)

// CodecFor returns the codec for d, failing for unknown venues.
func CodecFor(d Dex) (PriceCodec, error) {
	switch d {
	case DexOrca:
		return orcaCodec, nil
	case DexRaydium:
		return raydiumCodec, nil
	case DexMeteora:
		return meteoraCodec, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownDex, uint8(d))
}

func TickOrBinToPrice(d Dex, index int32, decimalsA, decimalsB uint8, spacing uint16) (decimal.Decimal, error) {
	c, err := CodecFor(d)
	if err != nil {
		return decimal.Zero, err
	}
	return c.IndexToPrice(index, decimalsA, decimalsB, spacing)
}

func PriceToTickOrBin(d Dex, price decimal.Decimal, decimalsA, decimalsB uint8, spacing uint16) (int32, error) {
	c, err := CodecFor(d)
	if err != nil {
		return 0, err
	}
	return c.PriceToIndex(price, decimalsA, decimalsB, spacing)
}

func SqrtPriceToPrice(d Dex, sqrtPriceX64 *big.Int, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	c, err := CodecFor(d)
	if err != nil {
		return decimal.Zero, err
	}
	return c.SqrtPriceToPrice(sqrtPriceX64, decimalsA, decimalsB)
}

// OrcaCodec wraps the whirlpool tick math.
type OrcaCodec struct{}

func (OrcaCodec) Dex() Dex { return DexOrca }

func (OrcaCodec) IndexToPrice(index int32, decimalsA, decimalsB uint8, _ uint16) (decimal.Decimal, error) {
	return orca.TickIndexToPrice(index, decimalsA, decimalsB)
}

func (c OrcaCodec) PriceToIndex(price decimal.Decimal, decimalsA, decimalsB uint8, spacing uint16) (int32, error) {
	floor, err := orca.PriceToTickIndex(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return nearestTick(c, floor, price, decimalsA, decimalsB, spacing, orca.MinTickIndex, orca.MaxTickIndex)
}

func (OrcaCodec) SqrtPriceToPrice(sqrtPriceX64 *big.Int, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	if sqrtPriceX64 == nil {
		return decimal.Zero, ErrNilSqrtPrice
	}
	return orca.SqrtPriceX64ToPrice(sqrtPriceX64, decimalsA, decimalsB), nil
}

func (OrcaCodec) PriceToSqrtPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (*big.Int, error) {
	return orca.PriceToSqrtPriceX64(price, decimalsA, decimalsB)
}

func (OrcaCodec) IndexToSqrtPriceX64(index int32, _ uint16) (*big.Int, error) {
	return orca.TickIndexToSqrtPriceX64(index)
}

// RaydiumCodec wraps the CLMM tick math.
type RaydiumCodec struct{}

func (RaydiumCodec) Dex() Dex { return DexRaydium }

func (RaydiumCodec) IndexToPrice(index int32, decimalsA, decimalsB uint8, _ uint16) (decimal.Decimal, error) {
	return raydium.TickToPrice(index, decimalsA, decimalsB)
}

func (c RaydiumCodec) PriceToIndex(price decimal.Decimal, decimalsA, decimalsB uint8, spacing uint16) (int32, error) {
	floor, err := raydium.PriceToTick(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return nearestTick(c, floor, price, decimalsA, decimalsB, spacing, raydium.MinTick, raydium.MaxTick)
}

func (RaydiumCodec) SqrtPriceToPrice(sqrtPriceX64 *big.Int, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	if sqrtPriceX64 == nil {
		return decimal.Zero, ErrNilSqrtPrice
	}
	return raydium.SqrtPriceX64ToPrice(cosmath.NewIntFromBigInt(sqrtPriceX64), decimalsA, decimalsB), nil
}

func (RaydiumCodec) PriceToSqrtPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (*big.Int, error) {
	sqrt, err := raydium.PriceToSqrtPriceX64(price, decimalsA, decimalsB)
	if err != nil {
		return nil, err
	}
	return sqrt.BigInt(), nil
}

func (RaydiumCodec) IndexToSqrtPriceX64(index int32, _ uint16) (*big.Int, error) {
	sqrt, err := raydium.GetSqrtPriceX64FromTick(index)
	if err != nil {
		return nil, err
	}
	return sqrt.BigInt(), nil
}

// MeteoraCodec wraps the DLMM bin math. spacing is the pair's bin step.
type MeteoraCodec struct{}

func (MeteoraCodec) Dex() Dex { return DexMeteora }

func (MeteoraCodec) IndexToPrice(index int32, decimalsA, decimalsB uint8, spacing uint16) (decimal.Decimal, error) {
	p, err := meteora.GetPriceOfBinByBinId(index, spacing)
	if err != nil {
		return decimal.Zero, err
	}
	return meteora.FromPricePerLamport(p, decimalsA, decimalsB), nil
}

func (MeteoraCodec) PriceToIndex(price decimal.Decimal, decimalsA, decimalsB uint8, spacing uint16) (int32, error) {
	if price.Sign() <= 0 {
		return 0, meteora.ErrNonPositivePrice
	}
	return meteora.GetBinIdFromPrice(meteora.ToPricePerLamport(price, decimalsA, decimalsB), spacing)
}

func (MeteoraCodec) SqrtPriceToPrice(priceX64 *big.Int, decimalsA, decimalsB uint8) (decimal.Decimal, error) {
	if priceX64 == nil {
		return decimal.Zero, ErrNilSqrtPrice
	}
	return meteora.PriceX64ToPrice(priceX64, decimalsA, decimalsB), nil
}

func (MeteoraCodec) PriceToSqrtPrice(price decimal.Decimal, decimalsA, decimalsB uint8) (*big.Int, error) {
	return meteora.PriceToPriceX64(price, decimalsA, decimalsB)
}

func (MeteoraCodec) IndexToSqrtPriceX64(index int32, spacing uint16) (*big.Int, error) {
	return meteora.BinIdToSqrtPriceX64(index, spacing)
}

// nearestTick picks the on-grid tick whose price is closest to price, searching
// around the floor tick returned by the venue's log approximation.
func nearestTick(c PriceCodec, floor int32, price decimal.Decimal, decimalsA, decimalsB uint8, spacing uint16, minTick, maxTick int32) (int32, error) {
	step := int32(spacing)
	if step <= 0 {
		step = 1
	}
	base := floorMultiple(floor, step)

	var (
		best     int32
		bestDist decimal.Decimal
		found    bool
	)
	for k := int32(-1); k <= 2; k++ {
		tick := base + k*step
		if tick < minTick || tick > maxTick {
			continue
		}
		p, err := c.IndexToPrice(tick, decimalsA, decimalsB, spacing)
		if err != nil {
			return 0, err
		}
		dist := p.Sub(price).Abs()
		if !found || dist.LessThan(bestDist) {
			best, bestDist, found = tick, dist, true
		}
	}
	if !found {
		return floor, nil
	}
	return best, nil
}

func floorMultiple(v, step int32) int32 {
	q := v / step
	if v < 0 && v%step != 0 {
		q--
	}
	return q * step
}
