package raydium

import (
	"errors"
	"math/big"

	cosmath "cosmossdk.io/math"
)

var (
	ErrTickOutOfRange      = errors.New("tick must be in MIN_TICK and MAX_TICK")
	ErrSqrtPriceOutOfRange = errors.New("provided sqrtPrice is not within the supported sqrtPrice range")
)

var tickRatios = []struct {
	bit   int64
	ratio cosmath.Int
}{
	{0x2, mustInt("18444899583751176192")},
	{0x4, mustInt("18443055278223355904")},
	{0x8, mustInt("18439367220385607680")},
	{0x10, mustInt("18431993317065453568")},
	{0x20, mustInt("18417254355718170624")},
	{0x40, mustInt("18387811781193609216")},
	{0x80, mustInt("18329067761203558400")},
	{0x100, mustInt("18212142134806163456")},
	{0x200, mustInt("17980523815641700352")},
	{0x400, mustInt("17526086738831433728")},
	{0x800, mustInt("16651378430235570176")},
	{0x1000, mustInt("15030750278694412288")},
	{0x2000, mustInt("12247334978884435968")},
	{0x4000, mustInt("8131365268886854656")},
	{0x8000, mustInt("3584323654725218816")},
	{0x10000, mustInt("696457651848324352")},
	{0x20000, mustInt("26294789957507116")},
	{0x40000, mustInt("37481735321082")},
}

func mulRightShift(val, mulBy cosmath.Int) cosmath.Int {
	return val.Mul(mulBy).Quo(q64)
}

// GetSqrtPriceX64FromTick returns sqrt(1.0001^tick) in Q64.64.
func GetSqrtPriceX64FromTick(tick int32) (cosmath.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return cosmath.Int{}, ErrTickOutOfRange
	}

	tickAbs := int64(tick)
	if tickAbs < 0 {
		tickAbs = -tickAbs
	}

	ratio := q64
	if tickAbs&0x1 != 0 {
		ratio = mustInt("18445821805675395072")
	}
	for _, r := range tickRatios {
		if tickAbs&r.bit != 0 {
			ratio = mulRightShift(ratio, r.ratio)
		}
	}

	if tick > 0 {
		ratio = maxUint128.Quo(ratio)
	}
	return ratio, nil
}

// GetTickFromSqrtPriceX64 returns the greatest tick whose sqrt price is <= sqrtPriceX64.
func GetTickFromSqrtPriceX64(sqrtPriceX64 cosmath.Int) (int32, error) {
	if sqrtPriceX64.GT(MaxSqrtPriceX64) || sqrtPriceX64.LT(MinSqrtPriceX64) {
		return 0, ErrSqrtPriceOutOfRange
	}

	sqrt := sqrtPriceX64.BigInt()
	msb := sqrt.BitLen() - 1
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb-64)), 32)

	var r *big.Int
	if msb >= 64 {
		r = new(big.Int).Rsh(sqrt, uint(msb-63))
	} else {
		r = new(big.Int).Lsh(sqrt, uint(63-msb))
	}

	bit := new(big.Int).Lsh(big.NewInt(1), 63)
	log2pFractionX64 := big.NewInt(0)
	for precision := 0; bit.Sign() > 0 && precision < bitPrecision; precision++ {
		r.Mul(r, r)
		rMoreThanTwo := new(big.Int).Rsh(r, 127)
		r.Rsh(r, uint(63+rMoreThanTwo.Int64()))
		log2pFractionX64.Add(log2pFractionX64, new(big.Int).Mul(bit, rMoreThanTwo))
		bit.Rsh(bit, 1)
	}

	log2pFractionX32 := new(big.Int).Rsh(log2pFractionX64, 32)
	logbpX64 := new(big.Int).Mul(new(big.Int).Add(log2pIntegerX32, log2pFractionX32), logB2X32.BigInt())

	tickLow := new(big.Int).Rsh(new(big.Int).Sub(logbpX64, logBPErrMarginLowerX64.BigInt()), 64)
	tickHigh := new(big.Int).Rsh(new(big.Int).Add(logbpX64, logBPErrMarginUpperX64.BigInt()), 64)

	if tickLow.Cmp(tickHigh) == 0 {
		return int32(tickLow.Int64()), nil
	}

	derivedTickHighSqrtPriceX64, err := GetSqrtPriceX64FromTick(int32(tickHigh.Int64()))
	if err != nil {
		return int32(tickLow.Int64()), nil
	}
	if derivedTickHighSqrtPriceX64.LTE(sqrtPriceX64) {
		return int32(tickHigh.Int64()), nil
	}
	return int32(tickLow.Int64()), nil
}

func getTickCount(tickSpacing uint16) int32 {
	return int32(TickArraySize) * int32(tickSpacing)
}

// GetArrayStartIndex returns the start tick of the array containing tickIndex.
func GetArrayStartIndex(tickIndex int32, tickSpacing uint16) int32 {
	ticksInArray := getTickCount(tickSpacing)
	start := tickIndex / ticksInArray
	if tickIndex < 0 && tickIndex%ticksInArray != 0 {
		start--
	}
	return start * ticksInArray
}
