package orca

import (
	"errors"
	"math/big"
)

var (
	ErrTickOutOfRange      = errors.New("tick index out of range")
	ErrSqrtPriceOutOfRange = errors.New("sqrt price out of range")
)

// negativeRatios[i] is sqrt(1.0001)^-(2^i) in Q64.64.
var negativeRatios = [...]*big.Int{
	bigIntFromString("18445821805675392311"),
	bigIntFromString("18444899583751176498"),
	bigIntFromString("18443055278223354162"),
	bigIntFromString("18439367220385604838"),
	bigIntFromString("18431993317065449817"),
	bigIntFromString("18417254355718160513"),
	bigIntFromString("18387811781193591352"),
	bigIntFromString("18329067761203520168"),
	bigIntFromString("18212142134806087854"),
	bigIntFromString("17980523815641551639"),
	bigIntFromString("17526086738831147013"),
	bigIntFromString("16651378430235024244"),
	bigIntFromString("15030750278693429944"),
	bigIntFromString("12247334978882834399"),
	bigIntFromString("8131365268884726200"),
	bigIntFromString("3584323654723342297"),
	bigIntFromString("696457651847595233"),
	bigIntFromString("26294789957452057"),
	bigIntFromString("37481735321082"),
}

// positiveRatios[i] is sqrt(1.0001)^(2^i) in Q32.96.
var positiveRatios = [...]*big.Int{
	bigIntFromString("79232123823359799118286999567"),
	bigIntFromString("79236085330515764027303304731"),
	bigIntFromString("79244008939048815603706035061"),
	bigIntFromString("79259858533276714757314932305"),
	bigIntFromString("79291567232598584799939703904"),
	bigIntFromString("79355022692464371645785046466"),
	bigIntFromString("79482085999252804386437311141"),
	bigIntFromString("79736823300114093921829183326"),
	bigIntFromString("80248749790819932309965073892"),
	bigIntFromString("81282483887344747381513967011"),
	bigIntFromString("83390072131320151908154831281"),
	bigIntFromString("87770609709833776024991924138"),
	bigIntFromString("97234110755111693312479820773"),
	bigIntFromString("119332217159966728226237229890"),
	bigIntFromString("179736315981702064433883588727"),
	bigIntFromString("407748233172238350107850275304"),
	bigIntFromString("2098478828474011932436660412517"),
	bigIntFromString("55581415166113811149459800483533"),
	bigIntFromString("38992368544603139932233054999993551"),
}

func mulShiftRatios(tick int64, ratios []*big.Int, shift uint) *big.Int {
	ratio := new(big.Int).Lsh(big.NewInt(1), shift)
	for i, r := range ratios {
		if tick&(1<<uint(i)) == 0 {
			continue
		}
		if i == 0 {
			ratio.Set(r)
			continue
		}
		ratio.Mul(ratio, r)
		ratio.Rsh(ratio, shift)
	}
	return ratio
}

// TickIndexToSqrtPriceX64 returns sqrt(1.0001^tick) as a Q64.64 integer.
// Positive ticks are computed in Q32.96 and shifted down, so both tick
// bounds map exactly onto MinSqrtPriceX64 and MaxSqrtPriceX64.
func TickIndexToSqrtPriceX64(tick int32) (*big.Int, error) {
	if tick < MinTickIndex || tick > MaxTickIndex {
		return nil, ErrTickOutOfRange
	}
	if tick >= 0 {
		ratio := mulShiftRatios(int64(tick), positiveRatios[:], 96)
		return ratio.Rsh(ratio, 32), nil
	}
	return mulShiftRatios(-int64(tick), negativeRatios[:], 64), nil
}

// SqrtPriceX64ToTickIndex returns the greatest tick whose sqrt price is <= sqrtPriceX64.
func SqrtPriceX64ToTickIndex(sqrtPriceX64 *big.Int) (int32, error) {
	if sqrtPriceX64.Cmp(MinSqrtPriceX64) < 0 || sqrtPriceX64.Cmp(MaxSqrtPriceX64) > 0 {
		return 0, ErrSqrtPriceOutOfRange
	}

	msb := sqrtPriceX64.BitLen() - 1
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb-64)), 32)

	var r *big.Int
	if msb >= 64 {
		r = new(big.Int).Rsh(sqrtPriceX64, uint(msb-63))
	} else {
		r = new(big.Int).Lsh(sqrtPriceX64, uint(63-msb))
	}

	bit := new(big.Int).Lsh(big.NewInt(1), 63)
	log2pFractionX64 := new(big.Int)
	for precision := 0; bit.Sign() > 0 && precision < bitPrecision; precision++ {
		r.Mul(r, r)
		rMoreThanTwo := new(big.Int).Rsh(r, 127).Uint64()
		r.Rsh(r, uint(63+rMoreThanTwo))
		if rMoreThanTwo == 1 {
			log2pFractionX64.Add(log2pFractionX64, bit)
		}
		bit.Rsh(bit, 1)
	}

	log2pX32 := new(big.Int).Add(log2pIntegerX32, new(big.Int).Rsh(log2pFractionX64, 32))
	logbpX64 := new(big.Int).Mul(log2pX32, logB2X32)

	// big.Int Rsh is an arithmetic shift, negative logs floor correctly
	tickLow := new(big.Int).Rsh(new(big.Int).Sub(logbpX64, logBPErrMarginLowerX64), 64).Int64()
	tickHigh := new(big.Int).Rsh(new(big.Int).Add(logbpX64, logBPErrMarginUpperX64), 64).Int64()

	if tickLow == tickHigh {
		return int32(tickLow), nil
	}

	derived, err := TickIndexToSqrtPriceX64(int32(tickHigh))
	if err != nil {
		return int32(tickLow), nil
	}
	if derived.Cmp(sqrtPriceX64) <= 0 {
		return int32(tickHigh), nil
	}
	return int32(tickLow), nil
}

// GetStartTickIndex returns the first tick of the array that contains tick.
func GetStartTickIndex(tick int32, tickSpacing uint16, offset int32) int32 {
	ticksInArray := int32(TickArraySize) * int32(tickSpacing)
	realIndex := floorDiv(tick, ticksInArray)
	return (realIndex + offset) * ticksInArray
}

// InitializableTickIndex rounds tick down to a multiple of tickSpacing.
func InitializableTickIndex(tick int32, tickSpacing uint16) int32 {
	return floorDiv(tick, int32(tickSpacing)) * int32(tickSpacing)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
