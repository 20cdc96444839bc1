package orca

import (
	bin "encoding/binary"
	"fmt"
	"math/big"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/krazyTry/kliquidity-go/u128"
)

type Tick struct {
	Initialized    bool
	LiquidityNet   *big.Int
	LiquidityGross uint128.Uint128
}

type TickArray struct {
	StartTickIndex int32
	Ticks          [TickArraySize]Tick
	Whirlpool      solana.PublicKey
}

// DecodeTickArray decodes a fixed tick array account.
func DecodeTickArray(data []byte) (*TickArray, error) {
	if len(data) < TickArrayLen {
		return nil, fmt.Errorf("tick array: insufficient data: expected %d bytes, got %d", TickArrayLen, len(data))
	}

	out := &TickArray{
		StartTickIndex: int32(bin.LittleEndian.Uint32(data[8:12])),
	}
	offset := 12
	for i := range out.Ticks {
		t := data[offset : offset+TickSize]
		out.Ticks[i] = Tick{
			Initialized:    t[0] != 0,
			LiquidityNet:   u128.SignedFromLE(t[1:17]),
			LiquidityGross: uint128.FromBytes(t[17:33]),
		}
		offset += TickSize
	}
	out.Whirlpool = solana.PublicKeyFromBytes(data[offset : offset+32])
	return out, nil
}

// TickIndex returns the tick index held at slot i.
func (a *TickArray) TickIndex(i int, tickSpacing uint16) int32 {
	return a.StartTickIndex + int32(i)*int32(tickSpacing)
}

// DeriveTickArrayPDA derives the tick array address for startTickIndex.
func DeriveTickArrayPDA(whirlpool solana.PublicKey, startTickIndex int32) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("tick_array"),
			whirlpool.Bytes(),
			[]byte(strconv.FormatInt(int64(startTickIndex), 10)),
		},
		WhirlpoolProgramID,
	)
	return pda, err
}
