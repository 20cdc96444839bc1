package raydium

import (
	bin "encoding/binary"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/kliquidity-go/u128"
)

type TickState struct {
	Tick           int32
	LiquidityNet   *big.Int
	LiquidityGross *big.Int
}

type TickArray struct {
	PoolId               solana.PublicKey
	StartTickIndex       int32
	Ticks                [TickArraySize]TickState
	InitializedTickCount uint8
}

// DecodeTickArray decodes a CLMM tick array account.
func DecodeTickArray(data []byte) (*TickArray, error) {
	if len(data) < TickArrayLen {
		return nil, fmt.Errorf("tick array: insufficient data: expected %d bytes, got %d", TickArrayLen, len(data))
	}

	t := &TickArray{
		PoolId:         solana.PublicKeyFromBytes(data[8:40]),
		StartTickIndex: int32(bin.LittleEndian.Uint32(data[40:44])),
	}

	pos := 44
	for i := range t.Ticks {
		raw := data[pos : pos+TickStateSize]
		t.Ticks[i] = TickState{
			Tick:           int32(bin.LittleEndian.Uint32(raw[0:4])),
			LiquidityNet:   u128.SignedFromLE(raw[4:20]),
			LiquidityGross: u128.FromLE(raw[20:36]),
		}
		pos += TickStateSize
	}
	t.InitializedTickCount = data[pos]
	return t, nil
}

// GetPdaTickArrayAddress derives the tick array address; the start index is big endian.
func GetPdaTickArrayAddress(poolId solana.PublicKey, startIndex int32) (solana.PublicKey, error) {
	b := make([]byte, 4)
	bin.BigEndian.PutUint32(b, uint32(startIndex))
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("tick_array"), poolId.Bytes(), b},
		ClmmProgramID,
	)
	return pda, err
}
