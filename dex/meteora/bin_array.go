package meteora

import (
	bin "encoding/binary"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/kliquidity-go/u128"
)

type Bin struct {
	AmountX         uint64
	AmountY         uint64
	Price           *big.Int
	LiquiditySupply *big.Int
}

type BinArray struct {
	Index   int64
	Version uint8
	LbPair  solana.PublicKey
	Bins    [MaxBinPerArray]Bin
}

func DecodeBinArray(data []byte) (*BinArray, error) {
	if len(data) < BinArrayLen {
		return nil, fmt.Errorf("bin array: insufficient data: expected %d bytes, got %d", BinArrayLen, len(data))
	}

	le := bin.LittleEndian
	a := &BinArray{
		Index:   int64(le.Uint64(data[8:16])),
		Version: data[16],
		LbPair:  solana.PublicKeyFromBytes(data[24:56]),
	}
	offset := 56
	for i := range a.Bins {
		raw := data[offset : offset+BinSize]
		a.Bins[i] = Bin{
			AmountX:         le.Uint64(raw[0:8]),
			AmountY:         le.Uint64(raw[8:16]),
			Price:           u128.FromLE(raw[16:32]),
			LiquiditySupply: u128.FromLE(raw[32:48]),
		}
		offset += BinSize
	}
	return a, nil
}

// BinId returns the bin id stored at slot i.
func (a *BinArray) BinId(i int) int32 {
	return int32(a.Index*MaxBinPerArray) + int32(i)
}

// DeriveBinArray derives the PDA for a bin array; the index is little endian.
func DeriveBinArray(lbPair solana.PublicKey, index int64) (solana.PublicKey, error) {
	idx := make([]byte, 8)
	bin.LittleEndian.PutUint64(idx, uint64(index))
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bin_array"), lbPair.Bytes(), idx},
		LbClmmProgramID,
	)
	return addr, err
}
