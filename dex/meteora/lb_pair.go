package meteora

import (
	bin "encoding/binary"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/kliquidity-go/u128"
)

type RewardInfo struct {
	Mint              solana.PublicKey
	Vault             solana.PublicKey
	Funder            solana.PublicKey
	RewardDuration    uint64
	RewardDurationEnd uint64
	RewardRate        *big.Int
	LastUpdateTime    uint64
}

func (r RewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

// LbPair holds the fields of a DLMM pair needed for pricing.
type LbPair struct {
	ActiveId   int32
	BinStep    uint16
	Status     uint8
	TokenXMint solana.PublicKey
	TokenYMint solana.PublicKey
	ReserveX   solana.PublicKey
	ReserveY   solana.PublicKey

	RewardInfos [NumRewards]RewardInfo
}

// DecodeLbPair skips the static and variable fee parameters and reads the pair header.
func DecodeLbPair(data []byte) (*LbPair, error) {
	if len(data) < LbPairMinLen {
		return nil, fmt.Errorf("lb pair: insufficient data: expected %d bytes, got %d", LbPairMinLen, len(data))
	}

	le := bin.LittleEndian
	key := func(off int) solana.PublicKey { return solana.PublicKeyFromBytes(data[off : off+32]) }

	p := &LbPair{
		ActiveId:   int32(le.Uint32(data[76:80])),
		BinStep:    le.Uint16(data[80:82]),
		Status:     data[82],
		TokenXMint: key(88),
		TokenYMint: key(120),
		ReserveX:   key(152),
		ReserveY:   key(184),
	}

	offset := 264
	for i := range p.RewardInfos {
		p.RewardInfos[i] = RewardInfo{
			Mint:              key(offset),
			Vault:             key(offset + 32),
			Funder:            key(offset + 64),
			RewardDuration:    le.Uint64(data[offset+96 : offset+104]),
			RewardDurationEnd: le.Uint64(data[offset+104 : offset+112]),
			RewardRate:        u128.FromLE(data[offset+112 : offset+128]),
			LastUpdateTime:    le.Uint64(data[offset+128 : offset+136]),
		}
		offset += 144
	}
	return p, nil
}
