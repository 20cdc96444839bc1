package orca

import (
	bin "encoding/binary"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

type WhirlpoolRewardInfo struct {
	Mint                  solana.PublicKey
	Vault                 solana.PublicKey
	Authority             solana.PublicKey
	EmissionsPerSecondX64 uint128.Uint128
	GrowthGlobalX64       uint128.Uint128
}

// Initialized reports whether a reward slot has been set up.
func (r WhirlpoolRewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

type Whirlpool struct {
	WhirlpoolsConfig solana.PublicKey
	WhirlpoolBump    uint8
	TickSpacing      uint16
	FeeTierSeed      [2]uint8
	FeeRate          uint16
	ProtocolFeeRate  uint16

	Liquidity        uint128.Uint128
	SqrtPrice        uint128.Uint128
	TickCurrentIndex int32

	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64

	TokenMintA       solana.PublicKey
	TokenVaultA      solana.PublicKey
	FeeGrowthGlobalA uint128.Uint128
	TokenMintB       solana.PublicKey
	TokenVaultB      solana.PublicKey
	FeeGrowthGlobalB uint128.Uint128

	RewardLastUpdatedTimestamp uint64
	RewardInfos                [NumRewards]WhirlpoolRewardInfo
}

func (w *Whirlpool) LiquidityBig() *big.Int { return w.Liquidity.Big() }
func (w *Whirlpool) SqrtPriceBig() *big.Int { return w.SqrtPrice.Big() }

// DecodeWhirlpool decodes a whirlpool account, discriminator included.
func DecodeWhirlpool(data []byte) (*Whirlpool, error) {
	if len(data) < WhirlpoolSize {
		return nil, fmt.Errorf("whirlpool: insufficient data: expected %d bytes, got %d", WhirlpoolSize, len(data))
	}

	d := binary.NewBinDecoder(data)
	w := &Whirlpool{}
	if err := d.SkipBytes(8); err != nil {
		return nil, err
	}

	var err error
	read := func(fn func() error) {
		if err == nil {
			err = fn()
		}
	}
	readKey := func(dst *solana.PublicKey) func() error {
		return func() error {
			b, e := d.ReadNBytes(32)
			if e == nil {
				*dst = solana.PublicKeyFromBytes(b)
			}
			return e
		}
	}
	readU128 := func(dst *uint128.Uint128) func() error {
		return func() error {
			b, e := d.ReadNBytes(16)
			if e == nil {
				*dst = uint128.FromBytes(b)
			}
			return e
		}
	}

	read(readKey(&w.WhirlpoolsConfig))
	read(func() (e error) { w.WhirlpoolBump, e = d.ReadUint8(); return })
	read(func() (e error) { w.TickSpacing, e = d.ReadUint16(bin.LittleEndian); return })
	read(func() error {
		b, e := d.ReadNBytes(2)
		copy(w.FeeTierSeed[:], b)
		return e
	})
	read(func() (e error) { w.FeeRate, e = d.ReadUint16(bin.LittleEndian); return })
	read(func() (e error) { w.ProtocolFeeRate, e = d.ReadUint16(bin.LittleEndian); return })
	read(readU128(&w.Liquidity))
	read(readU128(&w.SqrtPrice))
	read(func() (e error) { w.TickCurrentIndex, e = d.ReadInt32(bin.LittleEndian); return })
	read(func() (e error) { w.ProtocolFeeOwedA, e = d.ReadUint64(bin.LittleEndian); return })
	read(func() (e error) { w.ProtocolFeeOwedB, e = d.ReadUint64(bin.LittleEndian); return })
	read(readKey(&w.TokenMintA))
	read(readKey(&w.TokenVaultA))
	read(readU128(&w.FeeGrowthGlobalA))
	read(readKey(&w.TokenMintB))
	read(readKey(&w.TokenVaultB))
	read(readU128(&w.FeeGrowthGlobalB))
	read(func() (e error) { w.RewardLastUpdatedTimestamp, e = d.ReadUint64(bin.LittleEndian); return })
	for i := range w.RewardInfos {
		r := &w.RewardInfos[i]
		read(readKey(&r.Mint))
		read(readKey(&r.Vault))
		read(readKey(&r.Authority))
		read(readU128(&r.EmissionsPerSecondX64))
		read(readU128(&r.GrowthGlobalX64))
	}
	if err != nil {
		return nil, fmt.Errorf("whirlpool: %w", err)
	}
	return w, nil
}
