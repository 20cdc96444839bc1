package raydium

import (
	bin "encoding/binary"
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

type RewardInfo struct {
	RewardState           uint8
	OpenTime              uint64
	EndTime               uint64
	LastUpdateTime        uint64
	EmissionsPerSecondX64 uint128.Uint128
	RewardTotalEmissioned uint64
	RewardClaimed         uint64
	TokenMint             solana.PublicKey
	TokenVault            solana.PublicKey
	Authority             solana.PublicKey
	RewardGrowthGlobalX64 uint128.Uint128
}

// Initialized reports whether the reward slot has been opened.
func (r RewardInfo) Initialized() bool {
	return r.RewardState != 0 && !r.TokenMint.IsZero()
}

type PoolState struct {
	AmmConfig      solana.PublicKey
	Owner          solana.PublicKey
	TokenMint0     solana.PublicKey
	TokenMint1     solana.PublicKey
	TokenVault0    solana.PublicKey
	TokenVault1    solana.PublicKey
	ObservationKey solana.PublicKey
	MintDecimals0  uint8
	MintDecimals1  uint8
	TickSpacing    uint16
	Liquidity      uint128.Uint128
	SqrtPriceX64   uint128.Uint128
	TickCurrent    int32

	FeeGrowthGlobal0X64 uint128.Uint128
	FeeGrowthGlobal1X64 uint128.Uint128
	ProtocolFeesToken0  uint64
	ProtocolFeesToken1  uint64
	Status              uint8

	RewardInfos [NumRewards]RewardInfo
}

func (p *PoolState) SqrtPrice() cosmath.Int {
	return cosmath.NewIntFromBigInt(p.SqrtPriceX64.Big())
}

// DecodePoolState decodes the leading fields of a CLMM pool account.
func DecodePoolState(data []byte) (*PoolState, error) {
	if len(data) < PoolStateMinLen {
		return nil, fmt.Errorf("pool state: insufficient data: expected %d bytes, got %d", PoolStateMinLen, len(data))
	}

	le := bin.LittleEndian
	key := func(off int) solana.PublicKey { return solana.PublicKeyFromBytes(data[off : off+32]) }
	u128 := func(off int) uint128.Uint128 { return uint128.FromBytes(data[off : off+16]) }

	p := &PoolState{
		AmmConfig:      key(9),
		Owner:          key(41),
		TokenMint0:     key(73),
		TokenMint1:     key(105),
		TokenVault0:    key(137),
		TokenVault1:    key(169),
		ObservationKey: key(201),
		MintDecimals0:  data[233],
		MintDecimals1:  data[234],
		TickSpacing:    le.Uint16(data[235:237]),
		Liquidity:      u128(237),
		SqrtPriceX64:   u128(253),
		TickCurrent:    int32(le.Uint32(data[269:273])),

		FeeGrowthGlobal0X64: u128(277),
		FeeGrowthGlobal1X64: u128(293),
		ProtocolFeesToken0:  le.Uint64(data[309:317]),
		ProtocolFeesToken1:  le.Uint64(data[317:325]),
		Status:              data[389],
	}

	// reward infos start after the swap counters and 7 bytes of padding
	offset := 397
	for i := range p.RewardInfos {
		p.RewardInfos[i] = RewardInfo{
			RewardState:           data[offset],
			OpenTime:              le.Uint64(data[offset+1 : offset+9]),
			EndTime:               le.Uint64(data[offset+9 : offset+17]),
			LastUpdateTime:        le.Uint64(data[offset+17 : offset+25]),
			EmissionsPerSecondX64: u128(offset + 25),
			RewardTotalEmissioned: le.Uint64(data[offset+41 : offset+49]),
			RewardClaimed:         le.Uint64(data[offset+49 : offset+57]),
			TokenMint:             key(offset + 57),
			TokenVault:            key(offset + 89),
			Authority:             key(offset + 121),
			RewardGrowthGlobalX64: u128(offset + 153),
		}
		offset += 169
	}
	return p, nil
}
