package raydium

import (
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
)

var ClmmProgramID = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")

const (
	TickArraySize = 60
	MinTick       = -443636
	MaxTick       = 443636

	NumRewards = 3

	PoolStateMinLen = 904
	TickStateSize   = 168
	TickArrayLen    = 10240
)

var (
	MaxSqrtPriceX64 = mustInt("79226673515401279992447579055")
	MinSqrtPriceX64 = mustInt("4295048016")

	bitPrecision           = 14
	logB2X32               = mustInt("59543866431248")
	logBPErrMarginLowerX64 = mustInt("184467440737095516")
	logBPErrMarginUpperX64 = mustInt("15793534762490258745")

	q64        = mustInt("18446744073709551616")
	maxUint128 = cosmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))
)

func mustInt(s string) cosmath.Int {
	v, ok := cosmath.NewIntFromString(s)
	if !ok {
		panic("invalid integer constant: " + s)
	}
	return v
}
