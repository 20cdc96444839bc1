package orca

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

var WhirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

const (
	TickArraySize = 88
	MinTickIndex  = -443636
	MaxTickIndex  = 443636

	NumRewards = 3

	WhirlpoolSize = 653
	TickSize      = 113
	TickArrayLen  = 9988
)

var (
	MinSqrtPriceX64 = bigIntFromString("4295048016")
	MaxSqrtPriceX64 = bigIntFromString("79226673515401279992447579055")

	bitPrecision           = 14
	logB2X32               = bigIntFromString("59543866431248")
	logBPErrMarginLowerX64 = bigIntFromString("184467440737095516")
	logBPErrMarginUpperX64 = bigIntFromString("15793534762490258745")
)

func bigIntFromString(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int: " + s)
	}
	return v
}
