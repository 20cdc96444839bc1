package meteora

import "github.com/gagliardetto/solana-go"

var LbClmmProgramID = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")

const (
	BasisPointMax  = 10_000
	MaxBinPerArray = 70
	MaxBinId       = 443636
	MinBinId       = -443636

	NumRewards = 2

	LbPairMinLen = 552
	BinSize      = 144
	BinArrayLen  = 56 + MaxBinPerArray*BinSize
)
