package solana

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// AccountReader is the read side of the RPC client used by this SDK.
// *rpc.Client satisfies it.
type AccountReader interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error)
	GetProgramAccountsWithOpts(ctx context.Context, program solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
	GetEpochInfo(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetEpochInfoResult, error)
}

var _ AccountReader = (*rpc.Client)(nil)

// Filter selects program accounts by a public key stored at Offset.
type Filter struct {
	Owner  solana.PublicKey
	Offset uint64
}

// MaxMultipleAccounts is the getMultipleAccounts batch limit.
const MaxMultipleAccounts = 100
