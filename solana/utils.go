package solana

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrAccountNotFound = errors.New("account not found")

// Discriminator returns the 8 byte anchor prefix for namespace:name,
// e.g. Discriminator("account", "Whirlpool").
func Discriminator(namespace, name string) [8]byte {
	hash := sha256.Sum256([]byte(namespace + ":" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

func GenProgramAccountFilter(key string, filter Filter) *rpc.GetProgramAccountsOpts {
	disc := Discriminator("account", key)
	opt := &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentFinalized,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  disc[:],
				},
			},
		},
	}
	if filter.Owner.IsZero() {
		return opt
	}

	opt.Filters = append(opt.Filters, rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: filter.Offset,
			Bytes:  filter.Owner.Bytes(),
		},
	})
	return opt
}

// GetAccountData returns the raw data of account, mapping a missing account
// to ErrAccountNotFound.
func GetAccountData(ctx context.Context, reader AccountReader, account solana.PublicKey) ([]byte, error) {
	out, err := reader.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentFinalized})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	return out.GetBinary(), nil
}

// GetMultipleAccountInfo fetches accounts in batches of MaxMultipleAccounts.
// Missing accounts are nil in the result, which lines up with accounts.
func GetMultipleAccountInfo(ctx context.Context, reader AccountReader, accounts []solana.PublicKey) ([]*rpc.Account, error) {
	out := make([]*rpc.Account, 0, len(accounts))
	for start := 0; start < len(accounts); start += MaxMultipleAccounts {
		end := min(start+MaxMultipleAccounts, len(accounts))
		res, err := reader.GetMultipleAccountsWithOpts(ctx, accounts[start:end], &rpc.GetMultipleAccountsOpts{
			Commitment: rpc.CommitmentFinalized,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			return nil, err
		}
		if len(res.Value) != end-start {
			return nil, fmt.Errorf("getMultipleAccounts returned %d accounts, want %d", len(res.Value), end-start)
		}
		out = append(out, res.Value...)
	}
	return out, nil
}

func GetProgramAccounts(ctx context.Context, reader AccountReader, program solana.PublicKey, key string, filter Filter) (rpc.GetProgramAccountsResult, error) {
	return reader.GetProgramAccountsWithOpts(ctx, program, GenProgramAccountFilter(key, filter))
}

func GetCurrentEpoch(ctx context.Context, reader AccountReader) (uint64, error) {
	epochInfo, err := reader.GetEpochInfo(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return 0, err
	}
	return epochInfo.Epoch, nil
}

func GetMultipleToken(ctx context.Context, reader AccountReader, mints ...solana.PublicKey) ([]*Token, error) {
	accounts, err := GetMultipleAccountInfo(ctx, reader, mints)
	if err != nil {
		return nil, err
	}
	layout := &TokenLayout{}
	list := make([]*Token, len(accounts))
	for i, account := range accounts {
		if account == nil || account.Data == nil {
			continue
		}
		t, err := layout.Decode(account.Data.GetBinary())
		if err != nil {
			return nil, fmt.Errorf("decode mint %s: %w", mints[i], err)
		}
		t.Address = mints[i]
		t.Owner = account.Owner
		list[i] = t
	}
	return list, nil
}

// MintDecimals returns the decimals of each mint, failing if any is missing.
func MintDecimals(ctx context.Context, reader AccountReader, mints ...solana.PublicKey) ([]uint8, error) {
	tokens, err := GetMultipleToken(ctx, reader, mints...)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(tokens))
	for i, t := range tokens {
		if t == nil {
			return nil, fmt.Errorf("%w: mint %s", ErrAccountNotFound, mints[i])
		}
		out[i] = t.Decimals
	}
	return out, nil
}
