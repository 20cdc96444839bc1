package vault

import (
	"bytes"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/kliquidity-go/rebalance"
	solanago "github.com/krazyTry/kliquidity-go/solana"
)

// ProgramID is the strategy manager program address.
var ProgramID = solana.MustPublicKeyFromBase58("6LtLpnUFNByNXLyCoK9wA2MykKAmQNZKBdY8s47dehDc")

var updateStrategyConfigDisc = solanago.Discriminator("global", "update_strategy_config")

// StrategyConfigMode selects which strategy setting the value payload targets.
type StrategyConfigMode uint16

// ConfigValueSize is the fixed argument payload of update_strategy_config.
const ConfigValueSize = rebalance.ParamsSize

// UpdateStrategyConfigInstruction builds update_strategy_config. newAccount is
// only read by modes that point the strategy at another account; the program
// id stands in for it otherwise.
func UpdateStrategyConfigInstruction(
	admin solana.PublicKey,
	globalConfig solana.PublicKey,
	strategy solana.PublicKey,
	newAccount solana.PublicKey,
	mode StrategyConfigMode,
	value [ConfigValueSize]byte,
) (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	enc := binary.NewBorshEncoder(buf)
	if err := enc.WriteBytes(updateStrategyConfigDisc[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(uint16(mode), binary.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(value[:], false); err != nil {
		return nil, err
	}

	if newAccount.IsZero() {
		newAccount = ProgramID
	}
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(admin, true, true),
		solana.NewAccountMeta(newAccount, false, false),
		solana.NewAccountMeta(globalConfig, false, false),
		solana.NewAccountMeta(strategy, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(ProgramID, accounts, buf.Bytes()), nil
}

// UpdateRebalanceParamsInstruction encodes p into the 128 byte params buffer
// and wraps it in update_strategy_config.
func UpdateRebalanceParamsInstruction(
	admin solana.PublicKey,
	globalConfig solana.PublicKey,
	strategy solana.PublicKey,
	mode StrategyConfigMode,
	p rebalance.Params,
) (solana.Instruction, error) {
	value, err := rebalance.Encode(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s params: %w", p.Kind(), err)
	}
	return UpdateStrategyConfigInstruction(admin, globalConfig, strategy, solana.PublicKey{}, mode, value)
}
