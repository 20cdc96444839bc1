package rebalance

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
)

const (
	ParamsSize = 128
	StateSize  = 256
)

type RebalanceType uint8

const (
	RebalanceTypeManual                   RebalanceType = 0
	RebalanceTypePricePercentage          RebalanceType = 1
	RebalanceTypePricePercentageWithReset RebalanceType = 2
	RebalanceTypeDrift                    RebalanceType = 3
	RebalanceTypeTakeProfit               RebalanceType = 4
	RebalanceTypePeriodicRebalance        RebalanceType = 5
	RebalanceTypeExpander                 RebalanceType = 6
	RebalanceTypeAutodrift                RebalanceType = 7
)

var rebalanceTypeNames = [...]string{
	"manual",
	"pricePercentage",
	"pricePercentageWithReset",
	"drift",
	"takeProfit",
	"periodicRebalance",
	"expander",
	"autodrift",
}

func (t RebalanceType) String() string {
	if int(t) < len(rebalanceTypeNames) {
		return rebalanceTypeNames[t]
	}
	return fmt.Sprintf("RebalanceType(%d)", uint8(t))
}

func (t RebalanceType) valid() bool {
	return t <= RebalanceTypeAutodrift
}

// RebalanceTypeFromNumber validates the kind byte stored on a strategy.
func RebalanceTypeFromNumber(n uint64) (RebalanceType, error) {
	if n > uint64(RebalanceTypeAutodrift) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRebalanceType, n)
	}
	return RebalanceType(n), nil
}

// ParseRebalanceType accepts the names returned by String.
func ParseRebalanceType(s string) (RebalanceType, error) {
	for i, name := range rebalanceTypeNames {
		if name == s {
			return RebalanceType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRebalanceType, s)
}

type DriftDirection uint8

const (
	DriftDirectionIncreasing DriftDirection = 0
	DriftDirectionDecreasing DriftDirection = 1
)

func DriftDirectionFromNumber(n uint64) (DriftDirection, error) {
	if n > uint64(DriftDirectionDecreasing) {
		return 0, fmt.Errorf("%w: drift direction %d", ErrUnknownEnumValue, n)
	}
	return DriftDirection(n), nil
}

type StakingRateSource uint8

const (
	StakingRateSourceConstant  StakingRateSource = 0
	StakingRateSourceStakePool StakingRateSource = 1
	StakingRateSourceLst       StakingRateSource = 2
)

func StakingRateSourceFromNumber(n uint64) (StakingRateSource, error) {
	if n > uint64(StakingRateSourceLst) {
		return 0, fmt.Errorf("%w: staking rate source %d", ErrUnknownEnumValue, n)
	}
	return StakingRateSource(n), nil
}

type DestinationToken uint8

const (
	DestinationTokenA DestinationToken = 0
	DestinationTokenB DestinationToken = 1
)

func DestinationTokenFromNumber(n uint64) (DestinationToken, error) {
	if n > uint64(DestinationTokenB) {
		return 0, fmt.Errorf("%w: destination token %d", ErrUnknownEnumValue, n)
	}
	return DestinationToken(n), nil
}

type ReferencePriceType uint8

const (
	ReferencePriceTypePool ReferencePriceType = 0
	ReferencePriceTypeTwap ReferencePriceType = 1
)

func ReferencePriceTypeFromNumber(n uint64) (ReferencePriceType, error) {
	if n > uint64(ReferencePriceTypeTwap) {
		return 0, fmt.Errorf("%w: reference price type %d", ErrUnknownEnumValue, n)
	}
	return ReferencePriceType(n), nil
}

// RebalanceRaw is the rebalance section of a strategy account.
type RebalanceRaw struct {
	Params             [ParamsSize]byte
	State              [StateSize]byte
	ReferencePriceType uint8
}

func (r RebalanceRaw) MarshalWithEncoder(encoder *binary.Encoder) error {
	if err := encoder.WriteBytes(r.Params[:], false); err != nil {
		return err
	}
	if err := encoder.WriteBytes(r.State[:], false); err != nil {
		return err
	}
	return encoder.WriteUint8(r.ReferencePriceType)
}

func (r *RebalanceRaw) UnmarshalWithDecoder(decoder *binary.Decoder) error {
	params, err := decoder.ReadNBytes(ParamsSize)
	if err != nil {
		return fmt.Errorf("%w: params: %v", ErrBufferTooSmall, err)
	}
	state, err := decoder.ReadNBytes(StateSize)
	if err != nil {
		return fmt.Errorf("%w: state: %v", ErrBufferTooSmall, err)
	}
	refType, err := decoder.ReadUint8()
	if err != nil {
		return fmt.Errorf("%w: reference price type: %v", ErrBufferTooSmall, err)
	}
	copy(r.Params[:], params)
	copy(r.State[:], state)
	r.ReferencePriceType = refType
	return nil
}

// DecodeRebalanceRaw reads the 385 byte borsh layout.
func DecodeRebalanceRaw(data []byte) (*RebalanceRaw, error) {
	var out RebalanceRaw
	if err := out.UnmarshalWithDecoder(binary.NewBorshDecoder(data)); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reference returns the validated reference price type.
func (r RebalanceRaw) Reference() (ReferencePriceType, error) {
	return ReferencePriceTypeFromNumber(uint64(r.ReferencePriceType))
}

func (t ReferencePriceType) String() string {
	switch t {
	case ReferencePriceTypePool:
		return "pool"
	case ReferencePriceTypeTwap:
		return "twap"
	default:
		return fmt.Sprintf("ReferencePriceType(%d)", uint8(t))
	}
}
