package rebalance

import (
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
)

const (
	FieldLowerRangeBps          = "lowerRangeBps"
	FieldUpperRangeBps          = "upperRangeBps"
	FieldResetLowerRangeBps     = "resetLowerRangeBps"
	FieldResetUpperRangeBps     = "resetUpperRangeBps"
	FieldTicksBelowMid          = "ticksBelowMid"
	FieldTicksAboveMid          = "ticksAboveMid"
	FieldDriftTicksPerEpoch     = "driftTicksPerEpoch"
	FieldSecondsPerEpoch        = "secondsPerEpoch"
	FieldDirection              = "direction"
	FieldLowerSqrtPriceX64      = "lowerSqrtPriceX64"
	FieldUpperSqrtPriceX64      = "upperSqrtPriceX64"
	FieldDestinationToken       = "destinationToken"
	FieldPeriod                 = "period"
	FieldExpansionBps           = "expansionBps"
	FieldMaxNumberOfExpansions  = "maxNumberOfExpansions"
	FieldSwapUnevenAllowed      = "swapUnevenAllowed"
	FieldInitDriftTicksPerEpoch = "initDriftTicksPerEpoch"
	FieldFrontrunMultiplierBps  = "frontrunMultiplierBps"
	FieldStakingRateASource     = "stakingRateASource"
	FieldStakingRateBSource     = "stakingRateBSource"
	FieldInitDriftDirection     = "initDriftDirection"
)

func checkDriftDirection(n uint64) error {
	_, err := DriftDirectionFromNumber(n)
	return err
}

func checkStakingRateSource(n uint64) error {
	_, err := StakingRateSourceFromNumber(n)
	return err
}

func checkDestinationToken(n uint64) error {
	_, err := DestinationTokenFromNumber(n)
	return err
}

func checkBool(n uint64) error {
	if n > 1 {
		return fmt.Errorf("%w: bool %d", ErrUnknownEnumValue, n)
	}
	return nil
}

// paramsLayout is the single dispatch point from a variant to its wire layout.
func paramsLayout(kind RebalanceType) (layout, error) {
	switch kind {
	case RebalanceTypeManual:
		return layout{}, nil
	case RebalanceTypePricePercentage:
		return layout{u16(FieldLowerRangeBps), u16(FieldUpperRangeBps)}, nil
	case RebalanceTypePricePercentageWithReset:
		return layout{
			u16(FieldLowerRangeBps),
			u16(FieldUpperRangeBps),
			u16(FieldResetLowerRangeBps),
			u16(FieldResetUpperRangeBps),
		}, nil
	case RebalanceTypeDrift:
		return layout{
			i32(FieldTicksBelowMid),
			i32(FieldTicksAboveMid),
			i32(FieldDriftTicksPerEpoch),
			u64(FieldSecondsPerEpoch),
			enumU8(FieldDirection, checkDriftDirection),
		}, nil
	case RebalanceTypeTakeProfit:
		return layout{
			uint128Field(FieldLowerSqrtPriceX64),
			uint128Field(FieldUpperSqrtPriceX64),
			enumU8(FieldDestinationToken, checkDestinationToken),
		}, nil
	case RebalanceTypePeriodicRebalance:
		return layout{u64(FieldPeriod), u16(FieldLowerRangeBps), u16(FieldUpperRangeBps)}, nil
	case RebalanceTypeExpander:
		return layout{
			u16(FieldLowerRangeBps),
			u16(FieldUpperRangeBps),
			u16(FieldResetLowerRangeBps),
			u16(FieldResetUpperRangeBps),
			u16(FieldExpansionBps),
			u16(FieldMaxNumberOfExpansions),
			enumU8(FieldSwapUnevenAllowed, checkBool),
		}, nil
	case RebalanceTypeAutodrift:
		return layout{
			u32(FieldInitDriftTicksPerEpoch),
			i32(FieldTicksBelowMid),
			i32(FieldTicksAboveMid),
			u16(FieldFrontrunMultiplierBps),
			enumU8(FieldStakingRateASource, checkStakingRateSource),
			enumU8(FieldStakingRateBSource, checkStakingRateSource),
			enumU8(FieldInitDriftDirection, checkDriftDirection),
		}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownRebalanceType, uint8(kind))
}

// EncodeParams packs values, in layout order, into a zero padded params buffer.
func EncodeParams(kind RebalanceType, values []decimal.Decimal) ([ParamsSize]byte, error) {
	var out [ParamsSize]byte
	l, err := paramsLayout(kind)
	if err != nil {
		return out, err
	}
	b, err := l.encode(values, ParamsSize)
	if err != nil {
		return out, fmt.Errorf("%s params: %w", kind, err)
	}
	copy(out[:], b)
	return out, nil
}

// DecodeParams reads the fields of kind from buf. Manual always decodes to no fields.
func DecodeParams(kind RebalanceType, buf []byte) (Fields, error) {
	l, err := paramsLayout(kind)
	if err != nil {
		return nil, err
	}
	if len(buf) < ParamsSize {
		return nil, fmt.Errorf("%w: params need %d bytes, got %d", ErrBufferTooSmall, ParamsSize, len(buf))
	}
	fields, err := l.decode(binary.NewBorshDecoder(buf[:ParamsSize]))
	if err != nil {
		return nil, fmt.Errorf("%s params: %w", kind, err)
	}
	return fields, nil
}

// WithParams returns a copy of raw carrying freshly encoded params. State and
// reference price type are kept as read from chain.
func WithParams(raw RebalanceRaw, kind RebalanceType, values []decimal.Decimal) (RebalanceRaw, error) {
	params, err := EncodeParams(kind, values)
	if err != nil {
		return RebalanceRaw{}, err
	}
	raw.Params = params
	return raw, nil
}

// Params is implemented by one struct per rebalance variant.
type Params interface {
	Kind() RebalanceType
	Values() []decimal.Decimal
}

type ManualParams struct{}

type PricePercentageParams struct {
	LowerRangeBps uint16
	UpperRangeBps uint16
}

type PricePercentageWithResetParams struct {
	LowerRangeBps      uint16
	UpperRangeBps      uint16
	ResetLowerRangeBps uint16
	ResetUpperRangeBps uint16
}

type DriftParams struct {
	TicksBelowMid      int32
	TicksAboveMid      int32
	DriftTicksPerEpoch int32
	SecondsPerEpoch    uint64
	Direction          DriftDirection
}

type TakeProfitParams struct {
	LowerSqrtPriceX64 *big.Int
	UpperSqrtPriceX64 *big.Int
	DestinationToken  DestinationToken
}

type PeriodicRebalanceParams struct {
	Period        uint64
	LowerRangeBps uint16
	UpperRangeBps uint16
}

type ExpanderParams struct {
	LowerRangeBps         uint16
	UpperRangeBps         uint16
	ResetLowerRangeBps    uint16
	ResetUpperRangeBps    uint16
	ExpansionBps          uint16
	MaxNumberOfExpansions uint16
	SwapUnevenAllowed     bool
}

type AutodriftParams struct {
	InitDriftTicksPerEpoch uint32
	TicksBelowMid          int32
	TicksAboveMid          int32
	FrontrunMultiplierBps  uint16
	StakingRateASource     StakingRateSource
	StakingRateBSource     StakingRateSource
	InitDriftDirection     DriftDirection
}

func (ManualParams) Kind() RebalanceType { return RebalanceTypeManual }
func (PricePercentageParams) Kind() RebalanceType { return RebalanceTypePricePercentage }
func (PricePercentageWithResetParams) Kind() RebalanceType { return RebalanceTypePricePercentageWithReset }
func (DriftParams) Kind() RebalanceType { return RebalanceTypeDrift }
func (TakeProfitParams) Kind() RebalanceType { return RebalanceTypeTakeProfit }
func (PeriodicRebalanceParams) Kind() RebalanceType { return RebalanceTypePeriodicRebalance }
func (ExpanderParams) Kind() RebalanceType { return RebalanceTypeExpander }
func (AutodriftParams) Kind() RebalanceType { return RebalanceTypeAutodrift }

func num(v uint64) decimal.Decimal { return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0) }

func decInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decBool(b bool) decimal.Decimal {
	if b {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

func decBig(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0)
}

func (ManualParams) Values() []decimal.Decimal { return []decimal.Decimal{} }

func (p PricePercentageParams) Values() []decimal.Decimal {
	return []decimal.Decimal{num(uint64(p.LowerRangeBps)), num(uint64(p.UpperRangeBps))}
}

func (p PricePercentageWithResetParams) Values() []decimal.Decimal {
	return []decimal.Decimal{
		num(uint64(p.LowerRangeBps)),
		num(uint64(p.UpperRangeBps)),
		num(uint64(p.ResetLowerRangeBps)),
		num(uint64(p.ResetUpperRangeBps)),
	}
}

func (p DriftParams) Values() []decimal.Decimal {
	return []decimal.Decimal{
		decInt(int64(p.TicksBelowMid)),
		decInt(int64(p.TicksAboveMid)),
		decInt(int64(p.DriftTicksPerEpoch)),
		num(p.SecondsPerEpoch),
		num(uint64(p.Direction)),
	}
}

func (p TakeProfitParams) Values() []decimal.Decimal {
	return []decimal.Decimal{
		decBig(p.LowerSqrtPriceX64),
		decBig(p.UpperSqrtPriceX64),
		num(uint64(p.DestinationToken)),
	}
}

func (p PeriodicRebalanceParams) Values() []decimal.Decimal {
	return []decimal.Decimal{num(p.Period), num(uint64(p.LowerRangeBps)), num(uint64(p.UpperRangeBps))}
}

func (p ExpanderParams) Values() []decimal.Decimal {
	return []decimal.Decimal{
		num(uint64(p.LowerRangeBps)),
		num(uint64(p.UpperRangeBps)),
		num(uint64(p.ResetLowerRangeBps)),
		num(uint64(p.ResetUpperRangeBps)),
		num(uint64(p.ExpansionBps)),
		num(uint64(p.MaxNumberOfExpansions)),
		decBool(p.SwapUnevenAllowed),
	}
}

func (p AutodriftParams) Values() []decimal.Decimal {
	return []decimal.Decimal{
		num(uint64(p.InitDriftTicksPerEpoch)),
		decInt(int64(p.TicksBelowMid)),
		decInt(int64(p.TicksAboveMid)),
		num(uint64(p.FrontrunMultiplierBps)),
		num(uint64(p.StakingRateASource)),
		num(uint64(p.StakingRateBSource)),
		num(uint64(p.InitDriftDirection)),
	}
}

// Encode packs typed params into a params buffer.
func Encode(p Params) ([ParamsSize]byte, error) {
	return EncodeParams(p.Kind(), p.Values())
}

// ParseParams decodes buf into the typed params struct of kind.
func ParseParams(kind RebalanceType, buf []byte) (Params, error) {
	f, err := DecodeParams(kind, buf)
	if err != nil {
		return nil, err
	}

	// values already passed width and enum checks in DecodeParams
	v := f.Values()
	u := func(i int) uint64 { return v[i].BigInt().Uint64() }
	s := func(i int) int32 { return int32(v[i].IntPart()) }

	switch kind {
	case RebalanceTypeManual:
		return ManualParams{}, nil
	case RebalanceTypePricePercentage:
		return PricePercentageParams{LowerRangeBps: uint16(u(0)), UpperRangeBps: uint16(u(1))}, nil
	case RebalanceTypePricePercentageWithReset:
		return PricePercentageWithResetParams{
			LowerRangeBps:      uint16(u(0)),
			UpperRangeBps:      uint16(u(1)),
			ResetLowerRangeBps: uint16(u(2)),
			ResetUpperRangeBps: uint16(u(3)),
		}, nil
	case RebalanceTypeDrift:
		return DriftParams{
			TicksBelowMid:      s(0),
			TicksAboveMid:      s(1),
			DriftTicksPerEpoch: s(2),
			SecondsPerEpoch:    u(3),
			Direction:          DriftDirection(u(4)),
		}, nil
	case RebalanceTypeTakeProfit:
		return TakeProfitParams{
			LowerSqrtPriceX64: v[0].BigInt(),
			UpperSqrtPriceX64: v[1].BigInt(),
			DestinationToken:  DestinationToken(u(2)),
		}, nil
	case RebalanceTypePeriodicRebalance:
		return PeriodicRebalanceParams{Period: u(0), LowerRangeBps: uint16(u(1)), UpperRangeBps: uint16(u(2))}, nil
	case RebalanceTypeExpander:
		return ExpanderParams{
			LowerRangeBps:         uint16(u(0)),
			UpperRangeBps:         uint16(u(1)),
			ResetLowerRangeBps:    uint16(u(2)),
			ResetUpperRangeBps:    uint16(u(3)),
			ExpansionBps:          uint16(u(4)),
			MaxNumberOfExpansions: uint16(u(5)),
			SwapUnevenAllowed:     u(6) == 1,
		}, nil
	case RebalanceTypeAutodrift:
		return AutodriftParams{
			InitDriftTicksPerEpoch: uint32(u(0)),
			TicksBelowMid:          s(1),
			TicksAboveMid:          s(2),
			FrontrunMultiplierBps:  uint16(u(3)),
			StakingRateASource:     StakingRateSource(u(4)),
			StakingRateBSource:     StakingRateSource(u(5)),
			InitDriftDirection:     DriftDirection(u(6)),
		}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownRebalanceType, uint8(kind))
}
