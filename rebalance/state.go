package rebalance

import (
	"bytes"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
)

type AutodriftWindow struct {
	StakingRateA    PriceOption
	StakingRateB    PriceOption
	Epoch           uint64
	TheoreticalTick int32
	StrategyMidTick int32
}

// AutodriftState is written by the vault program between rebalances.
type AutodriftState struct {
	Initialized    bool
	LastWindow     AutodriftWindow
	CurrentWindow  AutodriftWindow
	DriftDirection DriftDirection
}

const (
	FieldInitialized    = "initialized"
	FieldDriftDirection = "driftDirection"

	windowLast    = "lastWindow"
	windowCurrent = "currentWindow"
)

// DecodeAutodriftState walks the state buffer with a cursor. Each price
// option is one or seventeen bytes so later offsets depend on earlier tags.
func DecodeAutodriftState(buf []byte) (*AutodriftState, error) {
	if len(buf) < StateSize {
		return nil, fmt.Errorf("%w: state needs %d bytes, got %d", ErrBufferTooSmall, StateSize, len(buf))
	}
	decoder := binary.NewBorshDecoder(buf[:StateSize])

	initialized, err := decoder.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("decode initialized: %w", err)
	}
	if initialized > 1 {
		return nil, fmt.Errorf("%w: initialized %d", ErrUnknownEnumValue, initialized)
	}

	var out AutodriftState
	out.Initialized = initialized == 1
	if err := readWindow(decoder, &out.LastWindow); err != nil {
		return nil, fmt.Errorf("decode %s: %w", windowLast, err)
	}
	if err := readWindow(decoder, &out.CurrentWindow); err != nil {
		return nil, fmt.Errorf("decode %s: %w", windowCurrent, err)
	}

	direction, err := decoder.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", FieldDriftDirection, err)
	}
	if out.DriftDirection, err = DriftDirectionFromNumber(uint64(direction)); err != nil {
		return nil, err
	}
	return &out, nil
}

func readWindow(decoder *binary.Decoder, w *AutodriftWindow) (err error) {
	if w.StakingRateA, err = readPriceOption(decoder); err != nil {
		return err
	}
	if w.StakingRateB, err = readPriceOption(decoder); err != nil {
		return err
	}
	if w.Epoch, err = decoder.ReadUint64(binary.LE); err != nil {
		return err
	}
	if w.TheoreticalTick, err = decoder.ReadInt32(binary.LE); err != nil {
		return err
	}
	w.StrategyMidTick, err = decoder.ReadInt32(binary.LE)
	return err
}

// Fields flattens the state with window fields prefixed by their window name.
func (s *AutodriftState) Fields() Fields {
	initialized := decimal.Zero
	if s.Initialized {
		initialized = decimal.NewFromInt(1)
	}
	out := Fields{{Name: FieldInitialized, Value: initialized}}
	out = append(out, s.LastWindow.fields(windowLast)...)
	out = append(out, s.CurrentWindow.fields(windowCurrent)...)
	return append(out, Field{Name: FieldDriftDirection, Value: decimal.NewFromInt(int64(s.DriftDirection))})
}

func (w AutodriftWindow) fields(prefix string) Fields {
	return Fields{
		{Name: prefix + ".stakingRateA", Value: w.StakingRateA.Value},
		{Name: prefix + ".stakingRateB", Value: w.StakingRateB.Value},
		{Name: prefix + ".epoch", Value: num(w.Epoch)},
		{Name: prefix + ".theoreticalTick", Value: decimal.NewFromInt(int64(w.TheoreticalTick))},
		{Name: prefix + ".strategyMidTick", Value: decimal.NewFromInt(int64(w.StrategyMidTick))},
	}
}

// DecodeState returns no fields for variants without on-chain state.
func DecodeState(kind RebalanceType, buf []byte) (Fields, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRebalanceType, uint8(kind))
	}
	if len(buf) < StateSize {
		return nil, fmt.Errorf("%w: state needs %d bytes, got %d", ErrBufferTooSmall, StateSize, len(buf))
	}
	if kind != RebalanceTypeAutodrift {
		return Fields{}, nil
	}
	s, err := DecodeAutodriftState(buf)
	if err != nil {
		return nil, err
	}
	return s.Fields(), nil
}

// encodeAutodriftState builds a state buffer the way the vault program lays it out.
func encodeAutodriftState(s AutodriftState) ([StateSize]byte, error) {
	var out [StateSize]byte
	buf := new(bytes.Buffer)
	encoder := binary.NewBorshEncoder(buf)

	if err := encoder.WriteBool(s.Initialized); err != nil {
		return out, err
	}
	for _, w := range []AutodriftWindow{s.LastWindow, s.CurrentWindow} {
		if err := writePriceOption(encoder, w.StakingRateA); err != nil {
			return out, err
		}
		if err := writePriceOption(encoder, w.StakingRateB); err != nil {
			return out, err
		}
		if err := encoder.WriteUint64(w.Epoch, binary.LE); err != nil {
			return out, err
		}
		if err := encoder.WriteInt32(w.TheoreticalTick, binary.LE); err != nil {
			return out, err
		}
		if err := encoder.WriteInt32(w.StrategyMidTick, binary.LE); err != nil {
			return out, err
		}
	}
	if err := encoder.WriteUint8(uint8(s.DriftDirection)); err != nil {
		return out, err
	}
	copy(out[:], buf.Bytes())
	return out, nil
}
