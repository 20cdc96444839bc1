package rebalance

import (
	"bytes"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
)

// PriceOption is an optional decimal stored as a tag byte followed by a
// u64 mantissa and a u64 base 10 exponent.
//
// An absent option decodes to a zero Value, the same as an explicit zero.
// Present keeps the distinction for callers that need it.
type PriceOption struct {
	Present bool
	Value   decimal.Decimal
}

const (
	priceOptionAbsent  = 0
	priceOptionPresent = 1
	priceOptionMaxSize = 1 + 8 + 8
)

// EncodePriceOption returns 1 byte for an absent option and 17 otherwise.
func EncodePriceOption(p PriceOption) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writePriceOption(binary.NewBorshEncoder(buf), p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePriceOption reads the option at offset and returns the offset just past it.
func DecodePriceOption(buf []byte, offset int) (PriceOption, int, error) {
	if offset < 0 || offset >= len(buf) {
		return PriceOption{}, offset, fmt.Errorf("%w: price option at %d of %d", ErrBufferTooSmall, offset, len(buf))
	}
	decoder := binary.NewBorshDecoder(buf[offset:])
	p, err := readPriceOption(decoder)
	if err != nil {
		return PriceOption{}, offset, err
	}
	return p, offset + int(decoder.Position()), nil
}

func readPriceOption(decoder *binary.Decoder) (PriceOption, error) {
	tag, err := decoder.ReadUint8()
	if err != nil {
		return PriceOption{}, fmt.Errorf("%w: price option tag: %v", ErrBufferTooSmall, err)
	}
	// any nonzero tag marks a present value
	if tag == priceOptionAbsent {
		return PriceOption{Value: decimal.Zero}, nil
	}

	mantissa, err := decoder.ReadUint64(binary.LE)
	if err != nil {
		return PriceOption{}, fmt.Errorf("%w: price option value: %v", ErrBufferTooSmall, err)
	}
	exp, err := decoder.ReadUint64(binary.LE)
	if err != nil {
		return PriceOption{}, fmt.Errorf("%w: price option exp: %v", ErrBufferTooSmall, err)
	}
	if exp > 1<<31-1 {
		return PriceOption{}, fmt.Errorf("%w: price option exp %d", ErrValueOutOfRange, exp)
	}
	value := decimal.NewFromBigInt(new(big.Int).SetUint64(mantissa), -int32(exp))
	return PriceOption{Present: true, Value: value}, nil
}

func writePriceOption(encoder *binary.Encoder, p PriceOption) error {
	if !p.Present {
		return encoder.WriteUint8(priceOptionAbsent)
	}
	mantissa, exp, err := splitPrice(p.Value)
	if err != nil {
		return err
	}
	if err := encoder.WriteUint8(priceOptionPresent); err != nil {
		return err
	}
	if err := encoder.WriteUint64(mantissa, binary.LE); err != nil {
		return err
	}
	return encoder.WriteUint64(exp, binary.LE)
}

// splitPrice turns v into mantissa * 10^-exp with both parts unsigned.
func splitPrice(v decimal.Decimal) (uint64, uint64, error) {
	if v.Sign() < 0 {
		return 0, 0, fmt.Errorf("%w: negative price %s", ErrValueOutOfRange, v)
	}
	coef := v.Coefficient()
	exp := v.Exponent()
	if exp > 0 {
		coef.Mul(coef, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
		exp = 0
	}
	if !coef.IsUint64() {
		return 0, 0, fmt.Errorf("%w: price %s does not fit a u64 mantissa", ErrValueOutOfRange, v)
	}
	return coef.Uint64(), uint64(-exp), nil
}
