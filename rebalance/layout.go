package rebalance

import (
	"bytes"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/u128"
)

type width uint8

const (
	widthU8 width = iota
	widthU16
	widthU32
	widthI32
	widthU64
	widthU128
)

func (w width) size() int {
	switch w {
	case widthU8:
		return 1
	case widthU16:
		return 2
	case widthU32, widthI32:
		return 4
	case widthU64:
		return 8
	default:
		return 16
	}
}

func (w width) bounds() (*big.Int, *big.Int) {
	switch w {
	case widthI32:
		return big.NewInt(-1 << 31), big.NewInt(1<<31 - 1)
	default:
		limit := new(big.Int).Lsh(big.NewInt(1), uint(8*w.size()))
		return big.NewInt(0), limit.Sub(limit, big.NewInt(1))
	}
}

type fieldSpec struct {
	name  string
	width width
	// enum validates fields that carry an enum discriminant
	enum func(uint64) error
}

func (f fieldSpec) integer(v decimal.Decimal) (*big.Int, error) {
	if !v.Equal(v.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s=%s is not an integer", ErrValueOutOfRange, f.name, v)
	}
	n := v.BigInt()
	lo, hi := f.width.bounds()
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return nil, fmt.Errorf("%w: %s=%s", ErrValueOutOfRange, f.name, v)
	}
	if f.enum != nil {
		if err := f.enum(n.Uint64()); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (f fieldSpec) write(enc *binary.Encoder, n *big.Int) error {
	switch f.width {
	case widthU8:
		return enc.WriteUint8(uint8(n.Uint64()))
	case widthU16:
		return enc.WriteUint16(uint16(n.Uint64()), binary.LE)
	case widthU32:
		return enc.WriteUint32(uint32(n.Uint64()), binary.LE)
	case widthI32:
		return enc.WriteInt32(int32(n.Int64()), binary.LE)
	case widthU64:
		return enc.WriteUint64(n.Uint64(), binary.LE)
	default:
		v, err := u128.FromBigInt(n)
		if err != nil {
			return err
		}
		return enc.WriteUint128(v, binary.LE)
	}
}

func (f fieldSpec) read(dec *binary.Decoder) (decimal.Decimal, error) {
	var n *big.Int
	switch f.width {
	case widthU8:
		v, err := dec.ReadUint8()
		if err != nil {
			return decimal.Zero, err
		}
		n = new(big.Int).SetUint64(uint64(v))
	case widthU16:
		v, err := dec.ReadUint16(binary.LE)
		if err != nil {
			return decimal.Zero, err
		}
		n = new(big.Int).SetUint64(uint64(v))
	case widthU32:
		v, err := dec.ReadUint32(binary.LE)
		if err != nil {
			return decimal.Zero, err
		}
		n = new(big.Int).SetUint64(uint64(v))
	case widthI32:
		v, err := dec.ReadInt32(binary.LE)
		if err != nil {
			return decimal.Zero, err
		}
		n = big.NewInt(int64(v))
	case widthU64:
		v, err := dec.ReadUint64(binary.LE)
		if err != nil {
			return decimal.Zero, err
		}
		n = new(big.Int).SetUint64(v)
	default:
		v, err := dec.ReadUint128(binary.LE)
		if err != nil {
			return decimal.Zero, err
		}
		n = v.BigInt()
	}
	if f.enum != nil {
		if err := f.enum(n.Uint64()); err != nil {
			return decimal.Zero, err
		}
	}
	return decimal.NewFromBigInt(n, 0), nil
}

type layout []fieldSpec

func (l layout) size() int {
	total := 0
	for _, f := range l {
		total += f.width.size()
	}
	return total
}

// encode writes values packed from offset 0 into a zeroed buffer of size bytes.
func (l layout) encode(values []decimal.Decimal, size int) ([]byte, error) {
	if len(values) != len(l) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrValueCount, len(l), len(values))
	}

	buf := new(bytes.Buffer)
	enc := binary.NewBorshEncoder(buf)
	for i, f := range l {
		n, err := f.integer(values[i])
		if err != nil {
			return nil, err
		}
		if err := f.write(enc, n); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.name, err)
		}
	}

	out := make([]byte, size)
	copy(out, buf.Bytes())
	return out, nil
}

func (l layout) decode(dec *binary.Decoder) (Fields, error) {
	out := make(Fields, 0, len(l))
	for _, f := range l {
		v, err := f.read(dec)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
		out = append(out, Field{Name: f.name, Value: v})
	}
	return out, nil
}

func u16(name string) fieldSpec { return fieldSpec{name: name, width: widthU16} }

func u32(name string) fieldSpec { return fieldSpec{name: name, width: widthU32} }

func i32(name string) fieldSpec { return fieldSpec{name: name, width: widthI32} }

func u64(name string) fieldSpec { return fieldSpec{name: name, width: widthU64} }

func uint128Field(name string) fieldSpec { return fieldSpec{name: name, width: widthU128} }

func enumU8(name string, check func(uint64) error) fieldSpec {
	return fieldSpec{name: name, width: widthU8, enum: check}
}
