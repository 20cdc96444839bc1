package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

var (
	ErrNegative = errors.New("value cannot be negative")
	ErrOverflow = errors.New("value overflows Uint128")
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBigInt(i)
	if err != nil {
		return err
	}
	u.Lo, u.Hi = v.Lo, v.Hi
	return nil
}

// FromBigInt converts a non-negative big.Int of at most 128 bits.
func FromBigInt(i *big.Int) (binary.Uint128, error) {
	if i.Sign() < 0 {
		return binary.Uint128{}, ErrNegative
	}
	if i.BitLen() > 128 {
		return binary.Uint128{}, ErrOverflow
	}
	out := binary.NewUint128LittleEndian()
	out.Lo = new(big.Int).And(i, maxU64).Uint64()
	out.Hi = new(big.Int).Rsh(i, 64).Uint64()
	return *out, nil
}

// FromString panics on malformed input; intended for constants and fixtures.
func FromString(num string) binary.Uint128 {
	u := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u)); err != nil {
		panic(err)
	}
	return *u
}

// FromLE reads an unsigned little endian 128-bit account field.
func FromLE(b []byte) *big.Int {
	return uint128.FromBytes(b[:16]).Big()
}

// SignedFromLE reads a two's complement little endian i128 account field.
func SignedFromLE(b []byte) *big.Int {
	v := FromLE(b)
	if b[15]&0x80 != 0 {
		v.Sub(v, twoPow128)
	}
	return v
}

var (
	maxU64    = new(big.Int).SetUint64(^uint64(0))
	twoPow128 = new(big.Int).Lsh(big.NewInt(1), 128)
)
