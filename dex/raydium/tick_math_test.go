package raydium

import (
	bin "encoding/binary"
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

func TestGetSqrtPriceX64FromTick(t *testing.T) {
	sqrt, err := GetSqrtPriceX64FromTick(0)
	if err != nil {
		t.Fatal(err)
	}
	if !sqrt.Equal(q64) {
		t.Fatalf("sqrt price at tick 0 = %s", sqrt)
	}

	if _, err := GetSqrtPriceX64FromTick(MinTick - 1); err != ErrTickOutOfRange {
		t.Fatalf("expected ErrTickOutOfRange, got %v", err)
	}

	prev := cosmath.ZeroInt()
	for tick := int32(-2000); tick <= 2000; tick += 250 {
		s, err := GetSqrtPriceX64FromTick(tick)
		if err != nil {
			t.Fatal(err)
		}
		if !s.GT(prev) {
			t.Fatalf("sqrt price not increasing at tick %d", tick)
		}
		prev = s
	}
}

func TestTickRoundTrip(t *testing.T) {
	for _, tick := range []int32{-400000, -1000, -10, -1, 0, 1, 10, 1000, 400000} {
		sqrt, err := GetSqrtPriceX64FromTick(tick)
		if err != nil {
			t.Fatal(err)
		}
		got, err := GetTickFromSqrtPriceX64(sqrt)
		if err != nil {
			t.Fatal(err)
		}
		if got != tick {
			t.Fatalf("tick %d round tripped to %d", tick, got)
		}
	}
}

func TestSqrtPriceX64ToPrice(t *testing.T) {
	// sqrt price of 2 in Q64.64 means a raw price of 4
	sqrt := q64.MulRaw(2)
	got := SqrtPriceX64ToPrice(sqrt, 9, 6)
	if !got.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("price = %s", got)
	}
}

func TestGetArrayStartIndex(t *testing.T) {
	if got := GetArrayStartIndex(-1, 10); got != -600 {
		t.Fatalf("start index for -1 = %d", got)
	}
	if got := GetArrayStartIndex(600, 10); got != 600 {
		t.Fatalf("start index for 600 = %d", got)
	}
	if got := GetArrayStartIndex(-600, 10); got != -600 {
		t.Fatalf("start index for -600 = %d", got)
	}
}

func TestDecodePoolState(t *testing.T) {
	data := make([]byte, PoolStateMinLen)
	data[233], data[234] = 9, 6
	bin.LittleEndian.PutUint16(data[235:237], 10)
	bin.LittleEndian.PutUint64(data[237:245], 5_000_000)
	bin.LittleEndian.PutUint64(data[261:269], 1) // sqrt price high limb = 2^64
	bin.LittleEndian.PutUint32(data[269:273], uint32(0xffffffff))

	p, err := DecodePoolState(data)
	if err != nil {
		t.Fatal(err)
	}
	if p.MintDecimals0 != 9 || p.MintDecimals1 != 6 || p.TickSpacing != 10 {
		t.Fatalf("unexpected header %+v", p)
	}
	if p.Liquidity.Big().Int64() != 5_000_000 {
		t.Fatalf("liquidity = %s", p.Liquidity.Big())
	}
	if !p.SqrtPrice().Equal(q64) {
		t.Fatalf("sqrt price = %s", p.SqrtPrice())
	}
	if p.TickCurrent != -1 {
		t.Fatalf("tick current = %d", p.TickCurrent)
	}
	if _, err := DecodePoolState(data[:100]); err == nil {
		t.Fatal("expected short buffer error")
	}
}
