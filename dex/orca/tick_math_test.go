package orca

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTickZeroIsOne(t *testing.T) {
	sqrt, err := TickIndexToSqrtPriceX64(0)
	if err != nil {
		t.Fatal(err)
	}
	if sqrt.Cmp(new(big.Int).Lsh(big.NewInt(1), 64)) != 0 {
		t.Fatalf("sqrt price at tick 0 = %s", sqrt)
	}
	price, err := TickIndexToPrice(0, 6, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !price.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("price at tick 0 = %s", price)
	}
}

func TestTickBounds(t *testing.T) {
	minSqrt, err := TickIndexToSqrtPriceX64(MinTickIndex)
	if err != nil {
		t.Fatal(err)
	}
	next, err := TickIndexToSqrtPriceX64(MinTickIndex + 1)
	if err != nil {
		t.Fatal(err)
	}
	if minSqrt.Sign() <= 0 || minSqrt.Cmp(next) >= 0 {
		t.Fatalf("min sqrt price = %s, next = %s", minSqrt, next)
	}
	if _, err := TickIndexToSqrtPriceX64(MaxTickIndex + 1); err != ErrTickOutOfRange {
		t.Fatalf("expected ErrTickOutOfRange, got %v", err)
	}
}

func TestTickIndexToSqrtPriceKnownValues(t *testing.T) {
	cases := []struct {
		tick int32
		want string
	}{
		{MinTickIndex, "4295048016"},
		{-1000, "17547129613991598777"},
		{-1, "18445821805675392311"},
		{1, "18447666387855959850"},
		{1000, "19392480388906836277"},
		{MaxTickIndex, "79226673515401279992447579055"},
	}
	for _, c := range cases {
		got, err := TickIndexToSqrtPriceX64(c.tick)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != c.want {
			t.Fatalf("tick %d: sqrt price = %s, want %s", c.tick, got, c.want)
		}
	}
}

func TestSqrtPriceBoundsMapToTickBounds(t *testing.T) {
	if tick, err := SqrtPriceX64ToTickIndex(MaxSqrtPriceX64); err != nil || tick != MaxTickIndex {
		t.Fatalf("max sqrt price -> tick %d, %v", tick, err)
	}
	if tick, err := SqrtPriceX64ToTickIndex(MinSqrtPriceX64); err != nil || tick != MinTickIndex {
		t.Fatalf("min sqrt price -> tick %d, %v", tick, err)
	}
}

func TestSqrtPriceToTickRoundTrip(t *testing.T) {
	for _, tick := range []int32{MinTickIndex, -443000, -120000, -64, -1, 0, 1, 64, 120000, 443000, MaxTickIndex} {
		sqrt, err := TickIndexToSqrtPriceX64(tick)
		if err != nil {
			t.Fatal(err)
		}
		got, err := SqrtPriceX64ToTickIndex(sqrt)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if got != tick {
			t.Fatalf("round trip tick %d -> %d", tick, got)
		}
	}
}

func TestStartTickIndex(t *testing.T) {
	cases := []struct {
		tick    int32
		spacing uint16
		offset  int32
		want    int32
	}{
		{0, 64, 0, 0},
		{5631, 64, 0, 0},
		{-1, 64, 0, -5632},
		{-1, 64, 1, 0},
		{6000, 64, -1, 0},
	}
	for _, c := range cases {
		if got := GetStartTickIndex(c.tick, c.spacing, c.offset); got != c.want {
			t.Fatalf("GetStartTickIndex(%d, %d, %d) = %d, want %d", c.tick, c.spacing, c.offset, got, c.want)
		}
	}
}

func TestDecodeTickArrayRejectsShortBuffer(t *testing.T) {
	if _, err := DecodeTickArray(make([]byte, 100)); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeTickArray(t *testing.T) {
	data := make([]byte, TickArrayLen)
	// start tick -5632
	start := int32(-5632)
	u := uint32(start)
	data[8], data[9], data[10], data[11] = byte(u), byte(u>>8), byte(u>>16), byte(u>>24)
	// slot 1: initialized, liquidityNet = -2
	off := 12 + TickSize
	data[off] = 1
	for i := 0; i < 16; i++ {
		data[off+1+i] = 0xff
	}
	data[off+1] = 0xfe

	arr, err := DecodeTickArray(data)
	if err != nil {
		t.Fatal(err)
	}
	if arr.StartTickIndex != start {
		t.Fatalf("start = %d", arr.StartTickIndex)
	}
	if !arr.Ticks[1].Initialized || arr.Ticks[1].LiquidityNet.Int64() != -2 {
		t.Fatalf("tick 1 = %+v", arr.Ticks[1])
	}
	if arr.TickIndex(1, 64) != start+64 {
		t.Fatalf("tick index = %d", arr.TickIndex(1, 64))
	}
}
