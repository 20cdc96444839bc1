package dex

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDexFromNumber(t *testing.T) {
	for n, want := range map[uint64]Dex{0: DexOrca, 1: DexRaydium, 2: DexMeteora} {
		got, err := DexFromNumber(n)
		if err != nil || got != want {
			t.Fatalf("DexFromNumber(%d) = %v, %v", n, got, err)
		}
	}
	if _, err := DexFromNumber(3); !errors.Is(err, ErrUnknownDex) {
		t.Fatalf("expected ErrUnknownDex, got %v", err)
	}
	if _, err := ParseDex("uniswap"); !errors.Is(err, ErrUnknownDex) {
		t.Fatalf("expected ErrUnknownDex, got %v", err)
	}
	if d, _ := ParseDex(" raydium "); d != DexRaydium {
		t.Fatalf("ParseDex = %v", d)
	}
}

func TestCodecForUnknownDex(t *testing.T) {
	if _, err := CodecFor(Dex(9)); !errors.Is(err, ErrUnknownDex) {
		t.Fatalf("expected ErrUnknownDex, got %v", err)
	}
	if _, err := TickOrBinToPrice(Dex(9), 0, 6, 6, 1); !errors.Is(err, ErrUnknownDex) {
		t.Fatalf("expected ErrUnknownDex, got %v", err)
	}
}

func TestPriceMonotonicInIndex(t *testing.T) {
	cases := []struct {
		dex     Dex
		spacing uint16
	}{
		{DexOrca, 64},
		{DexRaydium, 10},
		{DexMeteora, 25},
	}
	for _, c := range cases {
		prev := decimal.Zero
		for index := int32(-3000); index <= 3000; index += 37 {
			p, err := TickOrBinToPrice(c.dex, index, 9, 6, c.spacing)
			if err != nil {
				t.Fatalf("%s index %d: %v", c.dex, index, err)
			}
			if !p.GreaterThan(prev) {
				t.Fatalf("%s price not increasing at %d: %s <= %s", c.dex, index, p, prev)
			}
			prev = p
		}
	}
}

func TestPriceMonotonicAtExtremeIndexes(t *testing.T) {
	cases := []struct {
		dex                  Dex
		spacing              uint16
		from                 int32
		decimalsA, decimalsB uint8
	}{
		{DexOrca, 1, -443600, 0, 18},
		{DexRaydium, 1, -443600, 0, 18},
		{DexMeteora, 1, -443600, 0, 18},
		{DexOrca, 1, 443620, 18, 0},
		{DexRaydium, 1, 443620, 18, 0},
	}
	for _, c := range cases {
		prev, err := TickOrBinToPrice(c.dex, c.from, c.decimalsA, c.decimalsB, c.spacing)
		if err != nil {
			t.Fatalf("%s index %d: %v", c.dex, c.from, err)
		}
		for index := c.from + 1; index <= c.from+12; index++ {
			p, err := TickOrBinToPrice(c.dex, index, c.decimalsA, c.decimalsB, c.spacing)
			if err != nil {
				t.Fatalf("%s index %d: %v", c.dex, index, err)
			}
			if !p.GreaterThan(prev) {
				t.Fatalf("%s price not increasing at %d: %s <= %s", c.dex, index, p, prev)
			}
			prev = p
		}
	}
}

func TestPriceToIndexIsLeftInverseOnGrid(t *testing.T) {
	for _, d := range []Dex{DexOrca, DexRaydium} {
		for _, tick := range []int32{-22016, -640, 0, 128, 64000} {
			p, err := TickOrBinToPrice(d, tick, 9, 6, 64)
			if err != nil {
				t.Fatal(err)
			}
			got, err := PriceToTickOrBin(d, p, 9, 6, 64)
			if err != nil {
				t.Fatal(err)
			}
			if got != tick {
				t.Fatalf("%s: tick %d -> price %s -> tick %d", d, tick, p, got)
			}
		}
	}
	for _, bin := range []int32{-300, -1, 0, 1, 8000} {
		p, err := TickOrBinToPrice(DexMeteora, bin, 6, 6, 20)
		if err != nil {
			t.Fatal(err)
		}
		got, err := PriceToTickOrBin(DexMeteora, p, 6, 6, 20)
		if err != nil {
			t.Fatal(err)
		}
		if got != bin {
			t.Fatalf("meteora: bin %d -> %d", bin, got)
		}
	}
}

func TestPriceToIndexSnapsToNearestGridTick(t *testing.T) {
	lower, _ := TickOrBinToPrice(DexOrca, 640, 6, 6, 64)
	upper, _ := TickOrBinToPrice(DexOrca, 704, 6, 6, 64)
	nearLower := lower.Add(upper.Sub(lower).Div(decimal.NewFromInt(4)))
	got, err := PriceToTickOrBin(DexOrca, nearLower, 6, 6, 64)
	if err != nil {
		t.Fatal(err)
	}
	if got != 640 {
		t.Fatalf("expected 640, got %d", got)
	}
}

func TestSqrtPriceToPriceDivergesForMeteora(t *testing.T) {
	two := new(big.Int).Lsh(big.NewInt(2), 64)

	for _, d := range []Dex{DexOrca, DexRaydium} {
		p, err := SqrtPriceToPrice(d, two, 6, 6)
		if err != nil {
			t.Fatal(err)
		}
		if !p.Equal(decimal.NewFromInt(4)) {
			t.Fatalf("%s: sqrt 2 should price at 4, got %s", d, p)
		}
	}

	p, err := SqrtPriceToPrice(DexMeteora, two, 6, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("meteora: linear Q64 price 2 should price at 2, got %s", p)
	}

	if _, err := SqrtPriceToPrice(DexOrca, nil, 6, 6); !errors.Is(err, ErrNilSqrtPrice) {
		t.Fatalf("expected ErrNilSqrtPrice, got %v", err)
	}
}

func TestPriceToSqrtPriceRoundTrip(t *testing.T) {
	for _, d := range []Dex{DexOrca, DexRaydium, DexMeteora} {
		c, err := CodecFor(d)
		if err != nil {
			t.Fatal(err)
		}
		if c.Dex() != d {
			t.Fatalf("codec for %s reports %s", d, c.Dex())
		}
		sqrt, err := c.PriceToSqrtPrice(decimal.NewFromInt(4), 6, 6)
		if err != nil {
			t.Fatal(err)
		}
		p, err := c.SqrtPriceToPrice(sqrt, 6, 6)
		if err != nil {
			t.Fatal(err)
		}
		if !p.Round(12).Equal(decimal.NewFromInt(4)) {
			t.Fatalf("%s: round trip price 4 -> %s", d, p)
		}
	}
}
