package meteora

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGetPriceOfBinByBinId(t *testing.T) {
	p, err := GetPriceOfBinByBinId(0, 25)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("bin 0 price = %s", p)
	}

	p, err = GetPriceOfBinByBinId(2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(decimal.RequireFromString("1.0201")) {
		t.Fatalf("bin 2 price = %s", p)
	}

	if _, err := GetPriceOfBinByBinId(1, 0); err != ErrBinStepRequired {
		t.Fatalf("expected ErrBinStepRequired, got %v", err)
	}
}

func TestGetBinIdFromPrice(t *testing.T) {
	for _, id := range []int32{-5000, -70, -1, 0, 1, 69, 5000} {
		p, err := GetPriceOfBinByBinId(id, 10)
		if err != nil {
			t.Fatal(err)
		}
		got, err := GetBinIdFromPrice(p, 10)
		if err != nil {
			t.Fatal(err)
		}
		if got != id {
			t.Fatalf("bin %d round tripped to %d", id, got)
		}
	}
}

func TestPriceX64ToPriceIsLinear(t *testing.T) {
	q := new(big.Int).Lsh(big.NewInt(3), 64) // 3.0 per lamport
	got := PriceX64ToPrice(q, 9, 6)
	if !got.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("price = %s", got)
	}
	back, err := PriceToPriceX64(got, 9, 6)
	if err != nil {
		t.Fatal(err)
	}
	if back.Cmp(q) != 0 {
		t.Fatalf("PriceToPriceX64 = %s", back)
	}
}

func TestBinIdToBinArrayIndex(t *testing.T) {
	cases := map[int32]int64{0: 0, 69: 0, 70: 1, -1: -1, -70: -1, -71: -2}
	for id, want := range cases {
		if got := BinIdToBinArrayIndex(id); got != want {
			t.Fatalf("BinIdToBinArrayIndex(%d) = %d, want %d", id, got, want)
		}
	}
}

func TestDecodeBinArray(t *testing.T) {
	data := make([]byte, BinArrayLen)
	data[8] = 0xff
	for i := 9; i < 16; i++ {
		data[i] = 0xff
	}
	// slot 3 amountX = 7
	data[56+3*BinSize] = 7

	a, err := DecodeBinArray(data)
	if err != nil {
		t.Fatal(err)
	}
	if a.Index != -1 {
		t.Fatalf("index = %d", a.Index)
	}
	if a.Bins[3].AmountX != 7 {
		t.Fatalf("amount x = %d", a.Bins[3].AmountX)
	}
	if a.BinId(3) != -67 {
		t.Fatalf("bin id = %d", a.BinId(3))
	}
}
