package decimal_math

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPowInt(t *testing.T) {
	base := decimal.RequireFromString("1.0001")

	got := PowInt(base, 2, 12)
	if !got.Equal(decimal.RequireFromString("1.00020001")) {
		t.Fatalf("1.0001^2 = %s", got)
	}

	inv := PowInt(base, -1, 20)
	if !inv.Mul(base).Round(18).Equal(decimal.NewFromInt(1)) {
		t.Fatalf("1.0001^-1 * 1.0001 = %s", inv.Mul(base))
	}

	if !PowInt(base, 0, 8).Equal(decimal.NewFromInt(1)) {
		t.Fatal("x^0 should be 1")
	}
}

func TestX64RoundTrip(t *testing.T) {
	q := new(big.Int).Lsh(big.NewInt(3), 63) // 1.5 in Q64.64
	d := FromX64(q, 10)
	if !d.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("FromX64 = %s", d)
	}
	if ToX64(d).Cmp(q) != 0 {
		t.Fatalf("ToX64 = %s", ToX64(d))
	}
}

func TestSqrt(t *testing.T) {
	got, err := Sqrt(decimal.NewFromInt(144), 128)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("sqrt(144) = %s", got)
	}
	if _, err := Sqrt(decimal.NewFromInt(-1), 64); err == nil {
		t.Fatal("expected error for negative input")
	}
}

func TestAdjustDecimals(t *testing.T) {
	got := AdjustDecimals(big.NewInt(1_500_000), 6)
	if !got.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("AdjustDecimals = %s", got)
	}
	if !ScaleByDecimals(decimal.NewFromInt(1), 9, 6).Equal(decimal.NewFromInt(1000)) {
		t.Fatal("ScaleByDecimals(1, 9, 6) should be 1000")
	}
}

func TestRoundSignificant(t *testing.T) {
	cases := []struct {
		in     string
		digits int32
		want   string
	}{
		{"123.456", 4, "123.5"},
		{"0.000000000000000000000000000000000000054412345", 3, "0.0000000000000000000000000000000000000544"},
		{"98765", 2, "99000"},
		{"0", 5, "0"},
	}
	for _, c := range cases {
		got := RoundSignificant(decimal.RequireFromString(c.in), c.digits)
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("RoundSignificant(%s, %d) = %s, want %s", c.in, c.digits, got, c.want)
		}
	}
}
