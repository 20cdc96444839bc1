package rebalance

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/kliquidity-go/dex"
)

func decs(vs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func sameValues(a, b []decimal.Decimal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func TestParamsRoundTrip(t *testing.T) {
	maxU128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	cases := []struct {
		kind   RebalanceType
		values []decimal.Decimal
		size   int
	}{
		{RebalanceTypeManual, nil, 0},
		{RebalanceTypePricePercentage, decs(500, 1000), 4},
		{RebalanceTypePricePercentageWithReset, decs(500, 1000, 250, 65535), 8},
		{RebalanceTypeDrift, decs(-20, 30, -1, 86400, 1), 21},
		{RebalanceTypeTakeProfit, []decimal.Decimal{
			decimal.NewFromBigInt(big.NewInt(4295048016), 0),
			decimal.NewFromBigInt(maxU128, 0),
			decimal.NewFromInt(1),
		}, 33},
		{RebalanceTypePeriodicRebalance, decs(604800, 300, 300), 12},
		{RebalanceTypeExpander, decs(100, 200, 50, 60, 1000, 5, 1), 13},
		{RebalanceTypeAutodrift, decs(3, 40, 40, 12000, 2, 0, 1), 17},
	}

	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			buf, err := EncodeParams(c.kind, c.values)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			for i := c.size; i < ParamsSize; i++ {
				if buf[i] != 0 {
					t.Fatalf("byte %d past layout is %d", i, buf[i])
				}
			}

			fields, err := DecodeParams(c.kind, buf[:])
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !sameValues(fields.Values(), c.values) {
				t.Fatalf("round trip = %v, want %v", fields.Values(), c.values)
			}

			typed, err := ParseParams(c.kind, buf[:])
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if typed.Kind() != c.kind {
				t.Fatalf("parsed kind = %v", typed.Kind())
			}
			again, err := Encode(typed)
			if err != nil {
				t.Fatalf("encode typed: %v", err)
			}
			if again != buf {
				t.Fatalf("typed params re-encode differently")
			}
		})
	}
}

func TestManualParamsAreZero(t *testing.T) {
	buf, err := EncodeParams(RebalanceTypeManual, nil)
	if err != nil {
		t.Fatal(err)
	}
	if buf != [ParamsSize]byte{} {
		t.Fatalf("manual params not zero")
	}

	noise := bytes.Repeat([]byte{0xff}, ParamsSize)
	fields, err := DecodeParams(RebalanceTypeManual, noise)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 0 {
		t.Fatalf("manual decoded %d fields", len(fields))
	}
}

func TestEncodeParamsRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		kind   RebalanceType
		values []decimal.Decimal
		want   error
	}{
		{"u16 overflow", RebalanceTypePricePercentage, decs(65536, 1), ErrValueOutOfRange},
		{"negative u16", RebalanceTypePricePercentage, decs(-1, 1), ErrValueOutOfRange},
		{"i32 overflow", RebalanceTypeDrift, decs(1<<31, 1, 1, 1, 0), ErrValueOutOfRange},
		{"fraction", RebalanceTypePricePercentage, []decimal.Decimal{decimal.RequireFromString("1.5"), decimal.NewFromInt(1)}, ErrValueOutOfRange},
		{"count", RebalanceTypePricePercentage, decs(1), ErrValueCount},
		{"drift direction", RebalanceTypeDrift, decs(1, 1, 1, 1, 2), ErrUnknownEnumValue},
		{"destination token", RebalanceTypeTakeProfit, decs(1, 2, 3), ErrUnknownEnumValue},
		{"staking source", RebalanceTypeAutodrift, decs(1, 1, 1, 1, 3, 0, 0), ErrUnknownEnumValue},
		{"swap uneven", RebalanceTypeExpander, decs(1, 1, 1, 1, 1, 1, 2), ErrUnknownEnumValue},
		{"unknown kind", RebalanceType(8), nil, ErrUnknownRebalanceType},
	}
	for _, c := range cases {
		if _, err := EncodeParams(c.kind, c.values); !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}

	tooBig := decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0)
	if _, err := EncodeParams(RebalanceTypeTakeProfit, []decimal.Decimal{decimal.Zero, tooBig, decimal.Zero}); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("u128 overflow: got %v", err)
	}
}

func TestDecodeRejectsShortBuffers(t *testing.T) {
	if _, err := DecodeParams(RebalanceTypePricePercentage, make([]byte, ParamsSize-1)); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("params: got %v", err)
	}
	if _, err := DecodeState(RebalanceTypeAutodrift, make([]byte, StateSize-1)); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("state: got %v", err)
	}
	if _, err := DecodeParams(RebalanceType(200), make([]byte, ParamsSize)); !errors.Is(err, ErrUnknownRebalanceType) {
		t.Fatalf("kind: got %v", err)
	}

	buf, _ := EncodeParams(RebalanceTypeDrift, decs(1, 1, 1, 1, 0))
	buf[20] = 7
	if _, err := DecodeParams(RebalanceTypeDrift, buf[:]); !errors.Is(err, ErrUnknownEnumValue) {
		t.Fatalf("direction: got %v", err)
	}
}

func TestDriftParamsLayout(t *testing.T) {
	buf, err := EncodeParams(RebalanceTypeDrift, decs(10, 10, 1, 86400, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		10, 0, 0, 0,
		10, 0, 0, 0,
		1, 0, 0, 0,
		0x80, 0x51, 0x01, 0, 0, 0, 0, 0,
		0,
	}
	if !bytes.Equal(buf[:len(want)], want) {
		t.Fatalf("drift bytes = %x, want %x", buf[:len(want)], want)
	}

	lower, upper, err := DeriveRange(100, 10, 10)
	if err != nil || lower != 90 || upper != 110 {
		t.Fatalf("DeriveRange = %d, %d, %v", lower, upper, err)
	}

	raw := RebalanceRaw{Params: buf}
	codec, _ := dex.CodecFor(dex.DexOrca)
	r, err := RangeForParams(RebalanceTypeDrift, raw, codec, PoolContext{CurrentIndex: 100, DecimalsA: 6, DecimalsB: 6, Spacing: 1})
	if err != nil {
		t.Fatal(err)
	}
	wantLower, _ := codec.IndexToPrice(90, 6, 6, 1)
	wantUpper, _ := codec.IndexToPrice(110, 6, 6, 1)
	if !r.LowerPrice.Equal(wantLower) || !r.UpperPrice.Equal(wantUpper) {
		t.Fatalf("range = %s..%s, want %s..%s", r.LowerPrice, r.UpperPrice, wantLower, wantUpper)
	}
}

func TestDeriveRangeOverflow(t *testing.T) {
	if _, _, err := DeriveRange(-2147483600, 100, 0); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("lower: got %v", err)
	}
	if _, _, err := DeriveRange(2147483600, 0, 100); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("upper: got %v", err)
	}
}

func TestPriceOption(t *testing.T) {
	absent, err := EncodePriceOption(PriceOption{})
	if err != nil || !bytes.Equal(absent, []byte{0}) {
		t.Fatalf("absent = %x, %v", absent, err)
	}

	present, err := EncodePriceOption(PriceOption{Present: true, Value: mustDecimal(t, "1.05")})
	if err != nil {
		t.Fatal(err)
	}
	if len(present) != priceOptionMaxSize || present[0] != 1 || present[1] != 105 || present[9] != 2 {
		t.Fatalf("present = %x", present)
	}

	buf := append([]byte{0xaa, 0xbb}, absent...)
	buf = append(buf, present...)

	p, next, err := DecodePriceOption(buf, 2)
	if err != nil || p.Present || !p.Value.IsZero() || next != 3 {
		t.Fatalf("absent decode = %+v, %d, %v", p, next, err)
	}
	p, next, err = DecodePriceOption(buf, next)
	if err != nil || !p.Present || !p.Value.Equal(mustDecimal(t, "1.05")) || next != len(buf) {
		t.Fatalf("present decode = %+v, %d, %v", p, next, err)
	}

	tagged := []byte{2, 5, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}
	p, next, err = DecodePriceOption(tagged, 0)
	if err != nil || !p.Present || !p.Value.Equal(mustDecimal(t, "0.5")) || next != len(tagged) {
		t.Fatalf("nonzero tag decode = %+v, %d, %v", p, next, err)
	}
	if _, _, err := DecodePriceOption([]byte{2}, 0); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("truncated nonzero tag: got %v", err)
	}
	if _, _, err := DecodePriceOption([]byte{1, 0, 0}, 0); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("truncated: got %v", err)
	}
	if _, err := EncodePriceOption(PriceOption{Present: true, Value: decimal.NewFromInt(-1)}); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("negative: got %v", err)
	}
}

func testAutodriftState() AutodriftState {
	return AutodriftState{
		Initialized: true,
		LastWindow: AutodriftWindow{
			StakingRateA:    PriceOption{Present: true, Value: decimal.RequireFromString("1.0712")},
			Epoch:           612,
			TheoreticalTick: -120,
			StrategyMidTick: -128,
		},
		CurrentWindow: AutodriftWindow{
			StakingRateA:    PriceOption{Present: true, Value: decimal.RequireFromString("1.0714")},
			StakingRateB:    PriceOption{Present: true, Value: decimal.NewFromInt(1)},
			Epoch:           613,
			TheoreticalTick: -96,
			StrategyMidTick: -64,
		},
		DriftDirection: DriftDirectionDecreasing,
	}
}

func TestAutodriftStateAcceptsNonzeroTag(t *testing.T) {
	buf, err := encodeAutodriftState(testAutodriftState())
	if err != nil {
		t.Fatal(err)
	}
	// last window staking rate A follows the initialized byte
	buf[1] = 2

	got, err := DecodeAutodriftState(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastWindow.StakingRateA.Present || !got.LastWindow.StakingRateA.Value.Equal(decimal.RequireFromString("1.0712")) {
		t.Fatalf("staking rate = %+v", got.LastWindow.StakingRateA)
	}
}

func TestAutodriftStateRoundTrip(t *testing.T) {
	want := testAutodriftState()
	buf, err := encodeAutodriftState(want)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeAutodriftState(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	if !got.Initialized || got.DriftDirection != want.DriftDirection {
		t.Fatalf("header = %+v", got)
	}
	if got.LastWindow.StakingRateB.Present || !got.LastWindow.StakingRateB.Value.IsZero() {
		t.Fatalf("absent staking rate = %+v", got.LastWindow.StakingRateB)
	}
	if !got.CurrentWindow.StakingRateA.Value.Equal(want.CurrentWindow.StakingRateA.Value) ||
		got.CurrentWindow.Epoch != 613 || got.CurrentWindow.StrategyMidTick != -64 ||
		got.LastWindow.TheoreticalTick != -120 {
		t.Fatalf("windows = %+v", got)
	}

	fields, err := DecodeState(RebalanceTypeAutodrift, buf[:])
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 12 {
		t.Fatalf("state fields = %v", fields.Names())
	}
	if v, ok := fields.Get("currentWindow.theoreticalTick"); !ok || v.IntPart() != -96 {
		t.Fatalf("currentWindow.theoreticalTick = %v, %v", v, ok)
	}
	if v, err := fields.Require("lastWindow.epoch"); err != nil || v.IntPart() != 612 {
		t.Fatalf("lastWindow.epoch = %v, %v", v, err)
	}
	if _, err := fields.Require("nope"); !errors.Is(err, ErrMissingField) {
		t.Fatalf("missing field: got %v", err)
	}

	empty, err := DecodeState(RebalanceTypeExpander, buf[:])
	if err != nil || len(empty) != 0 {
		t.Fatalf("expander state = %v, %v", empty, err)
	}
}

func TestAutodriftRangeUsesStrategyMid(t *testing.T) {
	params, err := Encode(AutodriftParams{InitDriftTicksPerEpoch: 1, TicksBelowMid: 64, TicksAboveMid: 128})
	if err != nil {
		t.Fatal(err)
	}
	state, err := encodeAutodriftState(testAutodriftState())
	if err != nil {
		t.Fatal(err)
	}
	raw := RebalanceRaw{Params: params, State: state}

	codec, _ := dex.CodecFor(dex.DexRaydium)
	pool := PoolContext{CurrentIndex: 5000, DecimalsA: 9, DecimalsB: 6, Spacing: 64}
	r, err := RangeForParams(RebalanceTypeAutodrift, raw, codec, pool)
	if err != nil {
		t.Fatal(err)
	}
	wantLower, _ := codec.IndexToPrice(-128, 9, 6, 64)
	wantUpper, _ := codec.IndexToPrice(64, 9, 6, 64)
	if !r.LowerPrice.Equal(wantLower) || !r.UpperPrice.Equal(wantUpper) {
		t.Fatalf("range = %s..%s, want %s..%s", r.LowerPrice, r.UpperPrice, wantLower, wantUpper)
	}

	raw.State = [StateSize]byte{}
	r, err = RangeForParams(RebalanceTypeAutodrift, raw, codec, pool)
	if err != nil {
		t.Fatal(err)
	}
	wantLower, _ = codec.IndexToPrice(5000-64, 9, 6, 64)
	if !r.LowerPrice.Equal(wantLower) {
		t.Fatalf("uninitialized lower = %s, want %s", r.LowerPrice, wantLower)
	}
}

func TestRebalanceRawBorsh(t *testing.T) {
	params, _ := EncodeParams(RebalanceTypePricePercentage, decs(100, 200))
	state, _ := encodeAutodriftState(testAutodriftState())
	raw := RebalanceRaw{Params: params, State: state, ReferencePriceType: uint8(ReferencePriceTypeTwap)}

	buf := new(bytes.Buffer)
	if err := raw.MarshalWithEncoder(binary.NewBorshEncoder(buf)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != ParamsSize+StateSize+1 {
		t.Fatalf("encoded %d bytes", buf.Len())
	}

	got, err := DecodeRebalanceRaw(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if *got != raw {
		t.Fatalf("raw did not round trip")
	}
	if ref, err := got.Reference(); err != nil || ref != ReferencePriceTypeTwap {
		t.Fatalf("reference = %v, %v", ref, err)
	}

	if _, err := DecodeRebalanceRaw(buf.Bytes()[:100]); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("short raw: got %v", err)
	}
}

func TestWithParamsKeepsStateAndTail(t *testing.T) {
	state, _ := encodeAutodriftState(testAutodriftState())
	raw := RebalanceRaw{State: state, ReferencePriceType: 1}
	for i := range raw.Params {
		raw.Params[i] = 0xee
	}

	// bytes past a layout are not owned by the codec on decode
	fields, err := DecodeParams(RebalanceTypePricePercentage, raw.Params[:])
	if err != nil || len(fields) != 2 {
		t.Fatalf("decode with tail = %v, %v", fields, err)
	}

	next, err := WithParams(raw, RebalanceTypePricePercentage, decs(10, 20))
	if err != nil {
		t.Fatal(err)
	}
	if next.State != raw.State || next.ReferencePriceType != raw.ReferencePriceType {
		t.Fatalf("state or reference type changed")
	}
	if raw.Params[0] != 0xee {
		t.Fatalf("input raw was modified")
	}
}

func TestFieldInfosAndDiff(t *testing.T) {
	params, _ := EncodeParams(RebalanceTypePricePercentage, decs(500, 1000))
	raw := RebalanceRaw{Params: params}
	codec, _ := dex.CodecFor(dex.DexOrca)
	ctx := DisplayContext{
		Kind:      RebalanceTypePricePercentage,
		Converter: codec,
		Pool:      PoolContext{Price: decimal.NewFromInt(100), DecimalsA: 6, DecimalsB: 6, Spacing: 64},
	}

	before, err := FieldInfos(raw, ctx)
	if err != nil {
		t.Fatal(err)
	}
	labels := make([]string, len(before))
	for i, f := range before {
		labels[i] = f.Label
	}
	want := []string{LabelRebalanceType, FieldLowerRangeBps, FieldUpperRangeBps, LabelReferencePriceType, LabelRangePriceLower, LabelRangePriceUpper}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels = %v, want %v", labels, want)
		}
	}
	if v := before[4].Value.(decimal.Decimal); !v.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("lower price = %s", v)
	}
	if v := before[5].Value.(decimal.Decimal); !v.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("upper price = %s", v)
	}

	edited, err := WithParams(raw, RebalanceTypePricePercentage, decs(250, 1000))
	if err != nil {
		t.Fatal(err)
	}
	after, err := FieldInfos(edited, ctx)
	if err != nil {
		t.Fatal(err)
	}
	changes := DiffFieldInfos(before, after)
	if len(changes) != 2 || changes[0].Label != FieldLowerRangeBps || changes[1].Label != LabelRangePriceLower {
		t.Fatalf("changes = %+v", changes)
	}
}
