package rebalance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	FieldTypeNumber = "number"
	FieldTypeString = "string"

	LabelRebalanceType      = "rebalanceType"
	LabelReferencePriceType = "referencePriceType"
	LabelRangePriceLower    = "rangePriceLower"
	LabelRangePriceUpper    = "rangePriceUpper"
)

// RebalanceFieldInfo is one row of an editable rebalance form. Enabled rows
// come from params and may be edited; the rest are derived or read from state.
type RebalanceFieldInfo struct {
	Label   string
	Type    string
	Value   any
	Enabled bool
}

// DisplayContext selects the variant and, when Converter is set, the pool
// used to show the implied price range.
type DisplayContext struct {
	Kind      RebalanceType
	Converter PriceConverter
	Pool      PoolContext
}

func FieldInfos(raw RebalanceRaw, ctx DisplayContext) ([]RebalanceFieldInfo, error) {
	params, err := DecodeParams(ctx.Kind, raw.Params[:])
	if err != nil {
		return nil, err
	}
	state, err := DecodeState(ctx.Kind, raw.State[:])
	if err != nil {
		return nil, err
	}
	ref, err := raw.Reference()
	if err != nil {
		return nil, err
	}

	out := make([]RebalanceFieldInfo, 0, 2+len(params)+len(state)+2)
	out = append(out, RebalanceFieldInfo{Label: LabelRebalanceType, Type: FieldTypeString, Value: ctx.Kind.String(), Enabled: true})
	for _, f := range params {
		out = append(out, RebalanceFieldInfo{Label: f.Name, Type: FieldTypeNumber, Value: f.Value, Enabled: true})
	}
	for _, f := range state {
		out = append(out, RebalanceFieldInfo{Label: f.Name, Type: FieldTypeNumber, Value: f.Value})
	}
	out = append(out, RebalanceFieldInfo{Label: LabelReferencePriceType, Type: FieldTypeString, Value: ref.String()})

	if ctx.Converter != nil {
		r, err := RangeForParams(ctx.Kind, raw, ctx.Converter, ctx.Pool)
		if err != nil {
			return nil, err
		}
		out = append(out,
			RebalanceFieldInfo{Label: LabelRangePriceLower, Type: FieldTypeNumber, Value: r.LowerPrice},
			RebalanceFieldInfo{Label: LabelRangePriceUpper, Type: FieldTypeNumber, Value: r.UpperPrice},
		)
	}
	return out, nil
}

type FieldChange struct {
	Label  string
	Before any
	After  any
}

// DiffFieldInfos lists labels whose value changed, appeared or disappeared,
// in the order they occur in after followed by removed labels.
func DiffFieldInfos(before, after []RebalanceFieldInfo) []FieldChange {
	old := make(map[string]any, len(before))
	for _, f := range before {
		old[f.Label] = f.Value
	}

	var out []FieldChange
	seen := make(map[string]bool, len(after))
	for _, f := range after {
		seen[f.Label] = true
		prev, ok := old[f.Label]
		if !ok || !sameValue(prev, f.Value) {
			out = append(out, FieldChange{Label: f.Label, Before: prev, After: f.Value})
		}
	}
	for _, f := range before {
		if !seen[f.Label] {
			out = append(out, FieldChange{Label: f.Label, Before: f.Value})
		}
	}
	return out
}

func sameValue(a, b any) bool {
	da, okA := a.(decimal.Decimal)
	db, okB := b.(decimal.Decimal)
	if okA && okB {
		return da.Equal(db)
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
