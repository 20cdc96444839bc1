package rebalance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Field struct {
	Name  string
	Value decimal.Decimal
}

// Fields is an ordered name/value dictionary decoded from a params or state buffer.
type Fields []Field

func (f Fields) Get(name string) (decimal.Decimal, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return decimal.Zero, false
}

// Require fails with ErrMissingField instead of returning a zero value.
func (f Fields) Require(name string) (decimal.Decimal, error) {
	v, ok := f.Get(name)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return v, nil
}

func (f Fields) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(f))
	for i, field := range f {
		out[i] = field.Value
	}
	return out
}

func (f Fields) Names() []string {
	out := make([]string, len(f))
	for i, field := range f {
		out[i] = field.Name
	}
	return out
}
