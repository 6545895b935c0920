package tradebook

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Field is a numeric field whose display precision is configurable.
type Field string

const (
	FieldQuantity    Field = "quantity"
	FieldPrice       Field = "price"
	FieldTotal       Field = "total"
	FieldPnL         Field = "pnl"
	FieldAvgBuyPrice Field = "avg_buy_price"
)

// MaxPrecision is the largest number of decimal places a field can display.
const MaxPrecision = 10

// Fields lists the configurable fields.
func Fields() []Field {
	return []Field{FieldQuantity, FieldPrice, FieldTotal, FieldPnL, FieldAvgBuyPrice}
}

// ParseField parses a field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Fields(), f) {
		return "", fmt.Errorf("unknown field %q, want one of %v", s, Fields())
	}
	return f, nil
}

// Precision maps a field to its number of displayed decimal places.
//
// It only affects how values are printed, never how they are computed.
type Precision map[Field]int

// DefaultPrecision returns the default display precision.
func DefaultPrecision() Precision {
	return Precision{
		FieldQuantity:    8,
		FieldPrice:       2,
		FieldTotal:       2,
		FieldPnL:         2,
		FieldAvgBuyPrice: 2,
	}
}

// Validate checks that every field is known and within [0, MaxPrecision].
func (p Precision) Validate() error {
	for _, f := range slices.Sorted(maps.Keys(p)) {
		if _, err := ParseField(string(f)); err != nil {
			return err
		}
		if n := p[f]; n < 0 || n > MaxPrecision {
			return &ValidationError{Record: -1, Field: string(f), Value: fmt.Sprint(n), Reason: fmt.Sprintf("precision must be between 0 and %d", MaxPrecision)}
		}
	}
	return nil
}

// Set changes the precision of f.
func (p Precision) Set(f Field, places int) error {
	q := Precision{f: places}
	if err := q.Validate(); err != nil {
		return err
	}
	p[f] = places
	return nil
}

// Places returns the precision of f, falling back to the default one.
func (p Precision) Places(f Field) int {
	if n, ok := p[f]; ok {
		return n
	}
	return DefaultPrecision()[f]
}

// Format rounds v half away from zero to the precision of f.
func (p Precision) Format(f Field, v float64) string {
	return p.Decimal(f, v).StringFixed(int32(p.Places(f)))
}

// Decimal returns v as a decimal rounded to the precision of f.
func (p Precision) Decimal(f Field, v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(int32(p.Places(f)))
}
