// Package renderer turns tradebook reports into markdown documents.
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/etnz/tradebook"
)

// Formatter prints numbers with the configured precision, and monetary fields
// with the currency symbol when the currency is known.
type Formatter struct {
	Precision tradebook.Precision
	Currency  string // ISO 4217 code, may be empty
}

// NewFormatter returns a Formatter, nil precision meaning the default one.
func NewFormatter(p tradebook.Precision, currency string) Formatter {
	if p == nil {
		p = tradebook.DefaultPrecision()
	}
	return Formatter{Precision: p, Currency: currency}
}

func (f Formatter) Quantity(v float64) string { return f.Precision.Format(tradebook.FieldQuantity, v) }
func (f Formatter) Price(v float64) string    { return f.money(tradebook.FieldPrice, v) }
func (f Formatter) Total(v float64) string    { return f.money(tradebook.FieldTotal, v) }
func (f Formatter) PnL(v float64) string      { return f.money(tradebook.FieldPnL, v) }
func (f Formatter) AvgBuyPrice(v float64) string {
	return f.money(tradebook.FieldAvgBuyPrice, v)
}

// SignedPnL is like PnL but always shows the sign, and "-" for zero.
func (f Formatter) SignedPnL(v float64) string {
	d := f.Precision.Decimal(tradebook.FieldPnL, v)
	switch {
	case d.IsZero():
		return "-"
	case d.IsPositive():
		return "+" + f.PnL(v)
	default:
		return f.PnL(v)
	}
}

// money formats v rounded to the precision of field, using the currency
// layout. Unknown currencies are printed as plain numbers.
func (f Formatter) money(field tradebook.Field, v float64) string {
	cur := money.GetCurrency(f.Currency)
	if cur == nil {
		return f.Precision.Format(field, v)
	}
	places := f.Precision.Places(field)
	minor := f.Precision.Decimal(field, v).Shift(int32(places)).IntPart()
	return money.NewFormatter(places, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template).Format(minor)
}
