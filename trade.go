package tradebook

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/etnz/tradebook/date"
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota
	Sell
)

// ParseSide parses a side, ignoring case and surrounding spaces.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return Buy, &ValidationError{Record: -1, Field: "side", Value: s, Reason: "must be buy or sell"}
	}
}

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Label returns the capitalized name used in tables and CSV files.
func (s Side) Label() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return s.String()
	}
}

// sign is +1 for sells (cash in) and -1 for buys (cash out).
func (s Side) sign() float64 {
	if s == Sell {
		return 1
	}
	return -1
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(text []byte) error {
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Trade is a single buy or sell of an instrument.
//
// A Trade is a value: the book, the engine and the undo history all hold
// copies and never share one.
type Trade struct {
	Date       date.Date
	Instrument string // case sensitive ticker, the grouping key
	Side       Side
	Quantity   float64
	Price      float64
	Note       string
}

// NewTrade creates a new trade.
func NewTrade(on date.Date, instrument string, side Side, quantity, price float64, note string) Trade {
	return Trade{
		Date:       on,
		Instrument: instrument,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		Note:       note,
	}
}

// Total returns the value of the trade. It is always derived, never stored.
func (t Trade) Total() float64 { return t.Quantity * t.Price }

// Validate checks that the trade can be fed to the matching engine.
//
// It returns a *ValidationError describing the first invalid field.
func (t Trade) Validate() error {
	invalid := func(field, value, reason string) error {
		return &ValidationError{Record: -1, Field: field, Value: value, Reason: reason}
	}
	if t.Date.IsZero() {
		return invalid("date", "", "is missing")
	}
	if strings.TrimSpace(t.Instrument) == "" {
		return invalid("instrument", t.Instrument, "is missing")
	}
	if t.Side != Buy && t.Side != Sell {
		return invalid("side", t.Side.String(), "must be buy or sell")
	}
	if !positive(t.Quantity) {
		return invalid("quantity", formatFloat(t.Quantity), "must be a positive number")
	}
	if !positive(t.Price) {
		return invalid("price", formatFloat(t.Price), "must be a positive number")
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Date, t.Side, formatFloat(t.Quantity), t.Instrument, formatFloat(t.Price))
}

// MarshalJSON writes the fields in a fixed order, with the derived total for
// readers of the raw file.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.Date)
	w.Append("instrument", t.Instrument)
	w.Append("side", t.Side)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Append("total", t.Total())
	w.Optional("note", t.Note)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a trade, ignoring any stored total. Every field but the
// note is required.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var j jsonTrade
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if m := j.missing(); len(m) > 0 {
		return &DataIntegrityWarning{Source: "trade", Missing: m}
	}
	on, err := date.Parse(*j.Date)
	if err != nil {
		return &ValidationError{Record: -1, Field: "date", Value: *j.Date, Reason: "not a date"}
	}
	side, err := ParseSide(*j.Side)
	if err != nil {
		return err
	}
	*t = NewTrade(on, *j.Instrument, side, *j.Quantity, *j.Price, j.Note)
	return nil
}
