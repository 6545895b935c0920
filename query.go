package tradebook

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Row is a trade with its index in the book, the handle used to edit or
// delete it.
type Row struct {
	Index int
	Trade
}

// Rows returns every trade of the list as a Row.
func Rows(trades []Trade) []Row {
	rows := make([]Row, len(trades))
	for i, t := range trades {
		rows[i] = Row{Index: i, Trade: t}
	}
	return rows
}

func (r Row) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("index", r.Index)
	w.EmbedFrom(r.Trade)
	if r.Note == "" {
		// queries can always test the note.
		w.Append("note", "")
	}
	return w.MarshalJSON()
}

// Filter selects trades in the record browser. Zero fields match everything.
type Filter struct {
	// Search is a case insensitive substring of the date, instrument, side or note.
	Search     string
	Side       *Side
	Instrument string
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Trade) bool {
	if f.Side != nil && t.Side != *f.Side {
		return false
	}
	if f.Instrument != "" && t.Instrument != f.Instrument {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, hay := range []string{t.Date.String(), t.Instrument, t.Side.String(), t.Note} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// Apply returns the rows of trades matching the filter.
func (f Filter) Apply(trades []Trade) []Row {
	var rows []Row
	for _, row := range Rows(trades) {
		if f.Match(row.Trade) {
			rows = append(rows, row)
		}
	}
	return rows
}

// SortColumns lists the columns accepted by SortRows.
var SortColumns = []string{"index", "date", "instrument", "side", "quantity", "price", "total", "note"}

// SortRows sorts rows in place by column. The sort is stable in both
// directions: equal rows keep their relative order.
func SortRows(rows []Row, column string, desc bool) error {
	var less func(a, b Row) int
	switch strings.ToLower(column) {
	case "", "index":
		less = func(a, b Row) int { return cmp.Compare(a.Index, b.Index) }
	case "date":
		less = func(a, b Row) int { return a.Date.Compare(b.Date) }
	case "instrument":
		less = func(a, b Row) int { return strings.Compare(a.Instrument, b.Instrument) }
	case "side":
		less = func(a, b Row) int { return cmp.Compare(a.Side, b.Side) }
	case "quantity":
		less = func(a, b Row) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case "price":
		less = func(a, b Row) int { return cmp.Compare(a.Price, b.Price) }
	case "total":
		less = func(a, b Row) int { return cmp.Compare(a.Total(), b.Total()) }
	case "note":
		less = func(a, b Row) int { return strings.Compare(a.Note, b.Note) }
	default:
		return fmt.Errorf("unknown sort column %q, want one of %v", column, SortColumns)
	}
	if desc {
		asc := less
		less = func(a, b Row) int { return asc(b, a) }
	}
	slices.SortStableFunc(rows, less)
	return nil
}

// Query evaluates a JSONPath expression against the JSON view of rows and
// returns the matching rows.
//
// The expression is either a full path over the list, like
// `$[?(@.quantity > 1 && @.side == "sell")]`, or a bare filter condition
// like `@.instrument == "BTC"`.
func Query(rows []Row, expr string) ([]Row, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return rows, nil
	}
	if !strings.HasPrefix(expr, "$") {
		expr = "$[?(" + expr + ")]"
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var jrows any
	if err := json.Unmarshal(data, &jrows); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(expr, jrows)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}

	byIndex := make(map[int]Row, len(rows))
	for _, r := range rows {
		byIndex[r.Index] = r
	}
	// jsonpath returns either a list of matches or a single one.
	matches, ok := jval.([]any)
	if !ok {
		matches = []any{jval}
	}
	var res []Row
	for _, m := range matches {
		obj, ok := m.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("query %q must select records, got %v", expr, m)
		}
		i, _ := obj["index"].(float64)
		if r, ok := byIndex[int(i)]; ok {
			res = append(res, r)
		}
	}
	return res, nil
}
