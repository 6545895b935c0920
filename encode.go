package tradebook

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/tradebook/date"
)

// jsonTrade is a trade as read from a book file, before any validation.
//
// Pointers tell a missing field from a zero one.
type jsonTrade struct {
	Date       *string  `json:"date"`
	Instrument *string  `json:"instrument"`
	Side       *string  `json:"side"`
	Quantity   *float64 `json:"quantity"`
	Price      *float64 `json:"price"`
	Note       string   `json:"note"`
}

// missing returns the required fields absent from the line.
func (j jsonTrade) missing() []string {
	var m []string
	if j.Date == nil {
		m = append(m, "date")
	}
	if j.Instrument == nil {
		m = append(m, "instrument")
	}
	if j.Side == nil {
		m = append(m, "side")
	}
	if j.Quantity == nil {
		m = append(m, "quantity")
	}
	if j.Price == nil {
		m = append(m, "price")
	}
	return m
}

// trade converts j into a validated Trade. line is used in errors.
func (j jsonTrade) trade(line int) (Trade, error) {
	if m := j.missing(); len(m) > 0 {
		return Trade{}, &DataIntegrityWarning{Source: fmt.Sprintf("line %d", line), Missing: m}
	}
	on, err := date.Parse(*j.Date)
	if err != nil {
		return Trade{}, &ValidationError{Record: line, Field: "date", Value: *j.Date, Reason: "not a date"}
	}
	side, err := ParseSide(*j.Side)
	if err != nil {
		return Trade{}, atRecord(err, line)
	}
	t := NewTrade(on, strings.TrimSpace(*j.Instrument), side, *j.Quantity, *j.Price, j.Note)
	if err := t.Validate(); err != nil {
		return Trade{}, atRecord(err, line)
	}
	return t, nil
}

// DecodeBook reads a book from a stream of JSONL data, one trade per line.
//
// Lines that cannot be read into a valid trade are skipped; each one yields
// an entry in skipped (a *ValidationError, a *DataIntegrityWarning, or a JSON
// syntax error). A stored total is ignored. err is only set when r itself
// fails.
func DecodeBook(r io.Reader) (book *Book, skipped []error, err error) {
	book = NewBook()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var j jsonTrade
		if err := json.Unmarshal(lineBytes, &j); err != nil {
			skipped = append(skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		t, err := j.trade(line)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		book.trades = append(book.trades, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("error reading from input: %w", err)
	}
	return book, skipped, nil
}

// EncodeBook writes the book as JSONL, one trade per line, in book order.
func EncodeBook(w io.Writer, book *Book) error {
	bw := bufio.NewWriter(w)
	for i, t := range book.trades {
		line, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("could not encode record %d: %w", i, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Canonical returns a copy of the book sorted by date, same day trades in
// book order. It is the layout written by "tb fmt".
func Canonical(book *Book) *Book {
	trades := book.Trades()
	slices.SortStableFunc(trades, func(a, b Trade) int { return a.Date.Compare(b.Date) })
	return &Book{trades: trades}
}
