package tradebook

import (
	"slices"
	"strconv"
)

// Book is the ordered collection of trades the user maintains.
//
// Order matters: trades on the same day are replayed in book order.
type Book struct {
	trades []Trade
}

// NewBook creates a book holding a copy of trades, unvalidated.
func NewBook(trades ...Trade) *Book {
	return &Book{trades: slices.Clone(trades)}
}

// Len returns the number of trades in the book.
func (b *Book) Len() int { return len(b.trades) }

// Trades returns a copy of the trades.
func (b *Book) Trades() []Trade { return slices.Clone(b.trades) }

// Snapshot returns an immutable copy of the book content. It is what the
// engine and the undo history consume.
func (b *Book) Snapshot() []Trade { return b.Trades() }

// Restore replaces the whole content of the book.
func (b *Book) Restore(snapshot []Trade) { b.trades = slices.Clone(snapshot) }

// Trade returns the trade at index i.
func (b *Book) Trade(i int) (Trade, error) {
	if err := b.checkIndex(i); err != nil {
		return Trade{}, err
	}
	return b.trades[i], nil
}

// Add validates t and appends it to the book.
func (b *Book) Add(t Trade) error {
	if err := atRecord(t.Validate(), len(b.trades)); err != nil {
		return err
	}
	b.trades = append(b.trades, t)
	return nil
}

// Edit replaces the trade at index i.
func (b *Book) Edit(i int, t Trade) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	if err := atRecord(t.Validate(), i); err != nil {
		return err
	}
	b.trades[i] = t
	return nil
}

// Delete removes the trade at index i, following trades are shifted down.
func (b *Book) Delete(i int) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	b.trades = slices.Delete(b.trades, i, i+1)
	return nil
}

// Instruments returns the sorted list of instruments in the book.
func (b *Book) Instruments() []string { return instruments(b.trades) }

func (b *Book) checkIndex(i int) error {
	if i < 0 || i >= len(b.trades) {
		return &ValidationError{Record: -1, Field: "index", Value: strconv.Itoa(i), Reason: "out of bounds"}
	}
	return nil
}

func atRecord(err error, i int) error {
	if verr, ok := err.(*ValidationError); ok {
		verr.Record = i
	}
	return err
}

func instruments(trades []Trade) []string {
	seen := make(map[string]struct{})
	var list []string
	for _, t := range trades {
		if _, ok := seen[t.Instrument]; !ok {
			seen[t.Instrument] = struct{}{}
			list = append(list, t.Instrument)
		}
	}
	slices.Sort(list)
	return list
}
