package tradebook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/tradebook/date"
)

// ValidationError reports a single record rejected before it reaches the
// engine. The rest of the collection is processed normally.
type ValidationError struct {
	Record int    // index in the input collection, line number when decoding, -1 if unknown
	Field  string // offending field
	Value  string // offending value, as read
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Record >= 0 {
		fmt.Fprintf(&b, "record %d: ", e.Record)
	}
	fmt.Fprintf(&b, "invalid %s", e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// DataIntegrityWarning reports a loaded record set lacking required fields.
// It is never fatal: the caller substitutes an empty set (or skips the line).
type DataIntegrityWarning struct {
	Source  string
	Missing []string
}

func (w *DataIntegrityWarning) Error() string {
	return fmt.Sprintf("%s: missing required fields %s", w.Source, strings.Join(w.Missing, ", "))
}

// UnmatchedSellError reports the part of a sell that found no open lot to
// match against. That quantity is dropped from the matching.
type UnmatchedSellError struct {
	Instrument string
	Date       date.Date
	Quantity   float64
}

func (e *UnmatchedSellError) Error() string {
	return fmt.Sprintf("%s: sell of %s %s exceeds open lots", e.Date, formatFloat(e.Quantity), e.Instrument)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
