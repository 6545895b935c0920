package date

import "iter"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the period of kind p that contains d.
func NewRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains reports whether date is in r, boundaries included.
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// IsEmpty reports whether the range contains no day at all.
func (r Range) IsEmpty() bool { return r.To.Before(r.From) }

// Len returns the number of calendar days in the range.
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.From.DaysUntil(r.To) + 1
}

// Days iterates over every calendar day of the range in chronological order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for on := r.From; !on.After(r.To); on = on.Add(1) {
			if !yield(on) {
				return
			}
		}
	}
}

// Span returns the smallest range containing both r and d. A zero range is
// treated as empty.
func (r Range) Span(d Date) Range {
	if r.From.IsZero() && r.To.IsZero() {
		return Range{From: d, To: d}
	}
	if d.Before(r.From) {
		r.From = d
	}
	if d.After(r.To) {
		r.To = d
	}
	return r
}

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
