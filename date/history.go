package date

import (
	"encoding/json"
	"iter"
	"slices"
)

type point[T any] struct {
	Date  Date `json:"date"`
	Value T    `json:"value"`
}

// History is a series of values indexed by day. Days are unique and kept in
// chronological order. The zero value is an empty history.
type History[T float32 | float64 | string] struct {
	points []point[T]
}

// Len returns the number of days in the history. A nil history is empty.
func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.points)
}

func (h *History[T]) at(i int) (Date, T) {
	if i < 0 || i >= len(h.points) {
		var zero T
		return Date{}, zero
	}
	return h.points[i].Date, h.points[i].Value
}

// First returns the earliest point, or zero values when empty.
func (h *History[T]) First() (Date, T) { return h.at(0) }

// Latest returns the most recent point, or zero values when empty.
func (h *History[T]) Latest() (Date, T) { return h.at(len(h.points) - 1) }

// Range spans the first to the latest day.
func (h *History[T]) Range() Range {
	from, _ := h.First()
	to, _ := h.Latest()
	return Range{From: from, To: to}
}

func (h *History[T]) find(on Date) (int, bool) {
	return slices.BinarySearchFunc(h.points, on, func(p point[T], on Date) int { return p.Date.Compare(on) })
}

// set stores v on day on. merge decides the value when the day already exists.
func (h *History[T]) set(on Date, v T, merge func(old, v T) T) *History[T] {
	i, ok := h.find(on)
	if ok {
		h.points[i].Value = merge(h.points[i].Value, v)
		return h
	}
	h.points = slices.Insert(h.points, i, point[T]{on, v})
	return h
}

// Append records v on day on, replacing any value already there.
func (h *History[T]) Append(on Date, v T) *History[T] {
	return h.set(on, v, func(_, v T) T { return v })
}

// AppendAdd adds v to the value of day on.
func (h *History[T]) AppendAdd(on Date, v T) *History[T] {
	return h.set(on, v, func(old, v T) T { return old + v })
}

// Get returns the value recorded on day on.
func (h *History[T]) Get(on Date) (T, bool) {
	if i, ok := h.find(on); ok {
		return h.points[i].Value, true
	}
	var zero T
	return zero, false
}

// Values iterates over the points in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for _, p := range h.points {
			if !yield(p.Date, p.Value) {
				return
			}
		}
	}
}

// ForwardFill returns a copy with a point on every calendar day between the
// first and the latest day. A missing day carries the previous value.
func (h *History[T]) ForwardFill() *History[T] {
	out := new(History[T])
	if h.Len() == 0 {
		return out
	}
	r := h.Range()
	out.points = make([]point[T], 0, r.Len())
	next := 0
	var carry T
	for on := range r.Days() {
		if next < len(h.points) && h.points[next].Date == on {
			carry = h.points[next].Value
			next++
		}
		out.points = append(out.points, point[T]{on, carry})
	}
	return out
}

// Cumulative returns the running sum of h.
func (h *History[T]) Cumulative() *History[T] {
	out := &History[T]{points: slices.Clone(h.points)}
	var sum T
	for i := range out.points {
		sum += out.points[i].Value
		out.points[i].Value = sum
	}
	return out
}

// Equal reports whether h and o hold the same points. A nil history equals
// an empty one.
func (h *History[T]) Equal(o *History[T]) bool {
	if h.Len() != o.Len() {
		return false
	}
	return h.Len() == 0 || slices.Equal(h.points, o.points)
}

// Resample groups the points by period. Each group is stored on the first
// day of its period and its value is the fold of the group with merge, in
// chronological order.
func (h *History[T]) Resample(p Period, merge func(acc, v T) T) *History[T] {
	out := new(History[T])
	if h.Len() == 0 {
		return out
	}
	for _, pt := range h.points {
		start := pt.Date.StartOf(p)
		if n := len(out.points); n > 0 && out.points[n-1].Date == start {
			out.points[n-1].Value = merge(out.points[n-1].Value, pt.Value)
			continue
		}
		out.points = append(out.points, point[T]{start, pt.Value})
	}
	return out
}

// Last is a Resample merge keeping the latest value of the period.
func Last[T any](_, v T) T { return v }

// Sum is a Resample merge adding the values of the period.
func Sum[T float32 | float64](acc, v T) T { return acc + v }

// MarshalJSON encodes the history as a list of {"date", "value"} objects.
func (h *History[T]) MarshalJSON() ([]byte, error) {
	if h.points == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.points)
}

func (h *History[T]) UnmarshalJSON(data []byte) error {
	var points []point[T]
	if err := json.Unmarshal(data, &points); err != nil {
		return err
	}
	h.points = nil
	for _, p := range points {
		h.Append(p.Date, p.Value)
	}
	return nil
}
