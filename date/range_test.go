package date

import (
	"slices"
	"testing"
	"time"
)

func TestRange_Days(t *testing.T) {
	r := Range{From: New(2024, time.February, 28), To: New(2024, time.March, 1)}
	got := slices.Collect(r.Days())
	want := []Date{New(2024, time.February, 28), New(2024, time.February, 29), New(2024, time.March, 1)}
	if !slices.Equal(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestRange_Empty(t *testing.T) {
	r := Range{From: New(2025, time.March, 2), To: New(2025, time.March, 1)}
	if !r.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if n := len(slices.Collect(r.Days())); n != 0 {
		t.Errorf("Days() yielded %d days, want 0", n)
	}
}

func TestRange_Span(t *testing.T) {
	var r Range
	r = r.Span(New(2025, time.May, 10))
	r = r.Span(New(2025, time.May, 3))
	r = r.Span(New(2025, time.May, 7))
	want := Range{From: New(2025, time.May, 3), To: New(2025, time.May, 10)}
	if r != want {
		t.Errorf("Span() = %v, want %v", r, want)
	}
	if !r.Contains(New(2025, time.May, 10)) || r.Contains(New(2025, time.May, 11)) {
		t.Errorf("Contains() does not include boundaries only")
	}
}
