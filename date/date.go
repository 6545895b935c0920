// Package date provides a day-granular calendar date and date-indexed series.
package date

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// Layout is the ISO-8601 form dates are written in.
	Layout = time.DateOnly
	// lenient also reads single digit months and days.
	lenient = "2006-1-2"
)

// Day is the duration of a calendar day.
const Day = 24 * time.Hour

// Date is a calendar day, without time zone. Dates are comparable with ==.
// The zero Date means "no date".
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the date of year, month and day, normalized the way
// [time.Date] does: New(2025, 1, 32) is February 1st.
func New(year int, month time.Month, day int) Date {
	return fromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func fromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

// Today is the current day in the local time zone.
func Today() Date { return New(time.Now().Date()) }

func (d Date) Year() int { return d.y }

func (d Date) Month() time.Month { return d.m }

func (d Date) Day() int { return d.d }

func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d == Date{} }

// time is midnight UTC, so two equal dates give equal times.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Compare returns -1, 0 or +1 when d is before, on or after x.
func (d Date) Compare(x Date) int {
	if c := cmp.Compare(d.y, x.y); c != 0 {
		return c
	}
	if c := cmp.Compare(d.m, x.m); c != 0 {
		return c
	}
	return cmp.Compare(d.d, x.d)
}

func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

func (d Date) Equal(x Date) bool { return d == x }

// Add moves d by n days, backward when n is negative.
func (d Date) Add(n int) Date { return New(d.y, d.m, d.d+n) }

// DaysUntil counts the days from d to x, negative when x is earlier.
func (d Date) DaysUntil(x Date) int { return int(x.time().Sub(d.time()) / Day) }

// String formats d with Layout. The zero date is the empty string.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(Layout)
}

// Parse reads a date like "2025-07-01" or "2025-7-1". Spreadsheets often
// export timestamps, so "2025-07-01 10:00:00" and RFC 3339 are read too and
// their time of day is dropped.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{lenient, time.DateTime, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return fromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, want format %s", s, Layout)
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON reads a date string. "" is the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText lets dates be map keys and CSV fields.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(text []byte) error {
	on, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = on
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)
