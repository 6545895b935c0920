package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar unit used to group days.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

var periodNames = [...]string{"daily", "weekly", "monthly", "quarterly", "yearly"}

// PeriodNames lists the canonical period names, shortest first.
func PeriodNames() []string { return periodNames[:] }

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// ParsePeriod reads a period name. Nouns are accepted too ("month").
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range periodNames {
		if s == name || s+"ly" == name || (s == "day" && name == "daily") {
			return Period(i), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q, want one of %s", s, strings.Join(periodNames[:], ", "))
}

// StartOf returns the first day of the period that contains d. Weeks start
// on Monday.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Weekly:
		return d.Add(-((int(d.Weekday()) + 6) % 7))
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, d.m-(d.m-1)%3, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	}
	return d
}

// EndOf returns the last day of the period that contains d.
func (d Date) EndOf(p Period) Date {
	switch p {
	case Weekly:
		return d.StartOf(Weekly).Add(6)
	case Monthly:
		return New(d.y, d.m+1, 0)
	case Quarterly:
		return New(d.y, d.StartOf(Quarterly).m+3, 0)
	case Yearly:
		return New(d.y, time.December, 31)
	}
	return d
}
