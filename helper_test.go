package tradebook

import (
	"time"

	"github.com/etnz/tradebook/date"
)

// day is a helper for test to create the n-th day of January 2025.
func day(n int) date.Date { return date.New(2025, time.January, n) }

// buy is a helper for test to create a buy trade without note.
func buy(on int, instrument string, quantity, price float64) Trade {
	return NewTrade(day(on), instrument, Buy, quantity, price, "")
}

// sell is a helper for test to create a sell trade without note.
func sell(on int, instrument string, quantity, price float64) Trade {
	return NewTrade(day(on), instrument, Sell, quantity, price, "")
}
