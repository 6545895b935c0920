package tradebook

import (
	"slices"

	"github.com/etnz/tradebook/date"
)

// RealizedPnL is the result of matching (part of) a sell against one lot.
type RealizedPnL struct {
	Instrument string
	Date       date.Date // date of the sell
	BuyDate    date.Date // date of the matched lot
	Quantity   float64
	BuyPrice   float64
	SellPrice  float64
}

// Value returns the profit (or loss when negative) of the match.
func (e RealizedPnL) Value() float64 { return (e.SellPrice - e.BuyPrice) * e.Quantity }

// Holding is the open position of an instrument.
type Holding struct {
	Quantity    float64
	AverageCost float64 // weighted average price of the open lots, 0 when Quantity is 0
}

// Value returns the cost value of the holding.
func (h Holding) Value() float64 { return h.Quantity * h.AverageCost }

// Position is the outcome of replaying every trade of one instrument.
type Position struct {
	Instrument string
	Realized   float64
	Events     []RealizedPnL // in occurrence order
	Holding    Holding
	// Unmatched lists sells, or parts of sells, exceeding the open lots.
	Unmatched []*UnmatchedSellError
	Trades    int
	From, To  date.Date // first and last trade date
	// Cumulative holds, for each trade day, the realized P&L after the last
	// trade of that day.
	Cumulative *date.History[float64]
}

// Replay runs the FIFO matching over the trades of instrument.
//
// Trades of other instruments and invalid trades are ignored. Trades are
// replayed by ascending date; trades on the same date keep their order in
// trades. The input slice is never modified.
func Replay(instrument string, trades []Trade) *Position {
	return replay(instrument, chronological(instrument, trades))
}

// chronological returns the valid trades of instrument, stable sorted by date.
func chronological(instrument string, trades []Trade) []Trade {
	sorted := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Instrument == instrument && t.Validate() == nil {
			sorted = append(sorted, t)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Trade) int { return a.Date.Compare(b.Date) })
	return sorted
}

func replay(instrument string, sorted []Trade) *Position {
	pos := &Position{
		Instrument: instrument,
		Trades:     len(sorted),
		Cumulative: new(date.History[float64]),
	}
	if len(sorted) > 0 {
		pos.From, pos.To = sorted[0].Date, sorted[len(sorted)-1].Date
	}

	var queue lots
	for _, t := range sorted {
		switch t.Side {
		case Buy:
			queue.buy(t)
		case Sell:
			events, unmatched := queue.sell(t)
			for _, e := range events {
				pos.Realized += e.Value()
			}
			pos.Events = append(pos.Events, events...)
			if unmatched > 0 {
				pos.Unmatched = append(pos.Unmatched, &UnmatchedSellError{
					Instrument: instrument,
					Date:       t.Date,
					Quantity:   unmatched,
				})
			}
		}
		pos.Cumulative.Append(t.Date, pos.Realized)
	}
	pos.Holding = queue.holding()
	return pos
}
