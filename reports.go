package tradebook

import (
	"errors"
	"maps"
	"slices"

	"github.com/etnz/tradebook/date"
)

// Report gathers everything derived from one snapshot of the book.
type Report struct {
	Positions map[string]*Position
	// Realized is the realized P&L by instrument, closed positions included.
	Realized map[string]float64
	// Holdings only lists instruments with an open quantity.
	Holdings map[string]Holding
	Metrics  Metrics
	// Series is the cumulative realized P&L of each instrument, one point per
	// calendar day from its first to its last trade.
	Series map[string]*date.History[float64]
	// PortfolioSeries is the cumulative signed trade value (sells positive,
	// buys negative) of the whole book, one point per calendar day.
	PortfolioSeries *date.History[float64]
	// Volume is the quantity traded on each trade day.
	Volume    *date.History[float64]
	Rejected  []*ValidationError
	Unmatched []*UnmatchedSellError
}

// Metrics summarizes the performance of the book.
type Metrics struct {
	TotalRealized   float64
	TotalROI        Percent // (sells - buys) / buys
	WinRate         Percent // wins / (wins + losses)
	AvgProfitPerWin float64
	AvgLossPerLoss  float64 // absolute value
	Wins, Losses    int
	TotalBuyValue   float64
	TotalSellValue  float64
}

// metrics accumulates the Metrics of a book.
type metrics struct {
	buys, sells      float64
	total            float64
	wins, losses     int
	profits, deficit float64
}

func (m *metrics) trade(t Trade) {
	switch t.Side {
	case Buy:
		m.buys += t.Total()
	case Sell:
		m.sells += t.Total()
	}
}

// realized accounts for the realized P&L of one instrument. An instrument with
// exactly zero realized P&L is neither a win nor a loss.
func (m *metrics) realized(pnl float64) {
	m.total += pnl
	switch {
	case pnl > 0:
		m.wins++
		m.profits += pnl
	case pnl < 0:
		m.losses++
		m.deficit -= pnl
	}
}

func (m *metrics) result() Metrics {
	res := Metrics{
		TotalRealized:  m.total,
		TotalROI:       percent(m.sells-m.buys, m.buys),
		WinRate:        percent(float64(m.wins), float64(m.wins+m.losses)),
		Wins:           m.wins,
		Losses:         m.losses,
		TotalBuyValue:  m.buys,
		TotalSellValue: m.sells,
	}
	if m.wins > 0 {
		res.AvgProfitPerWin = m.profits / float64(m.wins)
	}
	if m.losses > 0 {
		res.AvgLossPerLoss = m.deficit / float64(m.losses)
	}
	return res
}

// Instruments returns the sorted list of analyzed instruments.
func (r *Report) Instruments() []string {
	return slices.Sorted(maps.Keys(r.Positions))
}

// HoldingInstruments returns the sorted list of instruments still held.
func (r *Report) HoldingInstruments() []string {
	return slices.Sorted(maps.Keys(r.Holdings))
}

// Events returns every realized P&L event of the book, by date then instrument.
func (r *Report) Events() []RealizedPnL {
	var events []RealizedPnL
	for _, instrument := range r.Instruments() {
		events = append(events, r.Positions[instrument].Events...)
	}
	slices.SortStableFunc(events, func(a, b RealizedPnL) int { return a.Date.Compare(b.Date) })
	return events
}

// Allocation is the share of one holding in the total cost value of the holdings.
type Allocation struct {
	Instrument string
	Value      float64 // quantity * average cost
	Share      Percent
}

// Allocation returns the allocation of the holdings, by instrument.
func (r *Report) Allocation() []Allocation {
	var total float64
	instruments := r.HoldingInstruments()
	for _, instrument := range instruments {
		total += r.Holdings[instrument].Value()
	}
	list := make([]Allocation, 0, len(instruments))
	for _, instrument := range instruments {
		v := r.Holdings[instrument].Value()
		list = append(list, Allocation{Instrument: instrument, Value: v, Share: percent(v, total)})
	}
	return list
}

// Err returns the rejected records and unmatched sells joined in a single
// error, or nil. None of them prevented the analysis.
func (r *Report) Err() error {
	var errs []error
	for _, e := range r.Rejected {
		errs = append(errs, e)
	}
	for _, e := range r.Unmatched {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}
