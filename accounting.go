package tradebook

import (
	"fmt"
	"strings"

	"github.com/etnz/tradebook/date"
)

// OversellPolicy decides what happens to sell quantities exceeding the open lots.
type OversellPolicy int

const (
	// OversellDrop silently drops the excess quantity.
	OversellDrop OversellPolicy = iota
	// OversellReport drops the excess quantity and lists it in Report.Unmatched.
	OversellReport
)

func (p OversellPolicy) String() string {
	switch p {
	case OversellDrop:
		return "drop"
	case OversellReport:
		return "report"
	default:
		return "unknown"
	}
}

// ParseOversellPolicy parses "drop" or "report".
func ParseOversellPolicy(s string) (OversellPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop", "":
		return OversellDrop, nil
	case "report":
		return OversellReport, nil
	default:
		return OversellDrop, fmt.Errorf("unknown oversell policy: %q", s)
	}
}

// Options tune the analysis. The zero value is the default behaviour.
type Options struct {
	Oversell OversellPolicy
}

// Analyze computes every report derived from trades.
//
// It is a pure function of its input: invalid trades are rejected and listed
// in the report, the others are grouped by instrument, replayed and combined.
// Analyze never fails and never modifies trades.
func Analyze(trades []Trade, opts Options) *Report {
	valid, rejected := Validate(trades)

	r := &Report{
		Positions: make(map[string]*Position),
		Realized:  make(map[string]float64),
		Holdings:  make(map[string]Holding),
		Series:    make(map[string]*date.History[float64]),
		Volume:    new(date.History[float64]),
		Rejected:  rejected,
	}

	// Instruments are visited in sorted order, and their trades in replay
	// order, so that every float sum is independent of the input order.
	var m metrics
	flows := new(date.History[float64])
	for _, instrument := range instruments(valid) {
		sorted := chronological(instrument, valid)
		for _, t := range sorted {
			flows.AppendAdd(t.Date, t.Side.sign()*t.Total())
			r.Volume.AppendAdd(t.Date, t.Quantity)
			m.trade(t)
		}

		pos := replay(instrument, sorted)
		r.Positions[instrument] = pos
		r.Realized[instrument] = pos.Realized
		r.Series[instrument] = pos.Cumulative.ForwardFill()
		if pos.Holding.Quantity > 0 {
			r.Holdings[instrument] = pos.Holding
		}
		if opts.Oversell == OversellReport {
			r.Unmatched = append(r.Unmatched, pos.Unmatched...)
		}
		m.realized(pos.Realized)
	}
	r.PortfolioSeries = flows.Cumulative().ForwardFill()
	r.Metrics = m.result()
	return r
}
