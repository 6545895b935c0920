package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tradebook"
)

// PnLMarkdown renders the realized P&L events, one row per matched lot.
// An empty instrument renders every instrument.
func PnLMarkdown(r *tradebook.Report, instrument string, f Formatter) string {
	var b strings.Builder

	title := "Realized P&L"
	if instrument != "" {
		title += " of " + instrument
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	events := r.Events()
	if instrument != "" {
		p, ok := r.Positions[instrument]
		if !ok {
			fmt.Fprintf(&b, "No trade for %s.\n", instrument)
			return b.String()
		}
		events = p.Events
	}
	if len(events) == 0 {
		fmt.Fprint(&b, "No closed lot.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Instrument | Bought | Quantity | Buy Price | Sell Price | P&L |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
	var total float64
	for _, e := range events {
		total += e.Value()
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			e.Date,
			e.Instrument,
			e.BuyDate,
			f.Quantity(e.Quantity),
			f.AvgBuyPrice(e.BuyPrice),
			f.Price(e.SellPrice),
			f.SignedPnL(e.Value()),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | | | | **%s** |\n", "Total", f.SignedPnL(total))
	return b.String()
}
