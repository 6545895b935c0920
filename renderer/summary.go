package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/tradebook"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the metrics, the realized P&L by instrument, the
// holdings with their allocation and the data issues of the report.
func SummaryMarkdown(r *tradebook.Report, f Formatter) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Trading Summary")

	m := r.Metrics
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{md.Bold("Total Realized P&L"), md.Bold(f.SignedPnL(m.TotalRealized))},
			{"Total ROI", m.TotalROI.SignedString()},
			{"Win Rate", fmt.Sprintf("%s (%d/%d)", m.WinRate, m.Wins, m.Wins+m.Losses)},
			{"Avg. Profit per Win", f.PnL(m.AvgProfitPerWin)},
			{"Avg. Loss per Loss", f.PnL(m.AvgLossPerLoss)},
			{"Total Bought", f.Total(m.TotalBuyValue)},
			{"Total Sold", f.Total(m.TotalSellValue)},
		},
	})

	if instruments := r.Instruments(); len(instruments) > 0 {
		doc.H2("Realized P&L by Instrument")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"Instrument", "Trades", "Realized"},
		}
		for _, instrument := range instruments {
			p := r.Positions[instrument]
			table.Rows = append(table.Rows, []string{instrument, fmt.Sprint(p.Trades), f.SignedPnL(r.Realized[instrument])})
		}
		doc.Table(table)
	}

	if len(r.Holdings) > 0 {
		doc.H2("Holdings")
		doc.Table(holdingsTable(r, f))
	}

	var issues bytes.Buffer
	IssuesMarkdown(&issues, r)
	if issues.Len() > 0 {
		doc.PlainText(issues.String())
	}

	return doc.String()
}

// HoldingsMarkdown renders the open positions only.
func HoldingsMarkdown(r *tradebook.Report, f Formatter) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Holdings")
	if len(r.Holdings) == 0 {
		doc.PlainText("No open position.")
		return doc.String()
	}
	doc.Table(holdingsTable(r, f))
	return doc.String()
}

func holdingsTable(r *tradebook.Report, f Formatter) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Instrument", "Quantity", "Avg. Buy Price", "Cost Value", "Allocation"},
	}
	var total float64
	for _, a := range r.Allocation() {
		h := r.Holdings[a.Instrument]
		total += a.Value
		table.Rows = append(table.Rows, []string{
			a.Instrument,
			f.Quantity(h.Quantity),
			f.AvgBuyPrice(h.AverageCost),
			f.Total(a.Value),
			a.Share.String(),
		})
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), "", "", md.Bold(f.Total(total)), ""})
	return table
}
