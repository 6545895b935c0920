package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
)

func day(n int) date.Date { return date.New(2025, time.January, n) }

// sampleReport analyzes a BTC partial close and an ETH oversell.
func sampleReport() *tradebook.Report {
	trades := []tradebook.Trade{
		tradebook.NewTrade(day(1), "BTC", tradebook.Buy, 1, 100, ""),
		tradebook.NewTrade(day(2), "BTC", tradebook.Buy, 1, 200, ""),
		tradebook.NewTrade(day(3), "BTC", tradebook.Sell, 1.5, 300, "take profit"),
		tradebook.NewTrade(day(4), "ETH", tradebook.Buy, 2, 50, ""),
		tradebook.NewTrade(day(5), "ETH", tradebook.Sell, 3, 60, ""),
	}
	return tradebook.Analyze(trades, tradebook.Options{Oversell: tradebook.OversellReport})
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output does not contain %q:\n%s", w, got)
		}
	}
}

func TestFormatter(t *testing.T) {
	usd := NewFormatter(nil, "USD")
	plain := NewFormatter(nil, "")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"usd pnl", usd.PnL(250), "$250.00"},
		{"usd thousands", usd.Price(1234.5), "$1,234.50"},
		{"usd negative", usd.PnL(-12.345), "-$12.35"},
		{"usd signed positive", usd.SignedPnL(250), "+$250.00"},
		{"usd signed zero", usd.SignedPnL(0.001), "-"},
		{"plain quantity", plain.Quantity(0.5), "0.50000000"},
		{"plain total", plain.Total(2.005), "2.01"},
		{"unknown currency", NewFormatter(nil, "XYZ").Price(3), "3.00"},
		{"custom precision", NewFormatter(tradebook.Precision{tradebook.FieldQuantity: 0}, "").Quantity(2.5), "3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}

func TestSummaryMarkdown(t *testing.T) {
	got := SummaryMarkdown(sampleReport(), NewFormatter(nil, "USD"))
	assertContains(t, got,
		"# Trading Summary",
		"+$270.00", // 250 on BTC and 20 on ETH
		"## Realized P&L by Instrument",
		"+$250.00",
		"## Holdings",
		"0.50000000",
		"$200.00",
		"100.00%",
		"## Data Issues",
		"unmatched: 2025-01-05: sell of 1 ETH exceeds open lots",
	)
}

func TestSummaryMarkdownClean(t *testing.T) {
	trades := []tradebook.Trade{
		tradebook.NewTrade(day(1), "AAPL", tradebook.Buy, 1, 10, ""),
		tradebook.NewTrade(day(2), "AAPL", tradebook.Sell, 1, 15, ""),
	}
	got := SummaryMarkdown(tradebook.Analyze(trades, tradebook.Options{}), NewFormatter(nil, ""))
	if strings.Contains(got, "Data Issues") {
		t.Errorf("clean book should not have a data issues section:\n%s", got)
	}
	if strings.Contains(got, "## Holdings") {
		t.Errorf("closed book should not have a holdings section:\n%s", got)
	}
	assertContains(t, got, "+5.00", "100.00% (1/1)")
}

func TestHoldingsMarkdown(t *testing.T) {
	got := HoldingsMarkdown(sampleReport(), NewFormatter(nil, ""))
	assertContains(t, got, "# Holdings", "BTC", "0.50000000", "200.00", "100.00")
	if strings.Contains(got, "ETH") {
		t.Errorf("ETH is closed and should not be listed:\n%s", got)
	}

	empty := HoldingsMarkdown(tradebook.Analyze(nil, tradebook.Options{}), NewFormatter(nil, ""))
	assertContains(t, empty, "No open position.")
}

func TestPnLMarkdown(t *testing.T) {
	r := sampleReport()
	f := NewFormatter(nil, "")

	all := PnLMarkdown(r, "", f)
	assertContains(t, all,
		"# Realized P&L\n",
		"| 2025-01-03 | BTC | 2025-01-01 | 1.00000000 | 100.00 | 300.00 | +200.00 |",
		"| 2025-01-03 | BTC | 2025-01-02 | 0.50000000 | 200.00 | 300.00 | +50.00 |",
		"| 2025-01-05 | ETH | 2025-01-04 | 2.00000000 | 50.00 | 60.00 | +20.00 |",
		"| **Total** | | | | | | **+270.00** |",
	)

	eth := PnLMarkdown(r, "ETH", f)
	if strings.Contains(eth, "BTC") {
		t.Errorf("ETH report lists BTC events:\n%s", eth)
	}
	assertContains(t, eth, "# Realized P&L of ETH", "**+20.00**")

	assertContains(t, PnLMarkdown(r, "DOGE", f), "No trade for DOGE.")
}

func TestSeriesMarkdown(t *testing.T) {
	r := sampleReport()
	got := SeriesMarkdown("BTC", r.Series["BTC"], NewFormatter(nil, "").PnL)
	assertContains(t, got, "# BTC", "2025-01-01..2025-01-03", "2025-01-02", "250.00")

	empty := SeriesMarkdown("none", new(date.History[float64]), NewFormatter(nil, "").PnL)
	assertContains(t, empty, "No data.")
}

func TestRecordsMarkdown(t *testing.T) {
	trades := []tradebook.Trade{
		tradebook.NewTrade(day(1), "BTC", tradebook.Buy, 1, 100, "first"),
		tradebook.NewTrade(day(3), "BTC", tradebook.Sell, 1.5, 300, "take profit"),
	}
	got := RecordsMarkdown(tradebook.Rows(trades), NewFormatter(nil, ""))
	assertContains(t, got, "# Records", "Buy", "Sell", "take profit", "450.00", "2 record(s).")

	assertContains(t, RecordsMarkdown(nil, NewFormatter(nil, "")), "No record.")
}

func TestIssuesMarkdown(t *testing.T) {
	var b strings.Builder
	IssuesMarkdown(&b, tradebook.Analyze(nil, tradebook.Options{}))
	if b.Len() != 0 {
		t.Errorf("IssuesMarkdown() on a clean report = %q, want nothing", b.String())
	}

	trades := []tradebook.Trade{tradebook.NewTrade(day(1), "BTC", tradebook.Buy, -1, 100, "")}
	IssuesMarkdown(&b, tradebook.Analyze(trades, tradebook.Options{}))
	assertContains(t, b.String(), "## Data Issues", "rejected: record 0: invalid quantity")
}

func TestHTML(t *testing.T) {
	got, err := HTML("Summary <2025>", "# Title\n\n| a | b |\n|:---|---:|\n| x | y |\n")
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	assertContains(t, got, "<title>Summary &lt;2025&gt;</title>", "<h1>Title</h1>", "<table>", "x</td>", "</html>")
}
