package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/subcommands"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
	"github.com/etnz/tradebook/renderer"
	"github.com/etnz/tradebook/server"
)

// --- Summary Command ---

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the trading performance summary" }
func (*summaryCmd) Usage() string {
	return `tb summary

  Displays the realized P&L, ROI, win rate, realized P&L by instrument and the
  current holdings with their allocation.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}
func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, r, status := loadReport(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.SummaryMarkdown(r, a.formatter()))
	return subcommands.ExitSuccess
}

// --- Holdings Command ---

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the open positions" }
func (*holdingsCmd) Usage() string {
	return `tb holdings

  Displays every instrument still held with its quantity, average buy price
  and share of the total cost value.
`
}
func (*holdingsCmd) SetFlags(*flag.FlagSet) {}
func (*holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, r, status := loadReport(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.HoldingsMarkdown(r, a.formatter()))
	return subcommands.ExitSuccess
}

// --- PnL Command ---

type pnlCmd struct {
	instrument string
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display the realized P&L of each closed lot" }
func (*pnlCmd) Usage() string {
	return `tb pnl [-i <instrument>]

  Lists the realized P&L events, one per lot matched by a sell (FIFO).
`
}
func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.instrument, "i", "", "Only show this instrument")
}
func (c *pnlCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, r, status := loadReport(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.PnLMarkdown(r, c.instrument, a.formatter()))
	return subcommands.ExitSuccess
}

// --- Series Command ---

type seriesCmd struct {
	instrument string
	volume     bool
	period     string
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "display a cumulative series, one value per day" }
func (*seriesCmd) Usage() string {
	return `tb series [-i <instrument> | -volume] [-period <period>]

  Without flag, displays the cumulative signed trade value of the book (sells
  positive, buys negative). With -i, the cumulative realized P&L of the
  instrument. With -volume, the quantity traded per trade day.

  -period groups the days: a cumulative series shows its last value of each
  period, the volume is summed.
`
}
func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.instrument, "i", "", "Instrument whose realized P&L to display")
	f.BoolVar(&c.volume, "volume", false, "Display the traded volume instead")
	f.StringVar(&c.period, "period", "daily", "Group by period: "+strings.Join(date.PeriodNames(), ", "))
}
func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.volume && c.instrument != "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, r, status := loadReport(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	format := a.formatter()
	switch {
	case c.volume:
		printMarkdown(renderer.SeriesMarkdown("Trade Volume", r.Volume.Resample(period, date.Sum[float64]), format.Quantity))
	case c.instrument != "":
		series, ok := r.Series[c.instrument]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no trade for %q, known instruments are %v\n", c.instrument, r.Instruments())
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.SeriesMarkdown("Cumulative P&L of "+c.instrument, series.Resample(period, date.Last[float64]), format.PnL))
	default:
		printMarkdown(renderer.SeriesMarkdown("Cumulative Trade Value", r.PortfolioSeries.Resample(period, date.Last[float64]), format.Total))
	}
	return subcommands.ExitSuccess
}

// --- Export Command ---

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the records or the summary" }
func (*exportCmd) Usage() string {
	return `tb export -format csv|md|html [-o <file>]

  csv exports the records with the columns Date,Ticker,Trade_Type,Quantity,
  Price,Total,Notes. md and html export the summary report. The format
  defaults to the extension of the output file. Without -o, writes to stdout.
`
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Export format: csv, md or html")
	f.StringVar(&c.output, "o", "", "Output file")
}
func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format := strings.ToLower(c.format)
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(c.output), ".")
	}
	if format != "csv" && format != "md" && format != "html" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	book, err := a.loadBook(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	var w io.Writer = stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	if err := export(w, format, a, book); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting %s: %v\n", format, err)
		return subcommands.ExitFailure
	}
	if c.output != "" {
		fmt.Fprintf(os.Stderr, "Exported %s to %s\n", format, c.output)
	}
	return subcommands.ExitSuccess
}

func export(w io.Writer, format string, a *app, book *tradebook.Book) error {
	if format == "csv" {
		return tradebook.ExportCSV(w, book.Trades())
	}
	md := renderer.SummaryMarkdown(a.analyze(book), a.formatter())
	if format == "md" {
		_, err := io.WriteString(w, md)
		return err
	}
	page, err := renderer.HTML("Trading Summary", md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page)
	return err
}

// --- Serve Command ---

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the reports over HTTP" }
func (*serveCmd) Usage() string {
	return `tb serve [-addr <host:port>]

  Serves a read only JSON API (/api/trades, /api/summary, /api/holdings,
  /api/pnl, /api/series, /api/series/{instrument}) and Prometheus metrics
  (/metrics). Every request reads the book again.
`
}
func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, defaults to server.addr of the config")
}
func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.log.Sync()

	addr := c.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(bookLoader{a}, a.options(), a.log)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error serving on %s: %v\n", addr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// bookLoader opens the configured store on every request.
type bookLoader struct{ a *app }

func (l bookLoader) Load(ctx context.Context) (*tradebook.Book, error) { return l.a.loadBook(ctx) }
