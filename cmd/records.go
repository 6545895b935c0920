package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
	"github.com/etnz/tradebook/renderer"
)

// exitStatus prints err and maps invalid input to a usage error.
func exitStatus(action string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", action, err)
	var verr *tradebook.ValidationError
	if errors.As(err, &verr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// change opens the app and applies a recorded change to the book. It refuses
// to touch a book with unreadable records.
func change(ctx context.Context, action string, fn func(*tradebook.Book) error) subcommands.ExitStatus {
	return applyChange(ctx, action, false, fn)
}

func applyChange(ctx context.Context, action string, drop bool, fn func(*tradebook.Book) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.mutate(ctx, drop, fn); err != nil {
		return exitStatus(action, err)
	}
	if drop && len(a.skipped) > 0 {
		fmt.Fprintf(os.Stderr, "Dropped %d unreadable record(s).\n", len(a.skipped))
	}
	return subcommands.ExitSuccess
}

// --- Add Command ---

type addCmd struct {
	date       string
	instrument string
	side       string
	quantity   float64
	price      float64
	note       string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a buy or a sell" }
func (*addCmd) Usage() string {
	return `tb add -d <date> -i <instrument> -side buy|sell -q <quantity> -p <price> [-n <note>]

  Appends a trade to the book. The total is always quantity times price.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trade date (YYYY-MM-DD)")
	f.StringVar(&c.instrument, "i", "", "Instrument ticker")
	f.StringVar(&c.side, "side", "", "Trade side: buy or sell")
	f.Float64Var(&c.quantity, "q", 0, "Quantity traded")
	f.Float64Var(&c.price, "p", 0, "Price per unit")
	f.StringVar(&c.note, "n", "", "An optional note")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	side, err := tradebook.ParseSide(c.side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing side: %v\n", err)
		return subcommands.ExitUsageError
	}
	t := tradebook.NewTrade(on, c.instrument, side, c.quantity, c.price, c.note)
	if status := change(ctx, "adding trade", func(b *tradebook.Book) error { return b.Add(t) }); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(os.Stderr, "Added %s\n", t)
	return subcommands.ExitSuccess
}

// --- Edit Command ---

type editCmd struct {
	index int
	addCmd
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change fields of a recorded trade" }
func (*editCmd) Usage() string {
	return `tb edit -r <index> [-d <date>] [-i <instrument>] [-side buy|sell] [-q <quantity>] [-p <price>] [-n <note>]

  Replaces the given fields of the trade at index (see "tb records"). The
  total is recomputed.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "r", -1, "Index of the record to edit")
	c.addCmd.SetFlags(f)
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.index < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	var edited tradebook.Trade
	status := change(ctx, "editing trade", func(b *tradebook.Book) error {
		t, err := b.Trade(c.index)
		if err != nil {
			return err
		}
		if set["d"] {
			if t.Date, err = date.Parse(c.date); err != nil {
				return &tradebook.ValidationError{Record: c.index, Field: "date", Value: c.date, Reason: err.Error()}
			}
		}
		if set["i"] {
			t.Instrument = c.instrument
		}
		if set["side"] {
			if t.Side, err = tradebook.ParseSide(c.side); err != nil {
				return err
			}
		}
		if set["q"] {
			t.Quantity = c.quantity
		}
		if set["p"] {
			t.Price = c.price
		}
		if set["n"] {
			t.Note = c.note
		}
		edited = t
		return b.Edit(c.index, t)
	})
	if status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(os.Stderr, "Record %d is now %s\n", c.index, edited)
	return subcommands.ExitSuccess
}

// --- Delete Command ---

type deleteCmd struct {
	index int
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove a recorded trade" }
func (*deleteCmd) Usage() string {
	return `tb delete -r <index>

  Removes the trade at index (see "tb records"). Following records are
  renumbered.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "r", -1, "Index of the record to delete")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.index < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if status := change(ctx, "deleting trade", func(b *tradebook.Book) error { return b.Delete(c.index) }); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(os.Stderr, "Deleted record %d\n", c.index)
	return subcommands.ExitSuccess
}

// --- Records Command ---

type recordsCmd struct {
	search     string
	side       string
	instrument string
	sort       string
	desc       bool
	query      string
	json       bool
}

func (*recordsCmd) Name() string     { return "records" }
func (*recordsCmd) Synopsis() string { return "browse the recorded trades" }
func (*recordsCmd) Usage() string {
	return `tb records [-search <text>] [-side buy|sell] [-i <instrument>] [-sort <column>] [-desc] [-query <jsonpath>] [-json]

  Lists the trades with their index, the handle used by edit and delete.

Usage Examples:
# trades mentioning "earnings", newest first
$ tb records -search earnings -sort date -desc

# large sells
$ tb records -query '@.side == "sell" && @.total > 1000'
`
}

func (c *recordsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.search, "search", "", "Case insensitive text to look for in date, instrument, side and note")
	f.StringVar(&c.side, "side", "", "Only show buy or sell trades")
	f.StringVar(&c.instrument, "i", "", "Only show trades of this instrument")
	f.StringVar(&c.sort, "sort", "index", fmt.Sprintf("Sort column, one of %v", tradebook.SortColumns))
	f.BoolVar(&c.desc, "desc", false, "Sort in descending order")
	f.StringVar(&c.query, "query", "", "JSONPath filter over the records")
	f.BoolVar(&c.json, "json", false, "Print the records as JSON")
}

func (c *recordsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter := tradebook.Filter{Search: c.search, Instrument: c.instrument}
	if c.side != "" {
		side, err := tradebook.ParseSide(c.side)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing side: %v\n", err)
			return subcommands.ExitUsageError
		}
		filter.Side = &side
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

	rows := filter.Apply(book.Trades())
	if err := tradebook.SortRows(rows, c.sort, c.desc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if rows, err = tradebook.Query(rows, c.query); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []tradebook.Row{}
		}
		if err := enc.Encode(rows); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding records: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RecordsMarkdown(rows, a.formatter()))
	return subcommands.ExitSuccess
}

// --- Import Command ---

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append trades from a CSV file" }
func (*importCmd) Usage() string {
	return `tb import -f <file.csv>

  Appends the trades of a CSV file with the columns
  Date,Ticker,Trade_Type,Quantity,Price,Total,Notes (Total is ignored).
  Invalid rows are reported and skipped. A file missing a required column
  imports nothing.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "CSV file to import")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	trades, problems, err := tradebook.ImportCSV(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", c.file, p)
	}
	if len(trades) == 0 {
		fmt.Fprintf(os.Stderr, "No trade imported from %q\n", c.file)
		return subcommands.ExitSuccess
	}

	status := change(ctx, "importing trades", func(b *tradebook.Book) error {
		for _, t := range trades {
			if err := b.Add(t); err != nil {
				return err
			}
		}
		return nil
	})
	if status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(os.Stderr, "Imported %d trade(s) from %q\n", len(trades), c.file)
	return subcommands.ExitSuccess
}

// --- Undo and Redo Commands ---

type undoCmd struct{}

func (*undoCmd) Name() string     { return "undo" }
func (*undoCmd) Synopsis() string { return "revert the last change of the book" }
func (*undoCmd) Usage() string {
	return `tb undo

  Restores the book as it was before the last add, edit, delete, import or
  fmt. Up to undo_depth changes are kept.
`
}
func (*undoCmd) SetFlags(*flag.FlagSet) {}
func (*undoCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return travel(ctx, "undo", func(h history, current []tradebook.Trade) ([]tradebook.Trade, bool) {
		return h.Undo(current)
	})
}

type redoCmd struct{}

func (*redoCmd) Name() string     { return "redo" }
func (*redoCmd) Synopsis() string { return "reapply the last undone change" }
func (*redoCmd) Usage() string {
	return `tb redo

  Reapplies the last change reverted by "tb undo". Any new change of the
  book forgets the changes that could be redone.
`
}
func (*redoCmd) SetFlags(*flag.FlagSet) {}
func (*redoCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return travel(ctx, "redo", func(h history, current []tradebook.Trade) ([]tradebook.Trade, bool) {
		return h.Redo(current)
	})
}

// history is the part of the undo history used by travel.
type history interface {
	Undo(current []tradebook.Trade) ([]tradebook.Trade, bool)
	Redo(current []tradebook.Trade) ([]tradebook.Trade, bool)
}

// travel replaces the book by the snapshot returned by move.
func travel(ctx context.Context, action string, move func(h history, current []tradebook.Trade) ([]tradebook.Trade, bool)) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	book, err := a.loadBookForWrite(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := a.history()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	snapshot, ok := move(h, book.Snapshot())
	if !ok {
		fmt.Fprintf(os.Stderr, "Nothing to %s\n", action)
		return subcommands.ExitSuccess
	}
	book.Restore(snapshot)
	if err := a.saveBook(ctx, book); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.saveHistory(h); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving undo history: %v\n", err)
		return subcommands.ExitFailure
	}
	undos, redos := h.Len()
	fmt.Fprintf(os.Stderr, "Book has %d record(s), %d undo and %d redo available\n", book.Len(), undos, redos)
	return subcommands.ExitSuccess
}

// --- Fmt Command ---

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "formats the book into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tb fmt

  Rewrites the book sorted by date, trades of the same day keeping their
  order. Unreadable lines of a JSONL book are dropped. The change can be
  undone.
`
}
func (*fmtCmd) SetFlags(*flag.FlagSet) {}
func (*fmtCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status := applyChange(ctx, "formatting book", true, func(b *tradebook.Book) error {
		b.Restore(tradebook.Canonical(b).Trades())
		return nil
	})
	if status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintln(os.Stderr, "Book has been formatted.")
	return subcommands.ExitSuccess
}
