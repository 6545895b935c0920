package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/config"
)

// assignments collects repeated -set field=places flags.
type assignments []string

func (a *assignments) String() string     { return strings.Join(*a, ",") }
func (a *assignments) Set(v string) error { *a = append(*a, v); return nil }

type settingsCmd struct {
	precision assignments
	currency  string
	oversell  string
	undoDepth int
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "display or change the settings" }
func (*settingsCmd) Usage() string {
	return `tb settings [-set <field>=<places>]... [-currency <code>] [-oversell drop|report] [-undo-depth <n>]

  Without flag, displays the current settings. Otherwise saves the changes
  into tradebook.yaml of the config directory.

  Precision fields are quantity, price, total, pnl and avg_buy_price, with
  0 to 10 decimal places. Precision only changes how values are displayed.

Usage Examples:
$ tb settings -set quantity=4 -set pnl=0
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.precision, "set", "Display precision as field=places, can be repeated")
	f.StringVar(&c.currency, "currency", "", "Currency code used to display amounts")
	f.StringVar(&c.oversell, "oversell", "", "What to do with sells exceeding the open lots: drop or report")
	f.IntVar(&c.undoDepth, "undo-depth", 0, "Number of changes that can be undone")
}

func (c *settingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	if f.NFlag() == 0 {
		printMarkdown(settingsMarkdown(a.cfg))
		return subcommands.ExitSuccess
	}

	// -book only applies to this run, it is not saved.
	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.Precision == nil {
		cfg.Precision = make(map[string]int)
	}
	for _, assignment := range c.precision {
		field, places, err := parseAssignment(assignment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		cfg.Precision[string(field)] = places
	}
	if c.currency != "" {
		cfg.Currency = strings.ToUpper(c.currency)
	}
	if c.oversell != "" {
		cfg.Oversell = strings.ToLower(c.oversell)
	}
	if c.undoDepth != 0 {
		cfg.UndoDepth = c.undoDepth
	}
	if err := config.Save(*configDir, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(settingsMarkdown(cfg))
	return subcommands.ExitSuccess
}

// parseAssignment parses "field=places".
func parseAssignment(s string) (tradebook.Field, int, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("invalid precision %q, want field=places", s)
	}
	field, err := tradebook.ParseField(name)
	if err != nil {
		return "", 0, err
	}
	places, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", 0, fmt.Errorf("invalid precision %q: %w", s, err)
	}
	if err := (tradebook.Precision{}).Set(field, places); err != nil {
		return "", 0, err
	}
	return field, places, nil
}

func settingsMarkdown(cfg config.Config) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Settings")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"Setting", "Value"},
		Rows: [][]string{
			{"book", cfg.Book},
			{"storage", cfg.Storage},
			{"currency", cfg.Currency},
			{"oversell", cfg.Oversell},
			{"undo_depth", strconv.Itoa(cfg.UndoDepth)},
			{"server.addr", cfg.Server.Addr},
		},
	})

	doc.H2("Precision")
	p, _ := cfg.PrecisionSettings()
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Field", "Decimal Places"},
	}
	for _, f := range tradebook.Fields() {
		table.Rows = append(table.Rows, []string{string(f), strconv.Itoa(p.Places(f))})
	}
	doc.Table(table)
	return doc.String()
}
