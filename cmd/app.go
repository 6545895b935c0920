// Package cmd implements the tb command line application to manage a trade book.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/config"
	"github.com/etnz/tradebook/logger"
	"github.com/etnz/tradebook/renderer"
	"github.com/etnz/tradebook/sqlstore"
	"github.com/etnz/tradebook/undo"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "records")
	c.Register(&editCmd{}, "records")
	c.Register(&deleteCmd{}, "records")
	c.Register(&recordsCmd{}, "records")
	c.Register(&importCmd{}, "records")
	c.Register(&undoCmd{}, "records")
	c.Register(&redoCmd{}, "records")
	c.Register(&fmtCmd{}, "records")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&pnlCmd{}, "reports")
	c.Register(&seriesCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&serveCmd{}, "reports")

	c.Register(&settingsCmd{}, "settings")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configDir = flag.String("config", ".", "Directory holding tradebook.yaml, the book and its undo history")
var bookFile = flag.String("book", "", "Book file (or sqlite database), overrides the config")
var rawOutput = flag.Bool("raw", false, "Print plain markdown instead of rendering it for the terminal")

// stdout receives the reports.
var stdout io.Writer = os.Stdout

// app is the environment shared by the subcommands.
type app struct {
	dir string
	cfg config.Config
	log *zap.Logger
	// skipped holds the records that could not be read by the last load.
	skipped []error
}

// unreadableError refuses to rewrite a book holding records that could not be
// read, as saving would erase them.
type unreadableError struct {
	book    string
	skipped []error
}

func (e *unreadableError) Error() string {
	return fmt.Sprintf("%s has %d unreadable record(s), fix them or run 'tb fmt' to drop them: %v", e.book, len(e.skipped), errors.Join(e.skipped...))
}

// openApp loads the configuration and builds the logger.
func openApp() (*app, error) {
	cfg, err := config.Load(*configDir)
	if err != nil {
		return nil, err
	}
	if *bookFile != "" {
		cfg.Book = *bookFile
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log settings: %w", err)
	}
	return &app{dir: *configDir, cfg: cfg, log: log}, nil
}

// openStore opens the configured storage. closeStore must be called when done.
func (a *app) openStore() (store tradebook.Store, closeStore func() error, err error) {
	path := a.cfg.BookPath(a.dir)
	skip := func(err error) {
		a.log.Warn("Skipped unreadable record", zap.String("book", path), zap.Error(err))
		a.skipped = append(a.skipped, err)
	}
	switch a.cfg.Storage {
	case config.StorageSQLite:
		s, err := sqlstore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		s.OnSkip = skip
		return s, s.Close, nil
	default:
		file := &tradebook.FileStore{Path: path, OnSkip: skip}
		return file, func() error { return nil }, nil
	}
}

// loadBook reads the whole book. Unreadable records are logged and left out.
func (a *app) loadBook(ctx context.Context) (*tradebook.Book, error) {
	store, closeStore, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()
	a.skipped = nil
	book, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.log.Debug("Book loaded", zap.String("book", a.cfg.Book), zap.Int("records", book.Len()))
	return book, nil
}

// saveBook replaces the stored book.
func (a *app) saveBook(ctx context.Context, book *tradebook.Book) error {
	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.Save(ctx, book); err != nil {
		return err
	}
	a.log.Debug("Book saved", zap.String("book", a.cfg.Book), zap.Int("records", book.Len()))
	return nil
}

// history reads the undo history of the book. A missing file is an empty history.
func (a *app) history() (*undo.History[[]tradebook.Trade], error) {
	h := undo.New[[]tradebook.Trade](a.cfg.UndoDepth)
	path := a.cfg.UndoPath(a.dir)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read undo history %q: %w", path, err)
	}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("could not decode undo history %q: %w", path, err)
	}
	return h, nil
}

func (a *app) saveHistory(h *undo.History[[]tradebook.Trade]) error {
	path := a.cfg.UndoPath(a.dir)
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// loadBookForWrite reads the book that is about to be saved again. It fails
// with an *unreadableError when records could not be read, unless drop is set.
func (a *app) loadBookForWrite(ctx context.Context, drop bool) (*tradebook.Book, error) {
	book, err := a.loadBook(ctx)
	if err != nil {
		return nil, err
	}
	if len(a.skipped) > 0 && !drop {
		return nil, &unreadableError{book: a.cfg.BookPath(a.dir), skipped: a.skipped}
	}
	return book, nil
}

// mutate applies change to the book, and records the previous content in the
// undo history. Nothing is saved if change fails. Unreadable records are
// dropped only when drop is set.
func (a *app) mutate(ctx context.Context, drop bool, change func(*tradebook.Book) error) error {
	book, err := a.loadBookForWrite(ctx, drop)
	if err != nil {
		return err
	}
	h, err := a.history()
	if err != nil {
		return err
	}
	before := book.Snapshot()
	if err := change(book); err != nil {
		return err
	}
	h.Push(before)
	if err := a.saveBook(ctx, book); err != nil {
		return err
	}
	return a.saveHistory(h)
}

// options returns the analysis options of the config.
func (a *app) options() tradebook.Options {
	// the config was validated on load.
	policy, _ := a.cfg.OversellPolicy()
	return tradebook.Options{Oversell: policy}
}

func (a *app) formatter() renderer.Formatter {
	p, _ := a.cfg.PrecisionSettings()
	return renderer.NewFormatter(p, a.cfg.Currency)
}

// analyze runs the analysis and logs the data issues it found.
func (a *app) analyze(book *tradebook.Book) *tradebook.Report {
	report := tradebook.Analyze(book.Snapshot(), a.options())
	for _, e := range report.Rejected {
		a.log.Warn("Invalid record ignored", zap.Int("record", e.Record), zap.String("field", e.Field), zap.String("reason", e.Reason))
	}
	for _, e := range report.Unmatched {
		a.log.Warn("Sell exceeds open lots", zap.String("instrument", e.Instrument), zap.Stringer("date", e.Date), zap.Float64("quantity", e.Quantity))
	}
	return report
}

// loadReport loads and analyzes the book, for read only commands.
func loadReport(ctx context.Context) (*app, *tradebook.Report, subcommands.ExitStatus) {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	book, err := a.loadBook(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	return a, a.analyze(book), subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, unless -raw is set.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
