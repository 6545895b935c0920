// Package server exposes the reports of a trade book over a read-only JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/tradebook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Loader loads the current content of the book. tradebook.Store implements it.
type Loader interface {
	Load(ctx context.Context) (*tradebook.Book, error)
}

// Server answers every request from a fresh analysis of the book.
type Server struct {
	loader Loader
	opts   tradebook.Options
	log    *zap.Logger
}

// New creates a Server. A nil logger discards the logs.
func New(loader Loader, opts tradebook.Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{loader: loader, opts: opts, log: log}
}

// Routes returns the HTTP router of the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/trades", s.Trades)
		r.Get("/summary", s.Summary)
		r.Get("/holdings", s.Holdings)
		r.Get("/pnl", s.PnL)
		r.Get("/series", s.PortfolioSeries)
		r.Get("/series/{instrument}", s.InstrumentSeries)
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("Starting web server", zap.String("address", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("Shutting down web server")
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// load reads the book. On error it answers 500 and returns nil.
func (s *Server) load(w http.ResponseWriter, r *http.Request) *tradebook.Book {
	book, err := s.loader.Load(r.Context())
	if err != nil {
		s.log.Error("Failed to load the book", zap.Error(err))
		writeError(w, "failed to load the book", http.StatusInternalServerError)
		return nil
	}
	return book
}

// analyze loads and analyzes the book. On error it answers 500 and returns nil.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) *tradebook.Report {
	book := s.load(w, r)
	if book == nil {
		return nil
	}

	start := time.Now()
	report := tradebook.Analyze(book.Snapshot(), s.opts)
	AnalysisDuration.Observe(time.Since(start).Seconds())
	AnalysesTotal.Inc()
	RejectedRecords.Set(float64(len(report.Rejected)))

	for _, e := range report.Rejected {
		s.log.Warn("Invalid record ignored", zap.Int("record", e.Record), zap.String("field", e.Field), zap.String("reason", e.Reason))
	}
	for _, e := range report.Unmatched {
		s.log.Warn("Sell exceeds open lots", zap.String("instrument", e.Instrument), zap.Stringer("date", e.Date), zap.Float64("quantity", e.Quantity))
	}
	return report
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
