package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AnalysesTotal counts the analyses run to answer requests.
	AnalysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradebook_analyses_total",
		Help: "Total number of book analyses",
	})

	// AnalysisDuration tracks how long an analysis of the whole book takes.
	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradebook_analysis_duration_seconds",
		Help:    "Book analysis duration in seconds",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	// RejectedRecords is the number of records rejected by the last analysis.
	RejectedRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradebook_rejected_records",
		Help: "Number of invalid records in the book at the last analysis",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradebook_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})
)

// MetricsHandler returns the Prometheus metrics HTTP handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		// the route pattern keeps the label cardinality bounded.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
