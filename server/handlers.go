package server

import (
	"net/http"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Trades returns the records of the book with their index.
//
// Query parameters: search, side, instrument, sort, desc and query (a JSONPath
// filter) narrow the list like the records command does.
func (s *Server) Trades(w http.ResponseWriter, r *http.Request) {
	book := s.load(w, r)
	if book == nil {
		return
	}

	q := r.URL.Query()
	filter := tradebook.Filter{Search: q.Get("search"), Instrument: q.Get("instrument")}
	if v := q.Get("side"); v != "" {
		side, err := tradebook.ParseSide(v)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Side = &side
	}
	rows := filter.Apply(book.Trades())
	if err := tradebook.SortRows(rows, q.Get("sort"), q.Get("desc") == "true"); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := tradebook.Query(rows, q.Get("query"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rows == nil {
		rows = []tradebook.Row{}
	}
	writeJSON(w, rows)
}

// MetricsResponse is the JSON view of tradebook.Metrics.
type MetricsResponse struct {
	TotalRealized   float64 `json:"total_realized"`
	TotalROI        float64 `json:"total_roi"`
	WinRate         float64 `json:"win_rate"`
	AvgProfitPerWin float64 `json:"avg_profit_per_win"`
	AvgLossPerLoss  float64 `json:"avg_loss_per_loss"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	TotalBuyValue   float64 `json:"total_buy_value"`
	TotalSellValue  float64 `json:"total_sell_value"`
}

// HoldingResponse is an open position with its allocation.
type HoldingResponse struct {
	Instrument  string  `json:"instrument"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"average_cost"`
	Value       float64 `json:"value"`
	Share       float64 `json:"share"`
}

// SummaryResponse is the answer of /api/summary.
type SummaryResponse struct {
	Metrics   MetricsResponse    `json:"metrics"`
	Realized  map[string]float64 `json:"realized"`
	Holdings  []HoldingResponse  `json:"holdings"`
	Rejected  []string           `json:"rejected,omitempty"`
	Unmatched []string           `json:"unmatched,omitempty"`
}

// Summary returns the metrics, the realized P&L by instrument and the holdings.
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	report := s.analyze(w, r)
	if report == nil {
		return
	}
	m := report.Metrics
	resp := SummaryResponse{
		Metrics: MetricsResponse{
			TotalRealized:   m.TotalRealized,
			TotalROI:        float64(m.TotalROI),
			WinRate:         float64(m.WinRate),
			AvgProfitPerWin: m.AvgProfitPerWin,
			AvgLossPerLoss:  m.AvgLossPerLoss,
			Wins:            m.Wins,
			Losses:          m.Losses,
			TotalBuyValue:   m.TotalBuyValue,
			TotalSellValue:  m.TotalSellValue,
		},
		Realized: report.Realized,
		Holdings: holdings(report),
	}
	for _, e := range report.Rejected {
		resp.Rejected = append(resp.Rejected, e.Error())
	}
	for _, e := range report.Unmatched {
		resp.Unmatched = append(resp.Unmatched, e.Error())
	}
	writeJSON(w, resp)
}

// Holdings returns the open positions.
func (s *Server) Holdings(w http.ResponseWriter, r *http.Request) {
	report := s.analyze(w, r)
	if report == nil {
		return
	}
	writeJSON(w, holdings(report))
}

func holdings(report *tradebook.Report) []HoldingResponse {
	list := []HoldingResponse{}
	for _, a := range report.Allocation() {
		h := report.Holdings[a.Instrument]
		list = append(list, HoldingResponse{
			Instrument:  a.Instrument,
			Quantity:    h.Quantity,
			AverageCost: h.AverageCost,
			Value:       a.Value,
			Share:       float64(a.Share),
		})
	}
	return list
}

// EventResponse is one realized P&L event.
type EventResponse struct {
	Date       date.Date `json:"date"`
	Instrument string    `json:"instrument"`
	BuyDate    date.Date `json:"buy_date"`
	Quantity   float64   `json:"quantity"`
	BuyPrice   float64   `json:"buy_price"`
	SellPrice  float64   `json:"sell_price"`
	PnL        float64   `json:"pnl"`
}

// PnL returns the realized P&L events, optionally for one instrument.
func (s *Server) PnL(w http.ResponseWriter, r *http.Request) {
	report := s.analyze(w, r)
	if report == nil {
		return
	}
	events := report.Events()
	if instrument := r.URL.Query().Get("instrument"); instrument != "" {
		p, ok := report.Positions[instrument]
		if !ok {
			writeError(w, "unknown instrument "+instrument, http.StatusNotFound)
			return
		}
		events = p.Events
	}
	list := make([]EventResponse, 0, len(events))
	for _, e := range events {
		list = append(list, EventResponse{
			Date:       e.Date,
			Instrument: e.Instrument,
			BuyDate:    e.BuyDate,
			Quantity:   e.Quantity,
			BuyPrice:   e.BuyPrice,
			SellPrice:  e.SellPrice,
			PnL:        e.Value(),
		})
	}
	writeJSON(w, list)
}

// period reads the ?period= parameter, daily by default.
func (s *Server) period(w http.ResponseWriter, r *http.Request) (date.Period, bool) {
	v := r.URL.Query().Get("period")
	if v == "" {
		return date.Daily, true
	}
	p, err := date.ParsePeriod(v)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return p, false
	}
	return p, true
}

// PortfolioSeries returns the cumulative signed trade value of the book, or
// the traded volume per day with ?volume=true. ?period= groups the days.
func (s *Server) PortfolioSeries(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	report := s.analyze(w, r)
	if report == nil {
		return
	}
	if r.URL.Query().Get("volume") == "true" {
		writeJSON(w, report.Volume.Resample(period, date.Sum[float64]))
		return
	}
	writeJSON(w, report.PortfolioSeries.Resample(period, date.Last[float64]))
}

// InstrumentSeries returns the cumulative realized P&L of one instrument.
func (s *Server) InstrumentSeries(w http.ResponseWriter, r *http.Request) {
	instrument := chi.URLParam(r, "instrument")
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	report := s.analyze(w, r)
	if report == nil {
		return
	}
	series, ok := report.Series[instrument]
	if !ok {
		s.log.Debug("Unknown instrument", zap.String("instrument", instrument))
		writeError(w, "unknown instrument "+instrument, http.StatusNotFound)
		return
	}
	writeJSON(w, series.Resample(period, date.Last[float64]))
}
