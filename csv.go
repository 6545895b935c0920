package tradebook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/etnz/tradebook/date"
)

// csvRow is a trade in the spreadsheet friendly CSV layout.
//
// Every field is read as text so that a bad cell rejects its row only.
type csvRow struct {
	Date      string `csv:"Date"`
	Ticker    string `csv:"Ticker"`
	TradeType string `csv:"Trade_Type"`
	Quantity  string `csv:"Quantity"`
	Price     string `csv:"Price"`
	Total     string `csv:"Total"`
	Notes     string `csv:"Notes"`
}

// requiredColumns must all be present in an imported CSV header.
var requiredColumns = []string{"Date", "Ticker", "Trade_Type", "Quantity", "Price"}

// ExportCSV writes trades with the header
// Date,Ticker,Trade_Type,Quantity,Price,Total,Notes.
func ExportCSV(w io.Writer, trades []Trade) error {
	rows := make([]*csvRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, &csvRow{
			Date:      t.Date.String(),
			Ticker:    t.Instrument,
			TradeType: t.Side.Label(),
			Quantity:  formatFloat(t.Quantity),
			Price:     formatFloat(t.Price),
			Total:     formatFloat(t.Total()),
			Notes:     t.Note,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("could not write csv: %w", err)
	}
	return nil
}

// ImportCSV reads trades written by ExportCSV or a spreadsheet.
//
// If the header lacks a required column, the whole file is ignored: trades is
// empty and problems holds a single *DataIntegrityWarning. Otherwise invalid
// rows are skipped with a *ValidationError in problems, numbered by the line
// their record starts on. The Total column is ignored. err is only set when the input
// cannot be read as CSV.
func ImportCSV(r io.Reader) (trades []Trade, problems []error, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, []error{&DataIntegrityWarning{Source: "csv header", Missing: requiredColumns}}, nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("could not read csv header: %w", err)
	}
	var missing []string
	for _, col := range requiredColumns {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, []error{&DataIntegrityWarning{Source: "csv header", Missing: missing}}, nil
	}

	// a quoted cell may span several lines.
	var lines []int
	for {
		if _, err := reader.Read(); err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("could not read csv rows: %w", err)
		}
		line, _ := reader.FieldPos(0)
		lines = append(lines, line)
	}

	var rows []*csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, nil, fmt.Errorf("could not read csv rows: %w", err)
	}
	for i, row := range rows {
		line := i + 2
		if i < len(lines) {
			line = lines[i]
		}
		t, err := row.trade(line)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		trades = append(trades, t)
	}
	return trades, problems, nil
}

func (row *csvRow) trade(line int) (Trade, error) {
	invalid := func(field, value, reason string) error {
		return &ValidationError{Record: line, Field: field, Value: value, Reason: reason}
	}
	on, err := date.Parse(row.Date)
	if err != nil {
		return Trade{}, invalid("date", row.Date, "not a date")
	}
	side, err := ParseSide(row.TradeType)
	if err != nil {
		return Trade{}, atRecord(err, line)
	}
	quantity, err := strconv.ParseFloat(strings.TrimSpace(row.Quantity), 64)
	if err != nil {
		return Trade{}, invalid("quantity", row.Quantity, "not a number")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(row.Price), 64)
	if err != nil {
		return Trade{}, invalid("price", row.Price, "not a number")
	}
	t := NewTrade(on, strings.TrimSpace(row.Ticker), side, quantity, price, row.Notes)
	return t, atRecord(t.Validate(), line)
}
