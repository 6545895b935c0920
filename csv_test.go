package tradebook

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExportImportCSV(t *testing.T) {
	trades := []Trade{
		buy(1, "BTC", 1, 100),
		NewTrade(day(3), "BTC", Sell, 1.5, 300, "take profit, finally"),
	}
	var buf bytes.Buffer
	if err := ExportCSV(&buf, trades); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if got, want := lines[0], "Date,Ticker,Trade_Type,Quantity,Price,Total,Notes"; got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
	if got, want := lines[2], `2025-01-03,BTC,Sell,1.5,300,450,"take profit, finally"`; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}

	back, problems, err := ImportCSV(&buf)
	if err != nil || len(problems) > 0 {
		t.Fatalf("ImportCSV() = %v, %v", problems, err)
	}
	if diff := cmp.Diff(trades, back); diff != "" {
		t.Errorf("ImportCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestImportCSV_Rows(t *testing.T) {
	input := "\ufeffDate,Ticker,Trade_Type,Quantity,Price,Total,Notes\n" +
		"2025-01-01,AAPL,BUY,10,150,0,\n" +
		"2025-01-02,AAPL,hold,10,150,,\n" +
		"2025-01-03,AAPL,sell,ten,150,,\n" +
		"2025-01-04,AAPL,sell,5,0,,\n" +
		"2025-01-05 00:00:00,AAPL,Sell,5,160,,\n"
	trades, problems, err := ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []Trade{buy(1, "AAPL", 10, 150), sell(5, "AAPL", 5, 160)}
	if diff := cmp.Diff(want, trades); diff != "" {
		t.Errorf("ImportCSV() mismatch (-want +got):\n%s", diff)
	}
	wantProblems := []struct {
		line  int
		field string
	}{{3, "side"}, {4, "quantity"}, {5, "price"}}
	if len(problems) != len(wantProblems) {
		t.Fatalf("ImportCSV() problems = %v, want %d", problems, len(wantProblems))
	}
	for i, w := range wantProblems {
		var verr *ValidationError
		if !errors.As(problems[i], &verr) || verr.Record != w.line || verr.Field != w.field {
			t.Errorf("problems[%d] = %v, want %s error on line %d", i, problems[i], w.field, w.line)
		}
	}
}

func TestImportCSV_MultilineNotes(t *testing.T) {
	input := "Date,Ticker,Trade_Type,Quantity,Price,Total,Notes\n" +
		"2025-01-01,AAPL,buy,10,150,,\"first line\nsecond line\"\n" +
		"2025-01-02,AAPL,hold,10,150,,\n"
	trades, problems, err := ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 1 || trades[0].Note != "first line\nsecond line" {
		t.Errorf("ImportCSV() = %v, want the trade with its two line note", trades)
	}
	var verr *ValidationError
	if len(problems) != 1 || !errors.As(problems[0], &verr) || verr.Record != 4 {
		t.Errorf("ImportCSV() problems = %v, want a side error on line 4", problems)
	}
}

func TestImportCSV_MissingColumns(t *testing.T) {
	input := "Date,Ticker,Quantity\n2025-01-01,AAPL,10\n"
	trades, problems, err := ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 0 {
		t.Errorf("ImportCSV() = %v, want an empty set", trades)
	}
	var warn *DataIntegrityWarning
	if len(problems) != 1 || !errors.As(problems[0], &warn) {
		t.Fatalf("ImportCSV() problems = %v, want one *DataIntegrityWarning", problems)
	}
	if diff := cmp.Diff([]string{"Trade_Type", "Price"}, warn.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}
