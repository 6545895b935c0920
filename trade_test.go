package tradebook

import (
	"errors"
	"math"
	"testing"

	"github.com/etnz/tradebook/date"
)

func TestParseSide(t *testing.T) {
	testCases := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"buy", Buy, false},
		{"Buy", Buy, false},
		{"BUY", Buy, false},
		{" sell ", Sell, false},
		{"Sell", Sell, false},
		{"short", Buy, true},
		{"", Buy, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSide(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseSide(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseSide(%q) = %v, want %v", tc.in, got, tc.want)
			}
			var verr *ValidationError
			if tc.wantErr && !errors.As(err, &verr) {
				t.Errorf("ParseSide(%q) error is %T, want *ValidationError", tc.in, err)
			}
		})
	}
}

func TestTrade_Validate(t *testing.T) {
	valid := buy(1, "BTC", 1, 100)
	testCases := []struct {
		name      string
		mutate    func(*Trade)
		wantField string
	}{
		{"valid", func(*Trade) {}, ""},
		{"fractional quantity", func(t *Trade) { t.Quantity = 0.00000001 }, ""},
		{"zero date", func(t *Trade) { t.Date = date.Date{} }, "date"},
		{"empty instrument", func(t *Trade) { t.Instrument = "  " }, "instrument"},
		{"unknown side", func(t *Trade) { t.Side = Side(7) }, "side"},
		{"zero quantity", func(t *Trade) { t.Quantity = 0 }, "quantity"},
		{"negative quantity", func(t *Trade) { t.Quantity = -1 }, "quantity"},
		{"NaN quantity", func(t *Trade) { t.Quantity = math.NaN() }, "quantity"},
		{"zero price", func(t *Trade) { t.Price = 0 }, "price"},
		{"infinite price", func(t *Trade) { t.Price = math.Inf(1) }, "price"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trade := valid
			tc.mutate(&trade)
			err := trade.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want a *ValidationError", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestTrade_Total(t *testing.T) {
	trade := buy(1, "ETH", 0.5, 3000)
	if got := trade.Total(); got != 1500 {
		t.Errorf("Total() = %v, want 1500", got)
	}
	trade.Quantity = 2
	if got := trade.Total(); got != 6000 {
		t.Errorf("Total() after editing quantity = %v, want 6000", got)
	}
}

func TestValidate(t *testing.T) {
	trades := []Trade{
		buy(1, "BTC", 1, 100),
		buy(2, "BTC", -1, 100),
		sell(3, "BTC", 1, 0),
		sell(4, "BTC", 1, 200),
	}
	valid, rejected := Validate(trades)
	if len(valid) != 2 {
		t.Errorf("Validate() kept %d trades, want 2", len(valid))
	}
	if len(rejected) != 2 {
		t.Fatalf("Validate() rejected %d trades, want 2", len(rejected))
	}
	if rejected[0].Record != 1 || rejected[0].Field != "quantity" {
		t.Errorf("rejected[0] = %v, want record 1 on quantity", rejected[0])
	}
	if rejected[1].Record != 2 || rejected[1].Field != "price" {
		t.Errorf("rejected[1] = %v, want record 2 on price", rejected[1])
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Record: 3, Field: "quantity", Value: "-1", Reason: "must be a positive number"}
	if got, want := err.Error(), `record 3: invalid quantity "-1": must be a positive number`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err = &ValidationError{Record: -1, Field: "index", Value: "9", Reason: "out of bounds"}
	if got, want := err.Error(), `invalid index "9": out of bounds`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
