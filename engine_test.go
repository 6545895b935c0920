package tradebook

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReplay(t *testing.T) {
	testCases := []struct {
		name          string
		trades        []Trade
		wantRealized  float64
		wantHolding   Holding
		wantEvents    int
		wantUnmatched []float64
	}{
		{
			name:         "closed position",
			trades:       []Trade{buy(1, "X", 10, 1), sell(2, "X", 10, 1.5)},
			wantRealized: 5.0,
			wantHolding:  Holding{},
			wantEvents:   1,
		},
		{
			name:         "BTC partial",
			trades:       []Trade{buy(1, "BTC", 1, 100), buy(2, "BTC", 1, 200), sell(3, "BTC", 1.5, 300)},
			wantRealized: 250,
			wantHolding:  Holding{Quantity: 0.5, AverageCost: 200},
			wantEvents:   2,
		},
		{
			name:          "ETH oversell",
			trades:        []Trade{buy(1, "ETH", 1, 100), sell(2, "ETH", 2, 150)},
			wantRealized:  50,
			wantHolding:   Holding{},
			wantEvents:    1,
			wantUnmatched: []float64{1},
		},
		{
			name:         "loss",
			trades:       []Trade{buy(1, "X", 2, 10), sell(2, "X", 1, 4)},
			wantRealized: -6,
			wantHolding:  Holding{Quantity: 1, AverageCost: 10},
			wantEvents:   1,
		},
		{
			name:         "only buys",
			trades:       []Trade{buy(1, "X", 1, 10), buy(2, "X", 3, 20)},
			wantRealized: 0,
			wantHolding:  Holding{Quantity: 4, AverageCost: 17.5},
		},
		{
			name:         "unsorted input",
			trades:       []Trade{sell(3, "BTC", 1.5, 300), buy(2, "BTC", 1, 200), buy(1, "BTC", 1, 100)},
			wantRealized: 250,
			wantHolding:  Holding{Quantity: 0.5, AverageCost: 200},
			wantEvents:   2,
		},
		{
			name:         "other instruments and invalid trades are ignored",
			trades:       []Trade{buy(1, "X", 1, 10), buy(1, "Y", 1, 1), sell(2, "X", -1, 20), sell(2, "X", 1, 20)},
			wantRealized: 10,
			wantHolding:  Holding{},
			wantEvents:   1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pos := Replay(tc.trades[0].Instrument, tc.trades)
			if pos.Realized != tc.wantRealized {
				t.Errorf("Realized = %v, want %v", pos.Realized, tc.wantRealized)
			}
			if pos.Holding != tc.wantHolding {
				t.Errorf("Holding = %+v, want %+v", pos.Holding, tc.wantHolding)
			}
			if len(pos.Events) != tc.wantEvents {
				t.Errorf("len(Events) = %d, want %d", len(pos.Events), tc.wantEvents)
			}
			var unmatched []float64
			for _, u := range pos.Unmatched {
				unmatched = append(unmatched, u.Quantity)
			}
			if diff := cmp.Diff(tc.wantUnmatched, unmatched); diff != "" {
				t.Errorf("Unmatched mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplay_BTCEvents(t *testing.T) {
	trades := []Trade{buy(1, "BTC", 1, 100), buy(2, "BTC", 1, 200), sell(3, "BTC", 1.5, 300)}
	pos := Replay("BTC", trades)
	want := []RealizedPnL{
		{Instrument: "BTC", Date: day(3), BuyDate: day(1), Quantity: 1, BuyPrice: 100, SellPrice: 300},
		{Instrument: "BTC", Date: day(3), BuyDate: day(2), Quantity: 0.5, BuyPrice: 200, SellPrice: 300},
	}
	if diff := cmp.Diff(want, pos.Events); diff != "" {
		t.Errorf("Events mismatch (-want +got):\n%s", diff)
	}
	if v := pos.Events[0].Value(); v != 200 {
		t.Errorf("Events[0].Value() = %v, want 200", v)
	}
	if v := pos.Events[1].Value(); v != 50 {
		t.Errorf("Events[1].Value() = %v, want 50", v)
	}
	if pos.From != day(1) || pos.To != day(3) || pos.Trades != 3 {
		t.Errorf("From, To, Trades = %v, %v, %d, want %v, %v, 3", pos.From, pos.To, pos.Trades, day(1), day(3))
	}
}

func TestReplay_SameDayKeepsInputOrder(t *testing.T) {
	// A sell recorded before the buy of the same day finds no lot.
	sellFirst := Replay("X", []Trade{sell(1, "X", 1, 20), buy(1, "X", 1, 10)})
	if sellFirst.Realized != 0 || len(sellFirst.Unmatched) != 1 || sellFirst.Holding.Quantity != 1 {
		t.Errorf("sell then buy: Realized %v, Unmatched %v, Holding %+v; want 0, one, 1 held", sellFirst.Realized, sellFirst.Unmatched, sellFirst.Holding)
	}
	buyFirst := Replay("X", []Trade{buy(1, "X", 1, 10), sell(1, "X", 1, 20)})
	if buyFirst.Realized != 10 || len(buyFirst.Unmatched) != 0 || buyFirst.Holding.Quantity != 0 {
		t.Errorf("buy then sell: Realized %v, Unmatched %v, Holding %+v; want 10, none, nothing held", buyFirst.Realized, buyFirst.Unmatched, buyFirst.Holding)
	}
}

func TestReplay_DoesNotMutateInput(t *testing.T) {
	trades := []Trade{sell(3, "BTC", 1.5, 300), buy(2, "BTC", 1, 200), buy(1, "BTC", 1, 100)}
	before := append([]Trade(nil), trades...)
	first := Replay("BTC", trades)
	if diff := cmp.Diff(before, trades); diff != "" {
		t.Errorf("Replay() modified its input (-before +after):\n%s", diff)
	}
	second := Replay("BTC", trades)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Replay() is not idempotent (-first +second):\n%s", diff)
	}
}

func TestReplay_Cumulative(t *testing.T) {
	trades := []Trade{
		buy(1, "X", 10, 1),
		sell(3, "X", 2, 2),
		sell(3, "X", 2, 3),
		buy(5, "X", 1, 1),
		sell(6, "X", 1, 0.5),
	}
	pos := Replay("X", trades)
	want := map[int]float64{1: 0, 3: 6, 5: 6, 6: 5.5}
	if pos.Cumulative.Len() != len(want) {
		t.Errorf("Cumulative.Len() = %d, want %d", pos.Cumulative.Len(), len(want))
	}
	for n, v := range want {
		if got, ok := pos.Cumulative.Get(day(n)); !ok || got != v {
			t.Errorf("Cumulative.Get(%v) = %v, %v, want %v", day(n), got, ok, v)
		}
	}
}

func TestReport_Diff(t *testing.T) {
	trades := []Trade{buy(1, "BTC", 1, 100), sell(3, "BTC", 1, 300)}
	a := Analyze(trades, Options{})
	if diff := cmp.Diff(a, Analyze(trades, Options{})); diff != "" {
		t.Errorf("same book, different reports (-a +b):\n%s", diff)
	}
	b := Analyze(append(trades, sell(4, "BTC", 0, 1), buy(4, "BTC", 1, 50)), Options{})
	if cmp.Equal(a.Series["BTC"], b.Series["BTC"]) || cmp.Equal(a.PortfolioSeries, b.PortfolioSeries) {
		t.Errorf("cmp.Equal() does not see a longer series")
	}
}
