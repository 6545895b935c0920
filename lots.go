package tradebook

import "github.com/etnz/tradebook/date"

// lot is a still open quantity of a single buy.
type lot struct {
	Date     date.Date
	Quantity float64 // remaining quantity, always > 0 while queued
	Price    float64
}

// lots is the FIFO queue of open lots of one instrument, oldest first.
//
// It is owned by a single replay and rebuilt from scratch on every pass.
type lots []lot

// buy opens a new lot at the tail of the queue.
func (l *lots) buy(t Trade) {
	*l = append(*l, lot{Date: t.Date, Quantity: t.Quantity, Price: t.Price})
}

// sell matches t against the head of the queue and returns the realized
// events in matching order, and the quantity left without any lot.
func (l *lots) sell(t Trade) (events []RealizedPnL, unmatched float64) {
	remaining := t.Quantity
	for remaining > 0 && len(*l) > 0 {
		head := &(*l)[0]
		matched := remaining
		if head.Quantity <= remaining {
			// consumes the whole lot
			matched = head.Quantity
		}
		events = append(events, RealizedPnL{
			Instrument: t.Instrument,
			Date:       t.Date,
			BuyDate:    head.Date,
			Quantity:   matched,
			BuyPrice:   head.Price,
			SellPrice:  t.Price,
		})
		remaining -= matched
		if matched == head.Quantity {
			*l = (*l)[1:]
		} else {
			head.Quantity -= matched
		}
	}
	if remaining > 0 {
		unmatched = remaining
	}
	return events, unmatched
}

// holding returns the quantity and weighted average cost of the open lots.
func (l lots) holding() Holding {
	var quantity, cost float64
	for _, lt := range l {
		quantity += lt.Quantity
		cost += lt.Quantity * lt.Price
	}
	if quantity == 0 {
		return Holding{}
	}
	return Holding{Quantity: quantity, AverageCost: cost / quantity}
}
