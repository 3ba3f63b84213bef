package book

import (
	"sync"
	"time"

	"github.com/pdesai/matchcore/internal/types"
)

// OrderBook holds the resting buy and sell orders for one instrument.
// Both slices are kept in insertion order; the matching tie-breaks depend
// on that order, so removals must never reorder the remaining elements.
//
// Every operation runs under the book's own mutex. Books are fully
// independent of each other, so producers and the matcher contend only
// within a single instrument.
type OrderBook struct {
	mu    sync.Mutex
	buys  []*types.Order
	sells []*types.Order
}

func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Append adds an order to the side-appropriate sequence. Safe to call
// concurrently with other appends and with an in-progress MatchOnce.
// The book takes exclusive ownership of the order.
func (b *OrderBook) Append(order *types.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if order.Side == types.Buy {
		b.buys = append(b.buys, order)
	} else {
		b.sells = append(b.sells, order)
	}
}

// MatchOnce performs one bounded matching pass, repeating until no crossing
// price remains:
//
//  1. Select the lowest-priced sell. Ties break to the earliest inserted
//     order (strict < keeps the first occurrence).
//  2. Select the first buy, in insertion order, whose price meets the sell.
//  3. Trade min(buy, sell) quantity at the sell's price, then remove any
//     order that reached exactly zero.
//
// The scans are deliberately linear: swapping in a priority structure would
// change the tie-break behavior above.
func (b *OrderBook) MatchOnce() []*types.Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	var trades []*types.Trade
	for len(b.buys) > 0 && len(b.sells) > 0 {
		lowest := 0
		for i := 1; i < len(b.sells); i++ {
			if b.sells[i].Price < b.sells[lowest].Price {
				lowest = i
			}
		}
		sell := b.sells[lowest]

		match := -1
		for j, buy := range b.buys {
			if buy.Price >= sell.Price {
				match = j
				break
			}
		}
		if match == -1 {
			// No crossing price right now; the book may still be non-empty.
			break
		}
		buy := b.buys[match]

		tradedQty := buy.Quantity
		if sell.Quantity < tradedQty {
			tradedQty = sell.Quantity
		}
		buy.Quantity -= tradedQty
		sell.Quantity -= tradedQty

		trades = append(trades, &types.Trade{
			Symbol:      buy.Symbol,
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			Price:       sell.Price,
			Quantity:    tradedQty,
			Timestamp:   time.Now(),
		})

		// Splice out fully filled orders, preserving relative order.
		if buy.Quantity == 0 {
			b.buys = append(b.buys[:match], b.buys[match+1:]...)
		}
		if sell.Quantity == 0 {
			b.sells = append(b.sells[:lowest], b.sells[lowest+1:]...)
		}
	}

	return trades
}

// Depth reports the number of resting orders on each side
func (b *OrderBook) Depth() (buys, sells int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buys), len(b.sells)
}

// RestingQuantity reports the total resting quantity on each side
func (b *OrderBook) RestingQuantity() (buyQty, sellQty int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range b.buys {
		buyQty += o.Quantity
	}
	for _, o := range b.sells {
		sellQty += o.Quantity
	}
	return buyQty, sellQty
}
