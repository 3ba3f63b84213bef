package types

import (
	"errors"
	"fmt"
	"time"
)

// SideType represents which side of the book an order rests on
type SideType int

const (
	NoSide SideType = iota
	Buy
	Sell
)

func (s SideType) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrInvalidSide is returned when a submitted order's side is neither Buy nor Sell
	ErrInvalidSide = errors.New("invalid side: must be Buy or Sell")

	// ErrInvalidOrder is returned when a submitted order has a non-positive
	// quantity or price. Such orders are rejected rather than enqueued.
	ErrInvalidOrder = errors.New("invalid order: quantity and price must be positive")
)

// Order represents one resting buy or sell intent for a single instrument.
// Quantity is the only mutable field; the matching pass decrements it and
// removes the order from its book the moment it reaches zero.
type Order struct {
	ID        uint64    `json:"order_id"`
	Side      SideType  `json:"side"`
	Symbol    string    `json:"symbol"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrder creates an order with the given identity and terms
func NewOrder(id uint64, side SideType, symbol string, quantity int, price float64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Timestamp: time.Now(),
	}
}

// Validate checks the order against the submission preconditions
func (o *Order) Validate() error {
	if o.Side != Buy && o.Side != Sell {
		return ErrInvalidSide
	}
	if o.Quantity <= 0 || o.Price <= 0 {
		return ErrInvalidOrder
	}
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf("%s %s Qty:%d Price:%.2f", o.Side, o.Symbol, o.Quantity, o.Price)
}
