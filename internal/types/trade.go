package types

import "time"

// Trade represents a matched execution between a resting buy and sell order.
// Price is always the resting sell's price (maker-price convention).
type Trade struct {
	Symbol      string    `json:"symbol"`
	BuyOrderID  uint64    `json:"buy_order_id"`
	SellOrderID uint64    `json:"sell_order_id"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}
