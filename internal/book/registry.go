package book

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// DefaultNumInstruments is the default registry capacity
const DefaultNumInstruments = 1024

// DefaultSymbolPrefix is the canonical symbol prefix ("TICKER42" -> slot 42)
const DefaultSymbolPrefix = "TICKER"

// Registry is a fixed-size array of order books, one per instrument slot,
// constructed once and owned by the engine for its lifetime.
type Registry struct {
	prefix string
	books  []*OrderBook
}

// NewRegistry builds a registry with the given capacity and canonical
// symbol prefix. Non-positive capacity and an empty prefix fall back to
// the defaults.
func NewRegistry(numInstruments int, prefix string) *Registry {
	if numInstruments <= 0 {
		numInstruments = DefaultNumInstruments
	}
	if prefix == "" {
		prefix = DefaultSymbolPrefix
	}

	books := make([]*OrderBook, numInstruments)
	for i := range books {
		books[i] = NewOrderBook()
	}
	return &Registry{prefix: prefix, books: books}
}

// Size returns the registry capacity
func (r *Registry) Size() int {
	return len(r.books)
}

// Resolve maps a symbol to its book slot. Canonical symbols of the form
// "<prefix><N>" with N in [0, Size) map to slot N directly; everything
// else hashes to a fallback slot, so resolution is total and stable.
// Unrelated non-canonical symbols may collide on a fallback slot; that is
// an accepted approximation, not an error.
func (r *Registry) Resolve(symbol string) int {
	if rest, ok := strings.CutPrefix(symbol, r.prefix); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n < len(r.books) {
			return n
		}
	}

	h := fnv.New32a()
	h.Write([]byte(symbol))
	return int(h.Sum32() % uint32(len(r.books)))
}

// Book returns the order book at the given slot
func (r *Registry) Book(slot int) *OrderBook {
	return r.books[slot]
}
