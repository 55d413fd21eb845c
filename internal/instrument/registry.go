// Package instrument maps canonical instrument identifiers to the
// venue-specific symbol spellings and subscription topics each exchange
// expects, so the rest of the system can talk about "BTCUSDT" without
// knowing that Bybit wants "BTCUSDT" uppercase in a topic string while
// Binance wants "btcusdt" lowercase in a stream path.
package instrument

import (
	"fmt"
	"strings"
	"sync"
)

// Venue identifies a streaming venue and market kind.
type Venue string

const (
	BinanceSpot    Venue = "binance.spot"
	BinanceFutures Venue = "binance.futures"
	BybitSpot      Venue = "bybit.spot"
	BybitFutures   Venue = "bybit.futures"
)

// ID is a canonical instrument identifier, e.g. "BTCUSDT".
type ID string

// Registry is a thread-safe table of watched instruments. It is
// pre-populated at startup and is safe for concurrent reads and writes.
type Registry struct {
	mu          sync.RWMutex
	instruments map[ID]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{instruments: make(map[ID]struct{})}
}

// DefaultRegistry returns a registry pre-populated with the default
// watched instrument set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, sym := range DefaultInstruments {
		r.Add(ID(sym))
	}
	return r
}

// DefaultInstruments is the watch list spawned at startup absent an
// explicit configuration override.
var DefaultInstruments = []string{
	"BTCUSDT", "ETHUSDT", "SOLUSDT", "LINKUSDT",
	"XRPUSDT", "BNBUSDT", "1000PEPEUSDT", "WLFIUSDT",
}

// Add registers id as watched. Idempotent.
func (r *Registry) Add(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instruments[id] = struct{}{}
}

// Contains reports whether id is currently watched.
func (r *Registry) Contains(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.instruments[id]
	return ok
}

// All returns every watched instrument, order unspecified.
func (r *Registry) All() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]ID, 0, len(r.instruments))
	for id := range r.instruments {
		ids = append(ids, id)
	}
	return ids
}

// VenueSymbol returns the spelling id takes on venue's wire protocol.
// Binance uses lowercase symbols in stream paths; Bybit uses uppercase
// symbols inside topic strings. Both venues otherwise share the same
// alphanumeric symbol, so no per-symbol override table is needed today.
func VenueSymbol(id ID, venue Venue) string {
	switch venue {
	case BinanceSpot, BinanceFutures:
		return strings.ToLower(string(id))
	case BybitSpot, BybitFutures:
		return strings.ToUpper(string(id))
	default:
		return string(id)
	}
}

// SubscriptionTopic returns the venue-specific stream name or topic
// string used to subscribe to top-of-book updates for id.
func SubscriptionTopic(id ID, venue Venue) string {
	switch venue {
	case BinanceSpot, BinanceFutures:
		return fmt.Sprintf("%s@depth", VenueSymbol(id, venue))
	case BybitSpot, BybitFutures:
		return fmt.Sprintf("orderbook.1.%s", VenueSymbol(id, venue))
	default:
		return string(id)
	}
}

// StreamURL joins baseURL with the depth stream path for Binance-style
// venues, which encode the subscription in the URL path itself rather
// than in a post-connect subscribe frame.
func StreamURL(baseURL string, id ID, venue Venue) string {
	return fmt.Sprintf("%s/ws/%s", strings.TrimRight(baseURL, "/"), SubscriptionTopic(id, venue))
}
