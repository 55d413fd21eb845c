// Package domain holds the venue-agnostic types shared by every streaming
// client, the session supervisor, and the comparator: the normalized
// top-of-book snapshot and the session lifecycle states.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arcbridge/venuearb/internal/instrument"
)

// MarketKind distinguishes a spot order book from a perpetual-futures one.
type MarketKind string

const (
	MarketSpot    MarketKind = "spot"
	MarketFutures MarketKind = "futures"
)

// PriceSnapshot is the common representation every venue client normalizes
// its raw top-of-book frame into before handing it to the tracker. Bid and
// ask are always the best bid and best ask at Timestamp; Mid is derived,
// never independently set, so it can never disagree with Bid/Ask.
type PriceSnapshot struct {
	Instrument instrument.ID
	Venue      instrument.Venue
	Market     MarketKind
	Bid        decimal.Decimal
	Ask        decimal.Decimal
	Timestamp  time.Time
}

// NewPriceSnapshot builds a PriceSnapshot, rejecting values that would
// violate the invariant that a top-of-book quote has a positive, non-crossed
// spread: bid > 0, ask > 0, bid <= ask. A non-positive bid or ask, or a bid
// above the ask, indicates a malformed or stale venue frame and must never
// reach the tracker. bid == ask (a momentarily zero-width book) is accepted.
func NewPriceSnapshot(id instrument.ID, venue instrument.Venue, market MarketKind, bid, ask decimal.Decimal, ts time.Time) (PriceSnapshot, error) {
	if bid.Sign() <= 0 || ask.Sign() <= 0 {
		return PriceSnapshot{}, fmt.Errorf("snapshot %s/%s: non-positive bid/ask (bid=%s ask=%s)", venue, id, bid, ask)
	}
	if bid.GreaterThan(ask) {
		return PriceSnapshot{}, fmt.Errorf("snapshot %s/%s: crossed book (bid=%s ask=%s)", venue, id, bid, ask)
	}
	return PriceSnapshot{
		Instrument: id,
		Venue:      venue,
		Market:     market,
		Bid:        bid,
		Ask:        ask,
		Timestamp:  ts,
	}, nil
}

// Mid returns the midpoint price, (bid+ask)/2.
func (s PriceSnapshot) Mid() decimal.Decimal {
	return s.Bid.Add(s.Ask).Div(decimal.NewFromInt(2))
}
