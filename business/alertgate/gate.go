// Package alertgate implements the dedup/cooldown gate standing between
// the comparator's candidate dislocations and the outbound notification
// mailbox: minimum size, re-alert delta, and a global cooldown, in that
// order, so a flapping price never floods the operator channel.
package alertgate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arcbridge/venuearb/business/venue/app"
	"github.com/arcbridge/venuearb/internal/logger"
)

// Mailbox is the non-blocking outbound channel the gate enqueues accepted
// alerts into. The notification worker is the other end of it.
type Mailbox interface {
	TryEnqueue(alert app.Dislocation) bool
}

// Gate implements app.AlertGate.
type Gate struct {
	minDiff        decimal.Decimal
	reAlertDelta   decimal.Decimal
	cooldown       time.Duration
	mailbox        Mailbox
	log            logger.LoggerInterface

	mu            sync.Mutex
	lastNotified  map[string]decimal.Decimal
	lastSend      time.Time
}

// New builds a Gate with the given thresholds.
func New(minDiff, reAlertDelta decimal.Decimal, cooldown time.Duration, mailbox Mailbox, log logger.LoggerInterface) *Gate {
	return &Gate{
		minDiff:      minDiff,
		reAlertDelta: reAlertDelta,
		cooldown:     cooldown,
		mailbox:      mailbox,
		log:          log,
		lastNotified: make(map[string]decimal.Decimal),
	}
}

// Evaluate applies the three gates in order and, on acceptance, attempts a
// non-blocking enqueue. Gate state only advances on a successful enqueue.
func (g *Gate) Evaluate(d app.Dislocation) {
	diff, err := decimal.NewFromString(d.DiffPct)
	if err != nil {
		g.log.Warn(context.Background(), "alert gate received unparseable diff", "diff_pct", d.DiffPct, "error", err)
		return
	}

	if diff.LessThan(g.minDiff) {
		return
	}

	key := PairKey(d.Instrument, d.VenueA, d.VenueB)

	g.mu.Lock()
	prev, seen := g.lastNotified[key]
	if seen && diff.LessThan(prev.Add(g.reAlertDelta)) {
		g.mu.Unlock()
		return
	}
	if !g.lastSend.IsZero() && time.Since(g.lastSend) < g.cooldown {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	if !g.mailbox.TryEnqueue(d) {
		return
	}

	g.mu.Lock()
	g.lastNotified[key] = diff
	g.lastSend = time.Now()
	g.mu.Unlock()
}

// Reset wipes dedup and cooldown state. Invoked by a periodic scheduler,
// by default every 24h, so a dislocation that legitimately recurs the next
// day is not suppressed forever by yesterday's notification.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastNotified = make(map[string]decimal.Decimal)
	g.lastSend = time.Time{}
}

// PairKey normalizes an instrument and an unordered venue pair into a
// single dedup key: UPPER(symbol) | min(venueA,venueB) | max(venueA,venueB).
// Normalizing the venue order means A-vs-B and B-vs-A dislocations for the
// same instrument share one cooldown/dedup slot, whichever venue the caller
// passes first.
func PairKey(instrumentID, venueA, venueB string) string {
	lo, hi := venueA, venueB
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s|%s|%s", strings.ToUpper(instrumentID), lo, hi)
}
