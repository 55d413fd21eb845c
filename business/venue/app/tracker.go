package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arcbridge/venuearb/business/venue/domain"
	"github.com/arcbridge/venuearb/internal/instrument"
	"github.com/arcbridge/venuearb/internal/logger"
)

// Tracker holds the latest snapshot per (instrument, venue) and, on every
// update, recomputes cross-venue dislocations for that instrument and
// forwards any that clear the comparator's threshold to the alert gate.
type Tracker struct {
	mu    sync.Mutex
	byInstrument map[instrument.ID]map[instrument.Venue]domain.PriceSnapshot

	comparator *Comparator
	gate       AlertGate
	log        logger.LoggerInterface
}

// NewTracker builds a Tracker that drives comparator and hands accepted
// dislocations to gate.
func NewTracker(comparator *Comparator, gate AlertGate, log logger.LoggerInterface) *Tracker {
	return &Tracker{
		byInstrument: make(map[instrument.ID]map[instrument.Venue]domain.PriceSnapshot),
		comparator:   comparator,
		gate:         gate,
		log:          log,
	}
}

// Update records snap as the latest state for its (instrument, venue) pair
// and re-evaluates every cross-venue pair for that instrument. Storing the
// snapshot and running comparator+gate happen under the same lock: both
// are pure CPU work (the gate's enqueue is a non-blocking channel send),
// so holding the mutex across them gives comparator and gate a true
// single-writer view per instrument — two concurrent updates for the same
// instrument can no longer both pass the gate's cooldown check before
// either advances its cooldown state.
func (t *Tracker) Update(ctx context.Context, snap domain.PriceSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	mids := t.store(snap)
	if len(mids) < 2 {
		return
	}

	for _, d := range t.comparator.Compare(ctx, snap.Instrument, mids) {
		t.gate.Evaluate(d)
	}
}

// store must be called with t.mu held.
func (t *Tracker) store(snap domain.PriceSnapshot) map[instrument.Venue]decimal.Decimal {
	byVenue, ok := t.byInstrument[snap.Instrument]
	if !ok {
		byVenue = make(map[instrument.Venue]domain.PriceSnapshot)
		t.byInstrument[snap.Instrument] = byVenue
	}
	byVenue[snap.Venue] = snap

	mids := make(map[instrument.Venue]decimal.Decimal, len(byVenue))
	for v, s := range byVenue {
		mids[v] = s.Mid()
	}
	return mids
}

// Snapshot returns the latest known snapshot for (id, venue), if any.
func (t *Tracker) Snapshot(id instrument.ID, venue instrument.Venue) (domain.PriceSnapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	byVenue, ok := t.byInstrument[id]
	if !ok {
		return domain.PriceSnapshot{}, false
	}
	s, ok := byVenue[venue]
	return s, ok
}
