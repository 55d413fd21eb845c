// Package app wires venue clients to the cross-venue comparator: the
// Market Tracker holds the latest snapshot per (instrument, venue) and
// drives the Comparator on every update; the Comparator turns the
// tracker's state into candidate dislocation alerts.
package app

import (
	"context"

	"github.com/arcbridge/venuearb/business/venue/domain"
)

// VenueClient is implemented by each venue's infra package (Binance,
// Bybit). Run blocks until ctx is cancelled or the underlying session
// cannot be recovered; it never returns nil on a transient failure, since
// the supervisor beneath it absorbs those.
type VenueClient interface {
	Run(ctx context.Context) error
}

// SnapshotSink receives every normalized snapshot a venue client produces.
type SnapshotSink interface {
	Update(ctx context.Context, snap domain.PriceSnapshot)
}

// AlertGate receives every candidate dislocation the Comparator emits and
// decides, independently of the tracker, whether it is worth notifying an
// operator about.
type AlertGate interface {
	Evaluate(d Dislocation)
}

// Dislocation is a candidate cross-venue price dislocation emitted by the
// Comparator, before the Alert Gate has decided whether to notify on it.
type Dislocation struct {
	Instrument string
	VenueA     string
	VenueB     string
	MidA       string
	MidB       string
	DiffPct    string
}
