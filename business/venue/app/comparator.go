package app

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arcbridge/venuearb/internal/instrument"
)

const comparatorMeterName = "github.com/arcbridge/venuearb/business/venue/app"

// Comparator computes pairwise cross-venue dislocations for a single
// instrument's current set of venue snapshots. Venues are sorted into a
// stable order and each unordered pair (i<j) is evaluated exactly once;
// diff% is computed asymmetrically as |midA - midB| / midA * 100, with the
// lower-ordered venue fixed as the denominator, matching the original
// bot's convention.
type Comparator struct {
	threshold   decimal.Decimal
	biggestDiff metric.Float64Gauge
}

// NewComparator builds a Comparator that only emits dislocations at or
// above threshold percent, and registers its telemetry.
func NewComparator(threshold decimal.Decimal) *Comparator {
	meter := otel.Meter(comparatorMeterName)
	gauge, _ := meter.Float64Gauge("venue_comparator_biggest_diff_pct",
		metric.WithDescription("Largest cross-venue diff percentage observed for any instrument pair"))
	return &Comparator{threshold: threshold, biggestDiff: gauge}
}

// Compare evaluates every unordered venue pair present in byVenue exactly
// once, under a stable (sorted) venue ordering, and returns the
// dislocations whose diff% is at or above the configured threshold. A pair
// whose first (denominator) venue has a mid price of zero, which would make
// the ratio undefined, is skipped rather than emitted. biggest_diff is recorded as a telemetry watermark for every pair
// regardless of threshold; it never gates emission, it only reports how
// close the market came.
func (c *Comparator) Compare(ctx context.Context, id instrument.ID, byVenue map[instrument.Venue]decimal.Decimal) []Dislocation {
	venues := make([]instrument.Venue, 0, len(byVenue))
	for v := range byVenue {
		venues = append(venues, v)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i] < venues[j] })

	var out []Dislocation
	var biggest decimal.Decimal

	for i := 0; i < len(venues); i++ {
		for j := i + 1; j < len(venues); j++ {
			a, b := venues[i], venues[j]
			midA, midB := byVenue[a], byVenue[b]
			if midA.IsZero() {
				continue
			}

			diff := midA.Sub(midB).Abs().Div(midA).Mul(decimal.NewFromInt(100))
			if diff.GreaterThan(biggest) {
				biggest = diff
			}

			if diff.LessThan(c.threshold) {
				continue
			}

			out = append(out, Dislocation{
				Instrument: string(id),
				VenueA:     string(a),
				VenueB:     string(b),
				MidA:       midA.String(),
				MidB:       midB.String(),
				DiffPct:    diff.String(),
			})
		}
	}

	if c.biggestDiff != nil && !biggest.IsZero() {
		f, _ := biggest.Float64()
		c.biggestDiff.Record(ctx, f, metric.WithAttributes(attribute.String("instrument", string(id))))
	}

	return out
}
