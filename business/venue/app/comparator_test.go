package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/arcbridge/venuearb/internal/instrument"
)

func TestComparator_EmitsOnlyAboveThreshold(t *testing.T) {
	c := NewComparator(decimal.NewFromInt(5))

	byVenue := map[instrument.Venue]decimal.Decimal{
		instrument.BinanceSpot: decimal.NewFromInt(100),
		instrument.BybitSpot:   decimal.NewFromInt(104), // 4% diff from binance's denominator, below threshold
	}

	out := c.Compare(context.Background(), "BTCUSDT", byVenue)
	if len(out) != 0 {
		t.Fatalf("expected no dislocations below threshold, got %d", len(out))
	}
}

func TestComparator_EmitsAtOrAboveThreshold(t *testing.T) {
	c := NewComparator(decimal.NewFromInt(5))

	byVenue := map[instrument.Venue]decimal.Decimal{
		instrument.BinanceSpot: decimal.NewFromInt(100),
		instrument.BybitSpot:   decimal.NewFromInt(106), // 6% diff from binance's denominator
	}

	out := c.Compare(context.Background(), "BTCUSDT", byVenue)
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 dislocation (one unordered pair), got %d", len(out))
	}
	// "binance.spot" < "bybit.spot" under the stable sort, so BinanceSpot
	// is the lower-ordered venue and fixes the denominator.
	if out[0].VenueA != string(instrument.BinanceSpot) || out[0].VenueB != string(instrument.BybitSpot) {
		t.Errorf("expected stable i<j ordering binance.spot/bybit.spot, got %s/%s", out[0].VenueA, out[0].VenueB)
	}
	if out[0].DiffPct != "6" {
		t.Errorf("diff_pct = %q, want 6", out[0].DiffPct)
	}
}

func TestComparator_EnumeratesEachUnorderedPairOnceAndIsDeterministic(t *testing.T) {
	c := NewComparator(decimal.NewFromInt(1))

	byVenue := map[instrument.Venue]decimal.Decimal{
		instrument.BinanceSpot:    decimal.NewFromInt(100),
		instrument.BybitSpot:      decimal.NewFromInt(110),
		instrument.BinanceFutures: decimal.NewFromInt(120),
	}

	// C(3,2) = 3 unordered pairs; run several times to confirm the sorted
	// venue ordering makes the result immune to map iteration order.
	for attempt := 0; attempt < 10; attempt++ {
		out := c.Compare(context.Background(), "BTCUSDT", byVenue)
		if len(out) != 3 {
			t.Fatalf("attempt %d: expected 3 dislocations, got %d", attempt, len(out))
		}
		for _, dloc := range out {
			if dloc.VenueA >= dloc.VenueB {
				t.Errorf("attempt %d: expected VenueA < VenueB under stable ordering, got %s/%s", attempt, dloc.VenueA, dloc.VenueB)
			}
		}
	}
}

func TestComparator_SkipsZeroDenominator(t *testing.T) {
	c := NewComparator(decimal.NewFromInt(5))

	byVenue := map[instrument.Venue]decimal.Decimal{
		instrument.BinanceSpot: decimal.Zero,
		instrument.BybitSpot:   decimal.NewFromInt(100),
	}

	out := c.Compare(context.Background(), "BTCUSDT", byVenue)
	for _, dloc := range out {
		if dloc.VenueA == string(instrument.BinanceSpot) {
			t.Fatalf("expected zero-mid venue never used as denominator, got %+v", dloc)
		}
	}
}
