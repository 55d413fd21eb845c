package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arcbridge/venuearb/internal/instrument"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestNewPriceSnapshot_Valid(t *testing.T) {
	snap, err := NewPriceSnapshot("BTCUSDT", instrument.BinanceSpot, MarketSpot, d("100"), d("101"), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := snap.Mid(); !got.Equal(d("100.5")) {
		t.Errorf("Mid() = %s, want 100.5", got)
	}
}

func TestNewPriceSnapshot_RejectsCrossedBook(t *testing.T) {
	if _, err := NewPriceSnapshot("BTCUSDT", instrument.BinanceSpot, MarketSpot, d("101"), d("100"), time.Unix(0, 0)); err == nil {
		t.Fatal("expected error for crossed book, got nil")
	}
}

func TestNewPriceSnapshot_AcceptsEqualBidAsk(t *testing.T) {
	snap, err := NewPriceSnapshot("BTCUSDT", instrument.BinanceSpot, MarketSpot, d("100"), d("100"), time.Unix(0, 0))
	if err != nil {
		t.Fatalf("expected bid == ask to be accepted per bid <= ask, got error: %v", err)
	}
	if !snap.Mid().Equal(d("100")) {
		t.Errorf("Mid() = %s, want 100", snap.Mid())
	}
}

func TestNewPriceSnapshot_RejectsNonPositive(t *testing.T) {
	if _, err := NewPriceSnapshot("BTCUSDT", instrument.BinanceSpot, MarketSpot, d("0"), d("101"), time.Unix(0, 0)); err == nil {
		t.Fatal("expected error for zero bid, got nil")
	}
	if _, err := NewPriceSnapshot("BTCUSDT", instrument.BinanceSpot, MarketSpot, d("100"), d("-1"), time.Unix(0, 0)); err == nil {
		t.Fatal("expected error for negative ask, got nil")
	}
}
