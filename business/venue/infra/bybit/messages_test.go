package bybit

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBestLevel_ReturnsLiteralFirstElement(t *testing.T) {
	levels := [][]string{{"100.5", "1"}, {"101.2", "2"}, {"99.9", "3"}}
	best, ok := bestLevel(levels)
	if !ok {
		t.Fatal("expected a best level")
	}
	if !best.Equal(decimal.RequireFromString("100.5")) {
		t.Errorf("best level = %s, want 100.5 (literal first element)", best)
	}
}

func TestBestLevel_DoesNotSkipZeroQuantity(t *testing.T) {
	levels := [][]string{{"101.2", "0"}, {"100.5", "1"}}
	best, ok := bestLevel(levels)
	if !ok {
		t.Fatal("expected a best level")
	}
	if !best.Equal(decimal.RequireFromString("101.2")) {
		t.Errorf("best level = %s, want 101.2 (first element taken as-is regardless of quantity)", best)
	}
}

func TestIsOrderbookFrame(t *testing.T) {
	cases := []struct {
		name string
		f    orderbookFrame
		want bool
	}{
		{"snapshot", orderbookFrame{Topic: "orderbook.1.BTCUSDT", Type: "snapshot"}, true},
		{"delta", orderbookFrame{Topic: "orderbook.1.BTCUSDT", Type: "delta"}, true},
		{"no topic", orderbookFrame{Type: "snapshot"}, false},
		{"unrecognised type", orderbookFrame{Topic: "orderbook.1.BTCUSDT", Type: "pong"}, false},
	}
	for _, c := range cases {
		if got := c.f.isOrderbookFrame(); got != c.want {
			t.Errorf("%s: isOrderbookFrame() = %v, want %v", c.name, got, c.want)
		}
	}
}
