package binance

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

func TestBestLevel_EmptyReturnsNotFound(t *testing.T) {
	if _, ok := bestLevel(nil); ok {
		t.Error("expected not found on empty levels")
	}
}

func TestBestLevel_ShortEntryReturnsNotFound(t *testing.T) {
	if _, ok := bestLevel([][]string{{"100.5"}}); ok {
		t.Error("expected not found when the first entry lacks a quantity column")
	}
}

func TestDepthFrame_IsFutures(t *testing.T) {
	transactTime := int64(1234)
	spot := depthFrame{EventType: "depthUpdate"}
	futures := depthFrame{EventType: "depthUpdate", TransactTime: &transactTime}

	if spot.isFutures() {
		t.Error("expected spot frame to not be futures")
	}
	if !futures.isFutures() {
		t.Error("expected frame with TransactTime to be futures")
	}
}
