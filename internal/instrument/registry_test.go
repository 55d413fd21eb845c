package instrument

import "testing"

func TestVenueSymbol_CasingPerVenue(t *testing.T) {
	if got := VenueSymbol("BTCUSDT", BinanceSpot); got != "btcusdt" {
		t.Errorf("BinanceSpot symbol = %q, want lowercase", got)
	}
	if got := VenueSymbol("btcusdt", BybitSpot); got != "BTCUSDT" {
		t.Errorf("BybitSpot symbol = %q, want uppercase", got)
	}
}

func TestSubscriptionTopic(t *testing.T) {
	if got := SubscriptionTopic("BTCUSDT", BinanceFutures); got != "btcusdt@depth" {
		t.Errorf("Binance topic = %q, want btcusdt@depth", got)
	}
	if got := SubscriptionTopic("BTCUSDT", BybitFutures); got != "orderbook.1.BTCUSDT" {
		t.Errorf("Bybit topic = %q, want orderbook.1.BTCUSDT", got)
	}
}

func TestStreamURL_TrimsTrailingSlash(t *testing.T) {
	got := StreamURL("wss://stream.binance.com:9443/", "BTCUSDT", BinanceSpot)
	want := "wss://stream.binance.com:9443/ws/btcusdt@depth"
	if got != want {
		t.Errorf("StreamURL = %q, want %q", got, want)
	}
}

func TestRegistry_AddContainsAll(t *testing.T) {
	r := NewRegistry()
	r.Add("BTCUSDT")
	r.Add("ETHUSDT")
	r.Add("BTCUSDT") // idempotent

	if !r.Contains("BTCUSDT") {
		t.Error("expected registry to contain BTCUSDT")
	}
	if r.Contains("SOLUSDT") {
		t.Error("expected registry to not contain SOLUSDT")
	}
	if len(r.All()) != 2 {
		t.Errorf("All() length = %d, want 2", len(r.All()))
	}
}

func TestDefaultRegistry_PopulatesDefaults(t *testing.T) {
	r := DefaultRegistry()
	for _, sym := range DefaultInstruments {
		if !r.Contains(ID(sym)) {
			t.Errorf("expected default registry to contain %s", sym)
		}
	}
}
