package alertgate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arcbridge/venuearb/business/venue/app"
	"github.com/arcbridge/venuearb/internal/logger"
)

type fakeMailbox struct {
	accepted []app.Dislocation
	accept   bool
}

func (f *fakeMailbox) TryEnqueue(alert app.Dislocation) bool {
	if !f.accept {
		return false
	}
	f.accepted = append(f.accepted, alert)
	return true
}

func dislocation(diffPct string) app.Dislocation {
	return app.Dislocation{
		Instrument: "BTCUSDT",
		VenueA:     "binance.spot",
		VenueB:     "bybit.spot",
		MidA:       "100",
		MidB:       "106",
		DiffPct:    diffPct,
	}
}

func TestPairKey_OrderIndependent(t *testing.T) {
	a := PairKey("btcusdt", "binance.spot", "bybit.spot")
	b := PairKey("BTCUSDT", "bybit.spot", "binance.spot")
	if a != b {
		t.Fatalf("expected order-independent keys, got %q != %q", a, b)
	}
}

func TestGate_RejectsBelowMinDiff(t *testing.T) {
	mb := &fakeMailbox{accept: true}
	g := New(decimal.NewFromInt(5), decimal.NewFromInt(1), time.Minute, mb, logger.Discard())

	g.Evaluate(dislocation("4.99"))
	if len(mb.accepted) != 0 {
		t.Fatalf("expected no enqueue below min diff, got %d", len(mb.accepted))
	}
}

func TestGate_RequiresReAlertDelta(t *testing.T) {
	mb := &fakeMailbox{accept: true}
	g := New(decimal.NewFromInt(5), decimal.NewFromInt(1), time.Minute, mb, logger.Discard())

	g.Evaluate(dislocation("6"))
	if len(mb.accepted) != 1 {
		t.Fatalf("expected first alert to be accepted, got %d", len(mb.accepted))
	}

	// Cooldown has elapsed but the diff is below the re-alert delta: still
	// suppressed, since delta gates independently of cooldown.
	g.lastSend = time.Now().Add(-2 * time.Minute)
	g.Evaluate(dislocation("6.5")) // delta of 0.5 < reAlertDelta of 1
	if len(mb.accepted) != 1 {
		t.Fatalf("expected second alert under re-alert delta to be suppressed, got %d", len(mb.accepted))
	}

	g.Evaluate(dislocation("7.5")) // delta of 1.5 >= reAlertDelta of 1
	if len(mb.accepted) != 2 {
		t.Fatalf("expected third alert clearing re-alert delta to be accepted, got %d", len(mb.accepted))
	}
}

func TestGate_EnforcesGlobalCooldown(t *testing.T) {
	mb := &fakeMailbox{accept: true}
	g := New(decimal.NewFromInt(5), decimal.NewFromInt(1), time.Hour, mb, logger.Discard())

	g.Evaluate(dislocation("10"))
	if len(mb.accepted) != 1 {
		t.Fatalf("expected first alert accepted, got %d", len(mb.accepted))
	}

	g.Evaluate(dislocation("50")) // clears re-alert delta but not cooldown
	if len(mb.accepted) != 1 {
		t.Fatalf("expected second alert suppressed by cooldown, got %d", len(mb.accepted))
	}
}

func TestGate_StateOnlyAdvancesOnSuccessfulEnqueue(t *testing.T) {
	mb := &fakeMailbox{accept: false}
	g := New(decimal.NewFromInt(5), decimal.NewFromInt(1), time.Minute, mb, logger.Discard())

	g.Evaluate(dislocation("10"))
	if !g.lastSend.IsZero() {
		t.Fatal("expected lastSend to remain zero when enqueue is rejected")
	}
	if len(g.lastNotified) != 0 {
		t.Fatal("expected lastNotified to remain empty when enqueue is rejected")
	}
}
