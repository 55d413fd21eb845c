package notifier

import (
	"testing"

	"github.com/arcbridge/venuearb/business/venue/app"
)

func TestMailbox_TryEnqueue_AcceptsUntilFull(t *testing.T) {
	mb := NewMailbox(2)
	a := app.Dislocation{Instrument: "BTCUSDT"}

	if !mb.TryEnqueue(a) {
		t.Fatal("expected first enqueue to succeed")
	}
	if !mb.TryEnqueue(a) {
		t.Fatal("expected second enqueue to succeed")
	}
	if mb.TryEnqueue(a) {
		t.Fatal("expected third enqueue to be dropped once capacity is full")
	}
}

func TestMailbox_TryEnqueue_FreesSlotAfterReceive(t *testing.T) {
	mb := NewMailbox(1)
	a := app.Dislocation{Instrument: "BTCUSDT"}

	if !mb.TryEnqueue(a) {
		t.Fatal("expected enqueue to succeed")
	}
	if mb.TryEnqueue(a) {
		t.Fatal("expected enqueue to be dropped while mailbox is full")
	}

	<-mb.receive()

	if !mb.TryEnqueue(a) {
		t.Fatal("expected enqueue to succeed after a slot was freed")
	}
}
