// Package notifier implements the bounded notification mailbox and the
// worker that drains it to an operator-facing channel (Telegram).
package notifier

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/arcbridge/venuearb/business/venue/app"
)

const meterName = "github.com/arcbridge/venuearb/business/notifier"

// Mailbox is a bounded, non-blocking channel between the alert gate and
// the notification worker. A full mailbox means alerts are arriving
// faster than they can be posted; dropping is preferable to letting the
// gate (and, transitively, the tracker) block on a slow HTTP endpoint.
type Mailbox struct {
	ch      chan app.Dislocation
	dropped metric.Int64Counter
}

// NewMailbox creates a Mailbox with the given capacity.
func NewMailbox(capacity int) *Mailbox {
	meter := otel.Meter(meterName)
	dropped, _ := meter.Int64Counter("notifier_mailbox_dropped_total",
		metric.WithDescription("Alerts dropped because the notification mailbox was full"))
	return &Mailbox{
		ch:      make(chan app.Dislocation, capacity),
		dropped: dropped,
	}
}

// TryEnqueue implements alertgate.Mailbox: a non-blocking send that
// reports whether the alert was accepted.
func (m *Mailbox) TryEnqueue(alert app.Dislocation) bool {
	select {
	case m.ch <- alert:
		return true
	default:
		if m.dropped != nil {
			m.dropped.Add(context.Background(), 1)
		}
		return false
	}
}

// Close stops accepting new alerts and signals the worker to drain and
// exit once the channel is empty.
func (m *Mailbox) Close() {
	close(m.ch)
}

// receive exposes the read side for the worker only.
func (m *Mailbox) receive() <-chan app.Dislocation {
	return m.ch
}
