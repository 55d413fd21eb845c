package notifier

import (
	"context"

	"github.com/arcbridge/venuearb/internal/logger"
)

// Worker drains Mailbox FIFO and posts each alert to sink. A nil sink
// means notifications are disabled (e.g. missing Telegram credentials);
// the worker still drains the mailbox so the gate never blocks, it just
// discards what it reads.
type Worker struct {
	mailbox *Mailbox
	sink    *TelegramSink
	log     logger.LoggerInterface
}

// NewWorker builds a Worker. sink may be nil.
func NewWorker(mailbox *Mailbox, sink *TelegramSink, log logger.LoggerInterface) *Worker {
	return &Worker{mailbox: mailbox, sink: sink, log: log}
}

// Run drains the mailbox until it is closed or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case alert, ok := <-w.mailbox.receive():
			if !ok {
				return
			}
			if w.sink == nil {
				continue
			}
			if err := w.sink.Send(ctx, alert); err != nil {
				w.log.Warn(ctx, "notification delivery failed", "instrument", alert.Instrument, "error", err)
			}
		}
	}
}
