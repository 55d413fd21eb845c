package binance

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arcbridge/venuearb/business/venue/app"
	"github.com/arcbridge/venuearb/business/venue/domain"
	"github.com/arcbridge/venuearb/business/venue/supervisor"
	"github.com/arcbridge/venuearb/internal/instrument"
	"github.com/arcbridge/venuearb/internal/logger"
)

// Client streams top-of-book depth updates for one instrument on one
// Binance market (spot or futures) and feeds normalized snapshots into a
// sink. It owns a supervisor.Supervisor for connection lifecycle; this
// type only knows how to speak Binance's wire protocol.
type Client struct {
	venue      instrument.Venue
	instrument instrument.ID
	market     domain.MarketKind
	sup        *supervisor.Supervisor
	sink       app.SnapshotSink
	log        logger.LoggerInterface
	external   func(domain.SessionStateChange)
}

// New builds a Binance venue client. streamURL is the fully-qualified
// per-symbol stream endpoint (instrument.StreamURL), e.g.
// wss://stream.binance.com:9443/ws/btcusdt@depth — Binance accepts the
// subscription encoded directly in the connect path, so no post-connect
// SUBSCRIBE frame is required for a single-symbol stream.
func New(venue instrument.Venue, id instrument.ID, market domain.MarketKind, streamURL string, supCfg supervisor.Config, sink app.SnapshotSink, log logger.LoggerInterface) *Client {
	supCfg.URL = streamURL
	c := &Client{
		venue:      venue,
		instrument: id,
		market:     market,
		sink:       sink,
		log:        log,
	}
	c.sup = supervisor.New(supCfg, log)
	c.sup.OnFrame(c.handleFrame)
	c.sup.OnStateChange(c.dispatchStateChange)
	return c
}

// Run drives the supervised session until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	return c.sup.Run(ctx)
}

// OnStateChange registers an additional observer (e.g. the TUI) for every
// session state transition, alongside this client's own logging.
func (c *Client) OnStateChange(h func(domain.SessionStateChange)) {
	c.external = h
}

func (c *Client) dispatchStateChange(change domain.SessionStateChange) {
	c.log.Info(context.Background(), "session state change", "venue", change.Venue, "from", change.From, "to", change.To)
	if c.external != nil {
		c.external(change)
	}
}

func (c *Client) handleFrame(ctx context.Context, raw []byte) {
	var f depthFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.log.Warn(ctx, "binance frame decode failed", "error", err, "venue", c.venue)
		return
	}
	if f.EventType == "" {
		// Subscription ack or other control frame; nothing to do.
		return
	}

	bid, okBid := bestLevel(f.Bids)
	ask, okAsk := bestLevel(f.Asks)
	if !okBid || !okAsk {
		return
	}

	market := domain.MarketSpot
	if f.isFutures() {
		market = domain.MarketFutures
	}

	snap, err := domain.NewPriceSnapshot(c.instrument, c.venue, market, bid, ask, time.UnixMilli(f.EventTime))
	if err != nil {
		c.log.Debug(ctx, "rejected binance snapshot", "error", err)
		return
	}
	c.sink.Update(ctx, snap)
}
