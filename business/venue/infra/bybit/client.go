package bybit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arcbridge/venuearb/business/venue/app"
	"github.com/arcbridge/venuearb/business/venue/domain"
	"github.com/arcbridge/venuearb/business/venue/supervisor"
	"github.com/arcbridge/venuearb/internal/instrument"
	"github.com/arcbridge/venuearb/internal/logger"
	"github.com/arcbridge/venuearb/internal/wsconn"
)

// Client streams top-of-book orderbook updates for one instrument on one
// Bybit market (spot or linear futures) and feeds normalized snapshots
// into a sink.
type Client struct {
	venue      instrument.Venue
	instrument instrument.ID
	market     domain.MarketKind
	sup        *supervisor.Supervisor
	sink       app.SnapshotSink
	log        logger.LoggerInterface
	external   func(domain.SessionStateChange)
}

// New builds a Bybit venue client. wsURL is the market's public endpoint
// (e.g. wss://stream.bybit.com/v5/public/spot); unlike Binance, Bybit
// requires an explicit post-connect subscribe frame for orderbook.1.<SYM>.
func New(venue instrument.Venue, id instrument.ID, market domain.MarketKind, wsURL string, supCfg supervisor.Config, sink app.SnapshotSink, log logger.LoggerInterface) *Client {
	supCfg.URL = wsURL
	c := &Client{
		venue:      venue,
		instrument: id,
		market:     market,
		sink:       sink,
		log:        log,
	}
	c.sup = supervisor.New(supCfg, log)
	c.sup.OnFrame(c.handleFrame)
	c.sup.OnConnected(c.subscribe)
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

func (c *Client) subscribe(ctx context.Context, client *wsconn.Client) error {
	topic := instrument.SubscriptionTopic(c.instrument, c.venue)
	return client.SendJSON(ctx, subscribeRequest{Op: "subscribe", Args: []string{topic}})
}

func (c *Client) handleFrame(ctx context.Context, raw []byte) {
	var f orderbookFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.log.Warn(ctx, "bybit frame decode failed", "error", err, "venue", c.venue)
		return
	}
	if !f.isOrderbookFrame() {
		return
	}

	bid, okBid := bestLevel(f.Data.Bids)
	ask, okAsk := bestLevel(f.Data.Asks)
	if !okBid || !okAsk {
		return
	}

	snap, err := domain.NewPriceSnapshot(c.instrument, c.venue, c.market, bid, ask, time.Now())
	if err != nil {
		c.log.Debug(ctx, "rejected bybit snapshot", "error", err)
		return
	}
	c.sink.Update(ctx, snap)
}
