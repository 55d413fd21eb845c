// Package venue is the top-level bounded-context module: it wires one
// supervised stream client per (venue, market, instrument) into the shared
// Market Tracker, and wires the tracker's comparator output through the
// alert gate into the notification mailbox and worker.
package venue

import (
	"context"
	"time"

	"github.com/arcbridge/venuearb/business/alertgate"
	"github.com/arcbridge/venuearb/business/notifier"
	"github.com/arcbridge/venuearb/business/venue/app"
	"github.com/arcbridge/venuearb/business/venue/domain"
	"github.com/arcbridge/venuearb/business/venue/infra/binance"
	"github.com/arcbridge/venuearb/business/venue/infra/bybit"
	"github.com/arcbridge/venuearb/business/venue/supervisor"
	"github.com/arcbridge/venuearb/internal/config"
	"github.com/arcbridge/venuearb/internal/di"
	"github.com/arcbridge/venuearb/internal/instrument"
	"github.com/arcbridge/venuearb/internal/logger"
	"github.com/arcbridge/venuearb/internal/monolith"
)

// Module implements monolith.Module for the venue/detection/notification
// bounded context.
type Module struct {
	tracker *app.Tracker
	gate    *alertgate.Gate
	mailbox *notifier.Mailbox
	worker  *notifier.Worker
	clients []app.VenueClient

	onSessionState func(domain.SessionStateChange)
	onAlert        func(app.Dislocation)
}

// New builds an empty Module; RegisterServices/Startup do the real wiring
// once the monolith's config and logger are available.
func New() *Module {
	return &Module{}
}

// Observe registers optional callbacks for session state transitions and
// accepted alerts, e.g. so a TUI can mirror them without this package
// depending on pkg/ui. Must be called before Startup.
func (m *Module) Observe(onSessionState func(domain.SessionStateChange), onAlert func(app.Dislocation)) {
	m.onSessionState = onSessionState
	m.onAlert = onAlert
}

// observingMailbox forwards to an underlying alertgate.Mailbox and reports
// each alert to the module's observer once the underlying mailbox has
// accepted it.
type observingMailbox struct {
	inner alertgate.Mailbox
	onAlert func(app.Dislocation)
}

func (o observingMailbox) TryEnqueue(alert app.Dislocation) bool {
	accepted := o.inner.TryEnqueue(alert)
	if accepted && o.onAlert != nil {
		o.onAlert(alert)
	}
	return accepted
}

// RegisterServices registers nothing additional; every service this module
// builds is constructed in Startup, once the monolith's instrument registry
// and config are resolvable, and is not itself needed by other modules.
func (m *Module) RegisterServices(c di.Container) error {
	return nil
}

// Startup builds the comparator/gate/mailbox/notification pipeline, then
// spawns one supervised stream client per watched instrument per venue.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	comparator := app.NewComparator(cfg.Detector.DiffThresholdPctDecimal())

	mailbox := notifier.NewMailbox(cfg.Detector.MailboxCapacity)
	var sink *notifier.TelegramSink
	if cfg.Telegram.Enabled() {
		var err error
		sink, err = notifier.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return err
		}
	} else {
		log.Warn(ctx, "telegram credentials missing, notifications disabled")
	}
	worker := notifier.NewWorker(mailbox, sink, log)

	var gateMailbox alertgate.Mailbox = mailbox
	if m.onAlert != nil {
		gateMailbox = observingMailbox{inner: mailbox, onAlert: m.onAlert}
	}

	gate := alertgate.New(
		cfg.Detector.DiffThresholdPctDecimal(),
		cfg.Detector.ReAlertDeltaPctDecimal(),
		cfg.Detector.CooldownSeconds,
		gateMailbox,
		log,
	)

	tracker := app.NewTracker(comparator, gate, log)

	m.tracker = tracker
	m.gate = gate
	m.mailbox = mailbox
	m.worker = worker

	go worker.Run(ctx)
	go m.runGateResetLoop(ctx, cfg.Detector.GateResetInterval)

	for _, id := range mono.Instruments().All() {
		m.clients = append(m.clients, m.buildClient(id, instrument.BinanceSpot, domain.MarketSpot, cfg, log, tracker))
		m.clients = append(m.clients, m.buildClient(id, instrument.BinanceFutures, domain.MarketFutures, cfg, log, tracker))
		m.clients = append(m.clients, m.buildClient(id, instrument.BybitSpot, domain.MarketSpot, cfg, log, tracker))
		m.clients = append(m.clients, m.buildClient(id, instrument.BybitFutures, domain.MarketFutures, cfg, log, tracker))
	}

	for _, client := range m.clients {
		client := client
		go func() {
			if err := client.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error(ctx, "venue client stopped", "error", err)
			}
		}()
	}

	return nil
}

func (m *Module) buildClient(id instrument.ID, venue instrument.Venue, market domain.MarketKind, cfg *config.Config, log logger.LoggerInterface, tracker *app.Tracker) app.VenueClient {
	supCfg := supervisor.Config{
		Name:             string(venue) + "/" + string(id),
		BaseBackoff:      cfg.Venues.BaseBackoff,
		MaxBackoff:       cfg.Venues.MaxBackoff,
		LivenessTimeout:  cfg.Venues.LivenessTimeout,
		RotationInterval: cfg.Venues.RotationInterval,
		DisconnectWindow: cfg.Venues.DisconnectWindow,
		DisconnectLimit:  cfg.Venues.DisconnectLimit,
		CircuitPause:     cfg.Venues.CircuitPause,
	}

	clog := log.WithComponent(supCfg.Name)

	var client app.VenueClient
	switch venue {
	case instrument.BinanceSpot:
		url := instrument.StreamURL(cfg.Venues.BinanceSpotWSURL, id, venue)
		client = binance.New(venue, id, market, url, supCfg, tracker, clog)
	case instrument.BinanceFutures:
		url := instrument.StreamURL(cfg.Venues.BinanceFuturesWSURL, id, venue)
		client = binance.New(venue, id, market, url, supCfg, tracker, clog)
	case instrument.BybitSpot:
		client = bybit.New(venue, id, market, cfg.Venues.BybitSpotWSURL, supCfg, tracker, clog)
	case instrument.BybitFutures:
		client = bybit.New(venue, id, market, cfg.Venues.BybitFuturesWSURL, supCfg, tracker, clog)
	default:
		panic("unknown venue: " + string(venue))
	}

	if observer, ok := client.(interface {
		OnStateChange(func(domain.SessionStateChange))
	}); ok && m.onSessionState != nil {
		observer.OnStateChange(m.onSessionState)
	}

	return client
}

func (m *Module) runGateResetLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.gate.Reset()
		}
	}
}
