// Package supervisor owns one venue stream client's lifetime: connect,
// read frames, reconnect with backoff and jitter on failure, trip a
// circuit breaker under sustained instability, watch for silent
// connections, and rotate the underlying connection on a schedule. It
// wraps internal/wsconn rather than replacing it — wsconn handles the
// wire-level ping/read loop for a single connection; the supervisor
// decides when that connection should exist at all.
package supervisor

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arcbridge/venuearb/business/venue/domain"
	"github.com/arcbridge/venuearb/internal/circuitbreaker"
	"github.com/arcbridge/venuearb/internal/logger"
	"github.com/arcbridge/venuearb/internal/wsconn"
)

const meterName = "github.com/arcbridge/venuearb/business/venue/supervisor"

// FrameHandler receives a single raw message from the underlying stream.
type FrameHandler func(ctx context.Context, raw []byte)

// StateHandler receives every session state transition.
type StateHandler func(change domain.SessionStateChange)

// ConnectedHandler runs once right after a new connection is established
// and before frames start being pumped to the FrameHandler — the place for
// venues (like Bybit) that require an explicit post-connect subscribe
// frame rather than encoding the subscription in the connect URL.
type ConnectedHandler func(ctx context.Context, client *wsconn.Client) error

// Config configures one supervised venue session.
type Config struct {
	Name              string // e.g. "binance.spot/BTCUSDT"
	URL               string
	BaseBackoff       time.Duration
	MaxBackoff        time.Duration
	LivenessTimeout   time.Duration
	RotationInterval  time.Duration
	DisconnectWindow  time.Duration
	DisconnectLimit   int
	CircuitPause      time.Duration
}

// Supervisor drives the Disconnected/Connecting/Connected/Reconnecting/
// Rotating state machine for a single venue session.
type Supervisor struct {
	cfg    Config
	log    logger.LoggerInterface
	breaker *circuitbreaker.CircuitBreaker[*wsconn.Client]

	mu          sync.Mutex
	state       domain.SessionState
	consecFails int
	disconnects []time.Time

	onFrame     FrameHandler
	onState     StateHandler
	onConnected ConnectedHandler

	lastFrameMu sync.Mutex
	lastFrame   time.Time

	rotations metric.Int64Counter
	trips     metric.Int64Counter
}

// New builds a Supervisor for cfg. log should already be scoped with
// WithComponent to cfg.Name by the caller.
func New(cfg Config, log logger.LoggerInterface) *Supervisor {
	bc := circuitbreaker.DefaultConfig(cfg.Name)
	// The trip decision is made directly from the disconnection-timestamp
	// ring in recordFailure/awaitRetry, which is a true sliding window
	// over wall-clock time. gobreaker's own Counts are only cleared on a
	// periodic Interval tick (a tumbling window), which does not match
	// "10 disconnects within any trailing 300s" — so gobreaker is never
	// consulted for the trip itself, only used to execute the dial.
	bc.ReadyToTrip = func(gobreaker.Counts) bool { return false }

	s := &Supervisor{
		cfg:     cfg,
		log:     log,
		state:   domain.SessionDisconnected,
		breaker: circuitbreaker.New[*wsconn.Client](bc),
	}
	s.initMetrics()
	return s
}

func (s *Supervisor) initMetrics() {
	meter := otel.Meter(meterName)
	s.rotations, _ = meter.Int64Counter("venue_session_rotations_total",
		metric.WithDescription("Total proactive session rotations"))
	s.trips, _ = meter.Int64Counter("venue_session_circuit_trips_total",
		metric.WithDescription("Total circuit breaker trips"))
}

// OnFrame sets the handler invoked for every received message.
func (s *Supervisor) OnFrame(h FrameHandler) { s.onFrame = h }

// OnStateChange sets the handler invoked on every state transition.
func (s *Supervisor) OnStateChange(h StateHandler) { s.onState = h }

// OnConnected sets the handler invoked once per new connection, before any
// frames are delivered to the FrameHandler.
func (s *Supervisor) OnConnected(h ConnectedHandler) { s.onConnected = h }

// Run drives the session until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			s.setState(domain.SessionDisconnected, nil)
			return ctx.Err()
		}

		s.setState(domain.SessionConnecting, nil)

		client, err := s.connectOnce(ctx)
		if err != nil {
			n := s.recordFailure()
			s.log.Warn(ctx, "venue connect failed", "venue", s.cfg.Name, "error", err)
			s.setState(domain.SessionReconnecting, err)
			if !s.awaitRetry(ctx, n) {
				return ctx.Err()
			}
			continue
		}

		if s.onConnected != nil {
			if err := s.onConnected(ctx, client); err != nil {
				client.Close()
				n := s.recordFailure()
				s.log.Warn(ctx, "venue post-connect handshake failed", "venue", s.cfg.Name, "error", err)
				s.setState(domain.SessionReconnecting, err)
				if !s.awaitRetry(ctx, n) {
					return ctx.Err()
				}
				continue
			}
		}

		s.consecFails = 0
		s.setState(domain.SessionConnected, nil)
		s.touchLiveness()

		reason := s.serve(ctx, client)
		client.Close()

		switch reason {
		case reasonCtxDone:
			s.setState(domain.SessionDisconnected, nil)
			return ctx.Err()
		case reasonRotation:
			s.rotations.Add(ctx, 1, metric.WithAttributes(attribute.String("venue", s.cfg.Name)))
			s.setState(domain.SessionRotating, nil)
			continue
		case reasonLivenessExpired, reasonRemoteDisconnect:
			n := s.recordFailure()
			s.setState(domain.SessionReconnecting, errors.New(string(reason)))
			if !s.awaitRetry(ctx, n) {
				return ctx.Err()
			}
		}
	}
}

type closeReason string

const (
	reasonCtxDone          closeReason = "context cancelled"
	reasonRotation         closeReason = "scheduled rotation"
	reasonLivenessExpired  closeReason = "liveness timeout"
	reasonRemoteDisconnect closeReason = "remote disconnect"
)

// connectOnce attempts a single connection through the circuit breaker. If
// the breaker is open, it returns immediately with the breaker's error
// instead of attempting the dial.
func (s *Supervisor) connectOnce(ctx context.Context) (*wsconn.Client, error) {
	return s.breaker.Execute(func() (*wsconn.Client, error) {
		wscfg := wsconn.DefaultConfig(s.cfg.URL, s.cfg.Name)
		wscfg.InitialBackoff = s.cfg.BaseBackoff
		wscfg.MaxBackoff = s.cfg.MaxBackoff
		wscfg.MaxReconnects = 1 // the supervisor owns retries, not wsconn

		client, err := wsconn.New(wscfg)
		if err != nil {
			return nil, err
		}
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		return client, nil
	})
}

// serve pumps messages from client until it disconnects, the liveness
// timer expires, the rotation deadline passes, or ctx is cancelled.
func (s *Supervisor) serve(ctx context.Context, client *wsconn.Client) closeReason {
	rotateAt := time.Now().Add(s.cfg.RotationInterval)
	watchdog := time.NewTicker(1 * time.Second)
	defer watchdog.Stop()

	for {
		select {
		case <-ctx.Done():
			return reasonCtxDone
		case raw, ok := <-client.Messages():
			if !ok {
				return reasonRemoteDisconnect
			}
			s.touchLiveness()
			if s.onFrame != nil {
				s.onFrame(ctx, raw)
			}
		case <-watchdog.C:
			if !client.IsConnected() && client.State() != wsconn.StateConnecting {
				return reasonRemoteDisconnect
			}
			if time.Since(s.livenessSince()) > s.cfg.LivenessTimeout {
				return reasonLivenessExpired
			}
			if time.Now().After(rotateAt) {
				return reasonRotation
			}
		}
	}
}

func (s *Supervisor) touchLiveness() {
	s.lastFrameMu.Lock()
	s.lastFrame = time.Now()
	s.lastFrameMu.Unlock()
}

func (s *Supervisor) livenessSince() time.Time {
	s.lastFrameMu.Lock()
	defer s.lastFrameMu.Unlock()
	return s.lastFrame
}

// recordFailure appends a disconnection timestamp to the sliding-window
// ring and prunes everything older than DisconnectWindow, so the ring
// always holds exactly the disconnections within the trailing window. It
// returns the resulting count, which is the true source of truth for the
// circuit breaker's trip decision.
func (s *Supervisor) recordFailure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecFails++

	now := time.Now()
	s.disconnects = append(s.disconnects, now)
	cutoff := now.Add(-s.cfg.DisconnectWindow)
	kept := s.disconnects[:0]
	for _, ts := range s.disconnects {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	s.disconnects = kept
	return len(s.disconnects)
}

// awaitRetry waits the circuit-breaker pause if disconnectsInWindow has
// just reached the configured limit within DisconnectWindow (P9), or the
// ordinary exponential backoff otherwise. Returns false if ctx was
// cancelled during the wait.
func (s *Supervisor) awaitRetry(ctx context.Context, disconnectsInWindow int) bool {
	if disconnectsInWindow >= s.cfg.DisconnectLimit {
		return s.tripCircuit(ctx)
	}
	return s.sleepBackoff(ctx)
}

// tripCircuit clears the disconnection ring and pauses for CircuitPause,
// implementing "10 disconnects within 300s -> sleep 300s, clear the ring"
// literally against the ring rather than against gobreaker's own counts.
func (s *Supervisor) tripCircuit(ctx context.Context) bool {
	s.mu.Lock()
	s.disconnects = nil
	s.mu.Unlock()

	if s.trips != nil {
		s.trips.Add(ctx, 1, metric.WithAttributes(attribute.String("venue", s.cfg.Name)))
	}
	s.log.Warn(ctx, "circuit breaker tripped", "venue", s.cfg.Name, "pause", s.cfg.CircuitPause)

	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.cfg.CircuitPause):
		return true
	}
}

// sleepBackoff waits base*2^consecFails capped at max, plus uniform
// [0,500)ms jitter. Returns false if ctx was cancelled during the wait.
func (s *Supervisor) sleepBackoff(ctx context.Context) bool {
	s.mu.Lock()
	n := s.consecFails
	s.mu.Unlock()

	jitter := time.Duration(rand.Int63n(int64(500 * time.Millisecond)))
	wait := backoffDuration(s.cfg.BaseBackoff, s.cfg.MaxBackoff, n) + jitter

	select {
	case <-ctx.Done():
		return false
	case <-time.After(wait):
		return true
	}
}

// backoffDuration computes min(base*2^n, max): after n consecutive
// failures, the next wait is base doubled n times, capped at max.
func backoffDuration(base, max time.Duration, n int) time.Duration {
	backoff := base
	for i := 0; i < n; i++ {
		backoff *= 2
		if backoff >= max {
			return max
		}
	}
	return backoff
}

func (s *Supervisor) setState(to domain.SessionState, err error) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()

	if from == to {
		return
	}
	if s.onState != nil {
		s.onState(domain.SessionStateChange{Venue: s.cfg.Name, From: from, To: to, Err: err})
	}
}

// State returns the current session state.
func (s *Supervisor) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DisconnectCount returns the number of disconnects currently inside the
// trailing DisconnectWindow.
func (s *Supervisor) DisconnectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.disconnects)
}
