// Package circuitbreaker wraps sony/gobreaker/v2 with the defaults this
// repository's long-lived streaming and trading clients share, so each
// caller only has to override the thresholds that differ from the norm.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config mirrors gobreaker.Settings; kept as a distinct type so callers
// depend on this package's defaults rather than reaching into gobreaker
// directly.
type Config struct {
	Name          string
	MaxRequests   uint32
	Interval      time.Duration
	Timeout       time.Duration
	ReadyToTrip   func(counts gobreaker.Counts) bool
	OnStateChange func(name string, from, to gobreaker.State)
	IsSuccessful  func(err error) bool
}

// DefaultConfig trips after 10 failures inside a 5-minute window and stays
// open for 5 minutes before allowing a single trial request through.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.TotalFailures >= 10
		},
	}
}

// CircuitBreaker wraps a generic gobreaker.CircuitBreaker.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New builds a CircuitBreaker from cfg.
func New[T any](cfg Config) *CircuitBreaker[T] {
	return &CircuitBreaker[T]{
		cb: gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
			Name:          cfg.Name,
			MaxRequests:   cfg.MaxRequests,
			Interval:      cfg.Interval,
			Timeout:       cfg.Timeout,
			ReadyToTrip:   cfg.ReadyToTrip,
			OnStateChange: cfg.OnStateChange,
			IsSuccessful:  cfg.IsSuccessful,
		}),
	}
}

// Execute runs req, routing through the breaker's current state.
func (c *CircuitBreaker[T]) Execute(req func() (T, error)) (T, error) {
	return c.cb.Execute(req)
}

// State returns the breaker's current state (closed, half-open, open).
func (c *CircuitBreaker[T]) State() gobreaker.State {
	return c.cb.State()
}
