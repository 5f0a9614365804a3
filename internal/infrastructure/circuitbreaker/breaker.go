// Package circuitbreaker guards calls to external provider APIs such
// as the Termii SMS gateway. A run of consecutive failures opens the
// circuit so a flapping provider fails fast instead of stalling signup
// and verification flows; after a cool-down a limited number of probe
// requests decides whether to close it again.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the current position of a breaker.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var (
	// ErrOpen is returned while the circuit is open and calls are
	// rejected without reaching the provider.
	ErrOpen = errors.New("circuit breaker is open")

	// ErrProbeLimit is returned in the half-open state once the probe
	// allowance for the current recovery attempt is used up.
	ErrProbeLimit = errors.New("circuit breaker probe limit reached")
)

// Config tunes a breaker. Zero values fall back to defaults suited to
// a slow third-party REST gateway.
type Config struct {
	// Name identifies the guarded provider in logs.
	Name string

	// TripAfter is the number of consecutive failures that opens the
	// circuit. Default 5.
	TripAfter uint32

	// RecoverAfter is the number of consecutive half-open successes
	// that closes it again. Default 2.
	RecoverAfter uint32

	// ProbeLimit caps concurrent requests let through while half-open.
	// Default 3.
	ProbeLimit uint32

	// CoolDown is how long the circuit stays open before probing.
	// Default 30s.
	CoolDown time.Duration

	// ResetInterval clears the failure streak in the closed state so
	// sporadic errors spread over hours never accumulate into a trip.
	// Default 60s.
	ResetInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.TripAfter == 0 {
		c.TripAfter = 5
	}
	if c.RecoverAfter == 0 {
		c.RecoverAfter = 2
	}
	if c.ProbeLimit == 0 {
		c.ProbeLimit = 3
	}
	if c.CoolDown == 0 {
		c.CoolDown = 30 * time.Second
	}
	if c.ResetInterval == 0 {
		c.ResetInterval = 60 * time.Second
	}
	return c
}

type counters struct {
	requests             uint32
	consecutiveFailures  uint32
	consecutiveSuccesses uint32
}

// Breaker tracks the failure streak of one provider. Generations make
// results from before a state change count against nothing: a slow
// request that started while the circuit was closed cannot re-trip a
// circuit that has since moved on.
type Breaker struct {
	cfg Config
	log *zap.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	counts     counters
	deadline   time.Time
}

func New(cfg Config, log *zap.Logger) *Breaker {
	b := &Breaker{
		cfg: cfg.withDefaults(),
		log: log,
	}
	b.nextGeneration(time.Now())
	return b
}

// Name returns the provider name this breaker guards.
func (b *Breaker) Name() string {
	return b.cfg.Name
}

// State reports the current state, promoting open to half-open when
// the cool-down has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, _ := b.currentState(time.Now())
	return state
}

// Call runs fn under the breaker. While open it returns ErrOpen
// without invoking fn. The result is passed through regardless of
// whether the call counted as a failure.
func (b *Breaker) Call(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	generation, err := b.admit()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			b.settle(generation, false)
			panic(r)
		}
	}()

	result, err := fn(ctx)
	b.settle(generation, err == nil)
	return result, err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state, generation := b.currentState(now)

	switch state {
	case StateOpen:
		return generation, ErrOpen
	case StateHalfOpen:
		if b.counts.requests >= b.cfg.ProbeLimit {
			return generation, ErrProbeLimit
		}
	}

	b.counts.requests++
	return generation, nil
}

func (b *Breaker) settle(before uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state, generation := b.currentState(now)
	if generation != before {
		return
	}

	if success {
		b.onSuccess(state, now)
	} else {
		b.onFailure(state, now)
	}
}

func (b *Breaker) onSuccess(state State, now time.Time) {
	b.counts.consecutiveSuccesses++
	b.counts.consecutiveFailures = 0
	if state == StateHalfOpen && b.counts.consecutiveSuccesses >= b.cfg.RecoverAfter {
		b.transition(StateClosed, now)
	}
}

func (b *Breaker) onFailure(state State, now time.Time) {
	switch state {
	case StateClosed:
		b.counts.consecutiveFailures++
		b.counts.consecutiveSuccesses = 0
		if b.counts.consecutiveFailures >= b.cfg.TripAfter {
			b.transition(StateOpen, now)
		}
	case StateHalfOpen:
		// A failed probe re-opens immediately.
		b.transition(StateOpen, now)
	}
}

func (b *Breaker) currentState(now time.Time) (State, uint64) {
	switch b.state {
	case StateClosed:
		if !b.deadline.IsZero() && b.deadline.Before(now) {
			b.nextGeneration(now)
		}
	case StateOpen:
		if b.deadline.Before(now) {
			b.transition(StateHalfOpen, now)
		}
	}
	return b.state, b.generation
}

func (b *Breaker) transition(state State, now time.Time) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	b.nextGeneration(now)

	b.log.Info("Circuit breaker state changed",
		zap.String("name", b.cfg.Name),
		zap.String("from", prev.String()),
		zap.String("to", state.String()),
	)
}

func (b *Breaker) nextGeneration(now time.Time) {
	b.generation++
	b.counts = counters{}

	switch b.state {
	case StateClosed:
		b.deadline = now.Add(b.cfg.ResetInterval)
	case StateOpen:
		b.deadline = now.Add(b.cfg.CoolDown)
	default:
		b.deadline = time.Time{}
	}
}

// IsOpen reports whether err is a breaker rejection rather than a
// provider failure.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen) || errors.Is(err, ErrProbeLimit)
}
