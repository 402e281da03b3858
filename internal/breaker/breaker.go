// Package breaker implements a three-state circuit breaker protecting the
// upstream registry API.
package breaker

import (
	"sync"
	"time"

	"sejmlex/internal/logging"
)

// State is the breaker state.
type State int

const (
	// Closed lets all calls through.
	Closed State = iota
	// Open rejects all calls until the recovery timeout elapses.
	Open
	// HalfOpen lets a bounded number of probe calls through.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config holds breaker tuning.
type Config struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// breaker.
	FailureThreshold int
	// RecoveryTimeout is how long the breaker stays open before probing.
	RecoveryTimeout time.Duration
	// HalfOpenMaxCalls bounds concurrent probes while half-open, and is
	// also the success count required to close again.
	HalfOpenMaxCalls int
}

// DefaultConfig matches the production tuning for the registry API.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// CircuitBreaker tracks upstream health and short-circuits calls while the
// upstream is considered down.
type CircuitBreaker struct {
	mu     sync.Mutex
	config Config
	logger logging.Logger

	state            State
	failureCount     int
	successCount     int
	halfOpenInFlight int
	lastFailure      time.Time

	now func() time.Time
}

// New creates a closed breaker. Non-positive config fields fall back to the
// defaults.
func New(config Config, logger logging.Logger) *CircuitBreaker {
	defaults := DefaultConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = defaults.RecoveryTimeout
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = defaults.HalfOpenMaxCalls
	}
	return &CircuitBreaker{
		config: config,
		logger: logging.OrNop(logger),
		state:  Closed,
		now:    time.Now,
	}
}

// State returns the current state, moving open to half-open when the
// recovery timeout has elapsed. The transition happens here, lazily, rather
// than on a timer.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() State {
	if cb.state == Open && cb.now().Sub(cb.lastFailure) >= cb.config.RecoveryTimeout {
		cb.state = HalfOpen
		cb.successCount = 0
		cb.halfOpenInFlight = 0
		cb.logger.Info("circuit breaker half-open, probing upstream")
	}
	return cb.state
}

// CanExecute reports whether a call may proceed. In half-open state it also
// reserves one of the probe slots.
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.stateLocked() {
	case Closed:
		return true
	case HalfOpen:
		if cb.halfOpenInFlight < cb.config.HalfOpenMaxCalls {
			cb.halfOpenInFlight++
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess notes a successful upstream call. In half-open state enough
// successes close the breaker; in closed state the failure streak resets.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.stateLocked() {
	case HalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.HalfOpenMaxCalls {
			cb.state = Closed
			cb.failureCount = 0
			cb.successCount = 0
			cb.halfOpenInFlight = 0
			cb.logger.Info("circuit breaker closed, upstream recovered")
		}
	case Closed:
		cb.failureCount = 0
	}
}

// RecordFailure notes a failed upstream call. A half-open failure reopens
// immediately; in closed state the failure streak opens the breaker at the
// threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	switch cb.stateLocked() {
	case HalfOpen:
		cb.state = Open
		cb.lastFailure = now
		cb.successCount = 0
		cb.halfOpenInFlight = 0
		cb.logger.Warn("circuit breaker reopened after probe failure")
	case Closed:
		cb.failureCount++
		cb.lastFailure = now
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.state = Open
			cb.logger.Warn("circuit breaker opened after %d consecutive failures", cb.failureCount)
		}
	default:
		cb.lastFailure = now
	}
}

// Reset forces the breaker back to closed with all counters cleared.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = Closed
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenInFlight = 0
	cb.logger.Info("circuit breaker reset")
}

// FailureCount returns the current consecutive-failure count.
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}
