package breaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBreaker(cfg Config) (*CircuitBreaker, *time.Time) {
	cb := New(cfg, nil)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return clock }
	return cb, &clock
}

func TestStartsClosed(t *testing.T) {
	cb, _ := newTestBreaker(Config{})
	assert.Equal(t, Closed, cb.State())
	assert.True(t, cb.CanExecute())
	assert.Equal(t, 0, cb.FailureCount())
}

func TestOpensAtFailureThreshold(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3})

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, Closed, cb.State())
	assert.True(t, cb.CanExecute())

	cb.RecordFailure()
	assert.Equal(t, Open, cb.State())
	assert.False(t, cb.CanExecute())
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	assert.Equal(t, Closed, cb.State())
	assert.Equal(t, 2, cb.FailureCount())
}

func TestHalfOpenAfterRecoveryTimeout(t *testing.T) {
	cb, clock := newTestBreaker(Config{FailureThreshold: 1, RecoveryTimeout: time.Minute})

	cb.RecordFailure()
	assert.Equal(t, Open, cb.State())

	*clock = clock.Add(30 * time.Second)
	assert.Equal(t, Open, cb.State())

	*clock = clock.Add(31 * time.Second)
	assert.Equal(t, HalfOpen, cb.State())
}

func TestHalfOpenProbeBudget(t *testing.T) {
	cb, clock := newTestBreaker(Config{FailureThreshold: 1, RecoveryTimeout: time.Minute, HalfOpenMaxCalls: 3})

	cb.RecordFailure()
	*clock = clock.Add(2 * time.Minute)

	assert.True(t, cb.CanExecute())
	assert.True(t, cb.CanExecute())
	assert.True(t, cb.CanExecute())
	assert.False(t, cb.CanExecute(), "probe budget exhausted")
}

func TestHalfOpenClosesAfterEnoughSuccesses(t *testing.T) {
	cb, clock := newTestBreaker(Config{FailureThreshold: 1, RecoveryTimeout: time.Minute, HalfOpenMaxCalls: 3})

	cb.RecordFailure()
	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, HalfOpen, cb.State())

	cb.RecordSuccess()
	cb.RecordSuccess()
	assert.Equal(t, HalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, Closed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
	assert.True(t, cb.CanExecute())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(Config{FailureThreshold: 1, RecoveryTimeout: time.Minute})

	cb.RecordFailure()
	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, HalfOpen, cb.State())

	cb.RecordSuccess()
	cb.RecordFailure()
	assert.Equal(t, Open, cb.State())
	assert.False(t, cb.CanExecute())

	// The recovery window restarts from the probe failure.
	*clock = clock.Add(61 * time.Second)
	assert.Equal(t, HalfOpen, cb.State())
}

func TestReset(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 1})

	cb.RecordFailure()
	assert.Equal(t, Open, cb.State())

	cb.Reset()
	assert.Equal(t, Closed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
	assert.True(t, cb.CanExecute())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half_open", HalfOpen.String())
}
