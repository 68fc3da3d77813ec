package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProvider = errors.New("provider unavailable")

func failingOp(calls *int) func() error {
	return func() error {
		*calls++
		return errProvider
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	calls := 0
	for i := 0; i < 3; i++ {
		err := cb.Execute(failingOp(&calls))
		require.ErrorIs(t, err, errProvider)
	}
	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, 3, calls)

	// open breaker rejects without invoking the operation
	err := cb.Execute(failingOp(&calls))
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, 3, calls)
}

func TestCircuitBreakerSuccessLeavesFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	calls := 0
	require.Error(t, cb.Execute(failingOp(&calls)))
	require.Error(t, cb.Execute(failingOp(&calls)))
	require.NoError(t, cb.Execute(func() error { return nil }))

	// the success did not clear the count, so one more failure trips it
	require.Error(t, cb.Execute(failingOp(&calls)))
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreakerTrialSuccessClearsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(2, 30*time.Second)
	current := time.Now()
	cb.now = func() time.Time { return current }

	calls := 0
	require.Error(t, cb.Execute(failingOp(&calls)))
	require.Error(t, cb.Execute(failingOp(&calls)))
	require.Equal(t, StateOpen, cb.State())

	// a successful trial closes the breaker and starts counting from zero
	current = current.Add(31 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Equal(t, StateClosed, cb.State())

	require.Error(t, cb.Execute(failingOp(&calls)))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(1, 30*time.Second)
	current := time.Now()
	cb.now = func() time.Time { return current }

	require.Error(t, cb.Execute(func() error { return errProvider }))
	require.Equal(t, StateOpen, cb.State())

	// still inside the recovery window
	err := cb.Execute(func() error { return nil })
	require.ErrorIs(t, err, ErrBreakerOpen)

	// past the window a single trial call goes through and closes the breaker
	current = current.Add(31 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 30*time.Second)
	current := time.Now()
	cb.now = func() time.Time { return current }

	require.Error(t, cb.Execute(func() error { return errProvider }))
	current = current.Add(31 * time.Second)

	err := cb.Execute(func() error { return errProvider })
	require.ErrorIs(t, err, errProvider)
	assert.Equal(t, StateOpen, cb.State())

	// the failed trial refreshed the timestamp, so calls are rejected again
	err = cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

func TestCircuitBreakerSingleTrialDuringHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Millisecond)
	current := time.Now()
	cb.now = func() time.Time { return current }

	require.Error(t, cb.Execute(func() error { return errProvider }))
	current = current.Add(time.Second)

	trialStarted := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(func() error {
			close(trialStarted)
			<-release
			return nil
		})
	}()

	<-trialStarted
	// a second caller during the trial is rejected, not queued
	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, cb.State())
}
