package resilience

import (
	"errors"
	"sync"
	"time"

	"stayscout/pkg/metrics"
)

// Breaker states.
const (
	StateClosed   = "CLOSED"
	StateOpen     = "OPEN"
	StateHalfOpen = "HALF_OPEN"
)

// ErrBreakerOpen is returned when the breaker rejects a call without
// invoking the wrapped operation.
var ErrBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards one logical call path. A single instance is shared
// by every worker fanning out to the provider; all state transitions happen
// under one mutex.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            string
	failureCount     int
	failureThreshold int
	lastFailure      time.Time
	recoveryTimeout  time.Duration
	now              func() time.Time
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		now:              time.Now,
	}
}

// Execute runs op under the breaker's discipline. While open, calls are
// rejected with ErrBreakerOpen until the recovery timeout elapses, after
// which a single trial call is let through.
func (cb *CircuitBreaker) Execute(op func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op()
	cb.afterCall(err)
	return err
}

// State reports the breaker's current state.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) > cb.recoveryTimeout {
			cb.transition(StateHalfOpen)
			return nil
		}
		return ErrBreakerOpen
	case StateHalfOpen:
		// the trial call is already in flight
		return ErrBreakerOpen
	}
	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// A success while closed leaves the count alone; only the half-open
	// trial clears accumulated failures.
	if err == nil {
		if cb.state == StateHalfOpen {
			cb.transition(StateClosed)
		}
		return
	}

	cb.lastFailure = cb.now()
	if cb.state == StateHalfOpen {
		cb.transition(StateOpen)
		return
	}

	cb.failureCount++
	if cb.failureCount >= cb.failureThreshold {
		cb.transition(StateOpen)
	}
}

// transition assumes the mutex is held.
func (cb *CircuitBreaker) transition(state string) {
	if cb.state == state {
		return
	}
	cb.state = state
	if state == StateClosed {
		cb.failureCount = 0
	}
	metrics.CircuitBreakerTransitionsTotal.WithLabelValues(state).Inc()
}
