package download

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// circuitState represents the state of a circuit breaker
type circuitState int

const (
	stateClosed   circuitState = iota // Normal operation
	stateOpen                         // Platform failing, requests short-circuit
	stateHalfOpen                     // Next request tests recovery
)

func (s circuitState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// circuitBreaker tracks consecutive upstream failures per platform and stops
// contacting a platform that keeps failing
type circuitBreaker struct {
	now              func() time.Time
	failures         map[platform.Platform]int
	lastFailure      map[platform.Platform]time.Time
	state            map[platform.Platform]circuitState
	failureThreshold int
	openDuration     time.Duration
	mu               sync.Mutex
}

func newCircuitBreaker(threshold int, openDuration time.Duration, now func() time.Time) *circuitBreaker {
	return &circuitBreaker{
		now:              now,
		failureThreshold: threshold,
		openDuration:     openDuration,
		failures:         make(map[platform.Platform]int),
		lastFailure:      make(map[platform.Platform]time.Time),
		state:            make(map[platform.Platform]circuitState),
	}
}

// canAttempt returns nil if the platform may be contacted, or an error
// wrapping media.ErrPlatformUnavailable while the circuit is open
func (cb *circuitBreaker) canAttempt(p platform.Platform) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state[p] != stateOpen {
		return nil
	}

	lastFail := cb.lastFailure[p]
	if cb.now().Sub(lastFail) > cb.openDuration {
		cb.state[p] = stateHalfOpen
		slog.Info("[CIRCUIT] circuit is now half-open", "platform", p)
		return nil
	}

	nextRetry := lastFail.Add(cb.openDuration)
	return fmt.Errorf("%w: %s (failures: %d, next retry: %s)",
		media.ErrPlatformUnavailable, p, cb.failures[p], nextRetry.Format("15:04:05"))
}

// recordSuccess resets failure tracking for p
func (cb *circuitBreaker) recordSuccess(p platform.Platform) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	old := cb.state[p]
	delete(cb.failures, p)
	delete(cb.lastFailure, p)
	cb.state[p] = stateClosed

	if old != stateClosed {
		slog.Info("[CIRCUIT] circuit closed, platform recovered", "platform", p)
	}
}

// recordFailure counts a failed upstream attempt for p
func (cb *circuitBreaker) recordFailure(p platform.Platform, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[p]++
	cb.lastFailure[p] = cb.now()
	count := cb.failures[p]

	// A failed half-open attempt reopens immediately.
	if count >= cb.failureThreshold || cb.state[p] == stateHalfOpen {
		if cb.state[p] != stateOpen {
			slog.Warn("[CIRCUIT] opening circuit",
				"platform", p,
				"failures", count,
				"error", err,
			)
		}
		cb.state[p] = stateOpen
		return
	}

	slog.Warn("[CIRCUIT] upstream failure",
		"platform", p,
		"failures", count,
		"threshold", cb.failureThreshold,
		"error", err,
	)
}

// stateOf returns the current state for p
func (cb *circuitBreaker) stateOf(p platform.Platform) circuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state[p]
}
