package apiclient

import (
	"errors"
	"sync"
	"time"
)

// ErrServerUnavailable is the cause attached to calls refused while the
// breaker is open.
var ErrServerUnavailable = errors.New("servidor no disponible")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "closed"
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
)

// breaker stops the client from hammering a backend that keeps failing.
// Only transport errors and 5xx answers count as failures; after cooldown a
// single trial call is let through and its outcome decides the next state.
type breaker struct {
	failures int
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	state    breakerState
	count    int
	openedAt time.Time
	probing  bool
}

func newBreaker(failures int, cooldown time.Duration) *breaker {
	if failures <= 0 {
		failures = defaultBreakerFailures
	}
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}
	return &breaker{failures: failures, cooldown: cooldown, now: time.Now}
}

// allow reports whether a call may go out now.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case breakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = breakerHalfOpen
		b.probing = true
		return true
	case breakerHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	}
	return true
}

func (b *breaker) record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
	if !failed {
		b.state = breakerClosed
		b.count = 0
		return
	}
	b.count++
	if b.state == breakerHalfOpen || b.count >= b.failures {
		b.state = breakerOpen
		b.openedAt = b.now()
	}
}

func (b *breaker) current() breakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
