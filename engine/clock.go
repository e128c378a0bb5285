package engine

import "time"

// Clock is the time source injected into every subsystem that reasons
// about durations. Production code uses MonotonicClock; tests use
// MockClock so effect expiry is deterministic.
type Clock interface {
	Now() time.Time
}

// MonotonicClock provides the real system time with monotonic clock readings
type MonotonicClock struct{}

// NewMonotonicClock creates a new monotonic time provider
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{}
}

// Now returns the current time with monotonic clock reading
func (c *MonotonicClock) Now() time.Time {
	return time.Now()
}
