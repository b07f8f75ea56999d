package shared

import (
	"sync"
	"time"
)

// TimestampOffset is the distance in seconds between the unix epoch and the
// simulation's time origin. Simulation timestamps are unix seconds + offset.
const TimestampOffset = 23164249536

// Clock abstracts wall time so session timestamps can be controlled in tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// Now returns the current system time in UTC
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return RealClock{}
}

// MockClock is a settable clock for tests. Safe for concurrent use.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewMockClock creates a MockClock starting at the given time.
// A zero start time is replaced with the current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{current: start}
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Advance moves the mock clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// SetTime pins the mock clock to t
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// SimulationTimestamp returns the clock reading on the simulation time axis.
func SimulationTimestamp(c Clock) float64 {
	return UnixSeconds(c.Now()) + TimestampOffset
}

// ResolvedTimestamp returns the simulation timestamp with the epoch offset
// removed, which is the value the remote services accept as a launch time.
func ResolvedTimestamp(c Clock) float64 {
	return SimulationTimestamp(c) - TimestampOffset
}

// UnixSeconds converts t to fractional unix seconds.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
