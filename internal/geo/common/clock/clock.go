package clock

import "time"

// Clock abstracts wall-clock time so day bucketing can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a fixed, manually advanced time.
type MockClock struct {
	CurrentTime time.Time
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the mock clock forward (or backward, with a negative d).
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set pins the mock clock to t.
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
