package common

import "time"

// Clock is the trusted time source for all time-gated checks; releasability,
// the voting window and the withdrawal restriction are evaluated against it
// at call time. Ledgers receive it at construction so tests can drive time
// explicitly.
type Clock interface {
	Now() time.Time
}

// LocalClock reads the host wall clock.
type LocalClock struct{}

func (LocalClock) Now() time.Time {
	return time.Now()
}

// TestClock is a settable clock for tests.
type TestClock struct {
	T time.Time
}

func NewTestClock(t time.Time) *TestClock {
	return &TestClock{T: t}
}

func (c *TestClock) Now() time.Time {
	return c.T
}

func (c *TestClock) Set(t time.Time) {
	c.T = t
}

func (c *TestClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
