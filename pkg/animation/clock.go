package animation

import "time"

// Clock provides time for animations. Engines read it once per operation
// so that every animation started in the same call shares a start time.
// Tests inject animationtest.FakeClock to control timing deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }
