// Package animationtest provides a deterministic frame source for testing
// code built on the animation engine.
//
// A FakeClock stands in for animation.Clock and a FakeFrames for the
// engine's frame requester. Frames only fire when a test says so, at the
// time the test chooses:
//
//	clock := animationtest.NewFakeClock()
//	var frames animationtest.FakeFrames
//	eng := engine.New(engine.WithClock(clock), engine.WithFrameRequester(&frames))
//	...
//	frames.Pump(clock, time.Second/60, 600)
package animationtest

import (
	"sync"
	"time"
)

// Epoch is the instant every FakeClock starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a clock that only moves when advanced. It is safe for
// concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	elapsed time.Duration
}

// NewFakeClock returns a clock reading Epoch.
func NewFakeClock() *FakeClock { return &FakeClock{} }

// Now implements animation.Clock.
func (c *FakeClock) Now() time.Time { return Epoch.Add(c.Elapsed()) }

// Elapsed returns how far the clock has moved since Epoch.
func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Advance moves the clock forward by d and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.elapsed += d
	e := c.elapsed
	c.mu.Unlock()
	return Epoch.Add(e)
}

// FakeFrames is a frame requester that only fires when told to. It counts
// requests so tests can check that frame requests are coalesced.
type FakeFrames struct {
	mu       sync.Mutex
	pending  func(time.Time)
	requests int
}

// RequestFrame records fn as the callback for the next frame. A second
// request before Fire replaces the first.
func (f *FakeFrames) RequestFrame(fn func(now time.Time)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = fn
	f.requests++
}

// Requests returns how many frames have been requested so far.
func (f *FakeFrames) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// Pending reports whether a frame has been requested and not yet fired.
func (f *FakeFrames) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil
}

// Fire runs the pending frame callback at now. It reports false when no
// frame was pending.
func (f *FakeFrames) Fire(now time.Time) bool {
	f.mu.Lock()
	fn := f.pending
	f.pending = nil
	f.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(now)
	return true
}

// Pump advances clock by step and fires frames until none is pending or
// limit frames have run. It returns the number of frames fired.
func (f *FakeFrames) Pump(clock *FakeClock, step time.Duration, limit int) int {
	n := 0
	for n < limit && f.Pending() {
		f.Fire(clock.Advance(step))
		n++
	}
	return n
}
