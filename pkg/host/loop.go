// Package host runs an engine on a goroutine of its own.
//
// A [Loop] is the frame source for an engine: it implements
// engine.FrameRequester, fires requested frames at a fixed rate, and runs
// callbacks handed to it from other goroutines on the loop goroutine so
// that the engine is only ever touched from one place.
package host

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/errors"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// Loop is a ticker-driven frame loop.
type Loop struct {
	interval time.Duration
	clock    animation.Clock

	mu     sync.Mutex
	queue  []func()
	frame  func(now time.Time)
	frames int
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the clock frame times are read from.
func WithClock(c animation.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

// NewLoop creates a loop running at fps frames per second.
func NewLoop(fps int, opts ...Option) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	l := &Loop{
		interval: time.Second / time.Duration(fps),
		clock:    animation.SystemClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration { return l.interval }

// RequestFrame schedules fn for the next frame. Only the latest request
// is kept.
func (l *Loop) RequestFrame(fn func(now time.Time)) {
	l.mu.Lock()
	l.frame = fn
	l.mu.Unlock()
}

// Dispatch schedules fn to run on the loop goroutine at the start of the
// next frame. It is safe to call from any goroutine.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// Do runs fn on the loop goroutine and waits for it to finish or for ctx
// to be done.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Dispatch(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frames returns how many frame callbacks have run.
func (l *Loop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Idle reports whether no frame or dispatched callback is waiting.
func (l *Loop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame == nil && len(l.queue) == 0
}

func (l *Loop) drainDispatchQueue() []func() {
	l.mu.Lock()
	callbacks := l.queue
	l.queue = nil
	l.mu.Unlock()
	return callbacks
}

// Step runs one frame: dispatched callbacks first, then the requested
// frame callback, if any. Run calls it on every tick.
func (l *Loop) Step(now time.Time) {
	for _, cb := range l.drainDispatchQueue() {
		l.run("host.Loop.Dispatch", cb)
	}

	l.mu.Lock()
	fn := l.frame
	l.frame = nil
	if fn != nil {
		l.frames++
	}
	l.mu.Unlock()

	if fn != nil {
		l.run("host.Loop.Frame", func() { fn(now) })
	}
}

func (l *Loop) run(op string, fn func()) {
	defer errors.Recover(op)
	fn()
}

// Run fires frames until ctx is done and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	log.Printf("host: frame loop running at %v per frame", l.interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step(l.clock.Now())
		}
	}
}
