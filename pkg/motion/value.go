// Package motion provides reactive value containers that animations write
// into and render surfaces read from.
//
// A [Value] holds the current value of one animated property, an estimate
// of its velocity, and an ordered list of subscribers notified
// synchronously on every change. Values are not safe for concurrent
// mutation; hosts serialize access through their frame loop.
package motion

import (
	"slices"
	"time"

	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/value"
)

// Token identifies a subscription. The zero Token is never issued.
type Token struct {
	slot int
	gen  uint32
}

type subscriber[T any] struct {
	fn   func(T)
	gen  uint32
	live bool
}

// Value is an observable value with a velocity estimate.
//
// Subscribers live in an arena of generation-checked slots. A notification
// pass walks a snapshot of the subscription order taken before the first
// callback, so callbacks may subscribe or unsubscribe freely: subscribers
// added during a pass are first called on the next change, and subscribers
// removed during a pass are skipped if they have not run yet.
type Value[T any] struct {
	current  T
	velocity float64
	lastSet  time.Time

	subs  []subscriber[T]
	free  []int
	order []int

	disposed bool
	now      func() time.Time
	delta    func(prev, next T) float64
}

// Option configures a Value.
type Option[T any] func(*Value[T])

// WithNow sets the time source used to derive velocity.
func WithNow[T any](now func() time.Time) Option[T] {
	return func(v *Value[T]) { v.now = now }
}

// WithDelta sets the function that measures the change between two values.
// Without it, Set leaves the velocity at zero.
func WithDelta[T any](delta func(prev, next T) float64) Option[T] {
	return func(v *Value[T]) { v.delta = delta }
}

// New returns a Value holding initial with zero velocity and no subscribers.
func New[T any](initial T, opts ...Option[T]) *Value[T] {
	v := &Value[T]{current: initial, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewNumber returns a float64 Value that derives its velocity from
// successive sets.
func NewNumber(initial float64, opts ...Option[float64]) *Value[float64] {
	opts = append([]Option[float64]{WithDelta(func(prev, next float64) float64 { return next - prev })}, opts...)
	return New(initial, opts...)
}

// NewAnimatable returns a Value for an animatable property. Scalar values
// (numbers, lengths, angles) derive their velocity from successive sets.
func NewAnimatable(initial value.Value, opts ...Option[value.Value]) *Value[value.Value] {
	opts = append([]Option[value.Value]{WithDelta(value.Delta)}, opts...)
	return New(initial, opts...)
}

// Get returns the current value.
func (v *Value[T]) Get() T { return v.current }

// Velocity returns the current velocity estimate in units per second.
func (v *Value[T]) Velocity() float64 { return v.velocity }

// Set stores next, derives the velocity from the change since the previous
// Set, and notifies subscribers in subscription order.
func (v *Value[T]) Set(next T) {
	now := v.now()
	if v.delta != nil && !v.lastSet.IsZero() {
		if dt := now.Sub(v.lastSet).Seconds(); dt > 0 {
			v.velocity = v.delta(v.current, next) / dt
		}
	}
	v.store(next, now)
}

// SetWithVelocity stores next with an explicit velocity, such as the
// release speed of a drag gesture, and notifies subscribers.
func (v *Value[T]) SetWithVelocity(next T, velocity float64) {
	v.velocity = velocity
	v.store(next, v.now())
}

// Jump stores next, resets the velocity to zero and notifies subscribers.
func (v *Value[T]) Jump(next T) {
	v.velocity = 0
	v.store(next, v.now())
}

func (v *Value[T]) store(next T, now time.Time) {
	v.current = next
	v.lastSet = now
	v.notify(next)
}

func (v *Value[T]) notify(current T) {
	if v.disposed || len(v.order) == 0 {
		return
	}
	type entry struct {
		slot int
		gen  uint32
	}
	snapshot := make([]entry, len(v.order))
	for i, slot := range v.order {
		snapshot[i] = entry{slot: slot, gen: v.subs[slot].gen}
	}
	for _, e := range snapshot {
		if v.disposed {
			return
		}
		s := v.subs[e.slot]
		if !s.live || s.gen != e.gen {
			continue
		}
		v.call(s.fn, current)
	}
}

func (v *Value[T]) call(fn func(T), current T) {
	defer errors.Recover("motion.Value.notify")
	fn(current)
}

// Subscribe registers fn to be called with the new value after every
// change. It returns the zero Token if the Value has been disposed.
func (v *Value[T]) Subscribe(fn func(T)) Token {
	if v.disposed || fn == nil {
		return Token{}
	}
	var slot int
	if n := len(v.free); n > 0 {
		slot = v.free[n-1]
		v.free = v.free[:n-1]
	} else {
		slot = len(v.subs)
		v.subs = append(v.subs, subscriber[T]{})
	}
	s := &v.subs[slot]
	s.gen++
	s.fn = fn
	s.live = true
	v.order = append(v.order, slot)
	return Token{slot: slot, gen: s.gen}
}

// Unsubscribe removes the subscription identified by tok. Unknown, stale
// and repeated tokens are ignored.
func (v *Value[T]) Unsubscribe(tok Token) {
	if tok.gen == 0 || tok.slot < 0 || tok.slot >= len(v.subs) {
		return
	}
	s := &v.subs[tok.slot]
	if !s.live || s.gen != tok.gen {
		return
	}
	s.live = false
	s.fn = nil
	v.free = append(v.free, tok.slot)
	if i := slices.Index(v.order, tok.slot); i >= 0 {
		v.order = slices.Delete(v.order, i, i+1)
	}
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int { return len(v.order) }

// Dispose detaches every subscriber. Later changes are stored but notify
// nobody, and Subscribe becomes a no-op.
func (v *Value[T]) Dispose() {
	v.disposed = true
	v.subs = nil
	v.free = nil
	v.order = nil
}

// Disposed reports whether Dispose has been called.
func (v *Value[T]) Disposed() bool { return v.disposed }
