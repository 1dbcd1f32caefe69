// Package engine schedules animations and drives them frame by frame.
//
// An [Engine] accepts [animation.Descriptor] values, validates them, and
// runs each one either natively on a [Platform] or on its own tick loop.
// Every animated property is backed by a [motion.Value]; the engine writes
// computed values into it and the value forwards them to the [surface.Surface].
//
// An Engine is not safe for concurrent use. Hosts call it from a single
// goroutine, typically the one that runs frame callbacks; other goroutines
// hand work over with a dispatch queue such as host.Loop.Dispatch.
package engine

import (
	"fmt"
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/motion"
	"github.com/go-drift/motion/pkg/spring"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

// Engine runs animations.
type Engine struct {
	clock    animation.Clock
	surface  surface.Surface
	platform Platform
	frames   FrameRequester
	space    value.ColorSpace
	spring   spring.Config
	stats    *FrameStats

	runs    map[animation.Handle]*run
	owners  map[propKey]*run
	values  map[propKey]*motion.Value[value.Value]
	history history

	queue        []*run
	pending      []*run
	ticking      bool
	framePending bool
	completed    int
	disposed     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source for start times and velocities.
func WithClock(c animation.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSurface sets where animated values are written. Without a surface
// every property is accepted and values only reach motion values.
func WithSurface(s surface.Surface) Option {
	return func(e *Engine) { e.surface = s }
}

// WithPlatform enables native playback for animations the platform
// supports.
func WithPlatform(p Platform) Option {
	return func(e *Engine) { e.platform = p }
}

// WithFrameRequester sets how the engine asks for frames. Without one the
// host calls Tick itself.
func WithFrameRequester(f FrameRequester) Option {
	return func(e *Engine) { e.frames = f }
}

// WithColorSpace sets the color space colors are blended in.
func WithColorSpace(s value.ColorSpace) Option {
	return func(e *Engine) { e.space = s }
}

// WithDefaultSpring sets the spring used by SpringTo.
func WithDefaultSpring(cfg spring.Config) Option {
	return func(e *Engine) { e.spring = cfg }
}

// WithStats sets the buffer tick samples are recorded in.
func WithStats(s *FrameStats) Option {
	return func(e *Engine) { e.stats = s }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  animation.SystemClock{},
		spring: spring.DefaultConfig(),
		runs:   make(map[animation.Handle]*run),
		owners: make(map[propKey]*run),
		values: make(map[propKey]*motion.Value[value.Value]),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.stats == nil {
		e.stats = NewFrameStats(0, 0)
	}
	return e
}

// Animate validates d and starts it. It returns a handle for controlling
// the animation.
//
// Any active animation on the same element and property is interrupted at
// its current value, and d starts from that value instead of d.From. The
// animation runs natively when the platform supports it; if the platform
// refuses, it runs on the engine's tick loop instead.
func (e *Engine) Animate(d animation.Descriptor) (animation.Handle, error) {
	if err := e.check(&d); err != nil {
		return animation.Handle{}, err
	}
	return e.start(d, 0)
}

// AnimateAll starts a batch of descriptors. The first descriptor's
// Stagger, if any, adds a delay to each one based on its position in the
// batch. Nothing is started unless every descriptor is valid.
func (e *Engine) AnimateAll(ds []animation.Descriptor) ([]animation.Handle, error) {
	for i := range ds {
		if err := e.check(&ds[i]); err != nil {
			return nil, err
		}
	}
	var stagger *animation.Stagger
	if len(ds) > 0 {
		stagger = ds[0].Transition.Stagger
	}
	handles := make([]animation.Handle, 0, len(ds))
	for i, d := range ds {
		var extra time.Duration
		if stagger != nil {
			extra = stagger.DelayFor(i, len(ds))
		}
		h, err := e.start(d, extra)
		if err != nil {
			return handles, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// SpringTo animates a single property from its current value to target
// with the engine's default spring. The property must already have a
// motion value.
func (e *Engine) SpringTo(el animation.ElementID, property string, target value.Value) (animation.Handle, error) {
	mv, ok := e.values[propKey{el, property}]
	if !ok {
		err := errors.New("engine.SpringTo", errors.KindLookup,
			fmt.Errorf("%w: no value for %s.%s", errors.ErrNotFound, el, property)).WithProperty(property)
		return animation.Handle{}, err
	}
	cfg := e.spring
	return e.Animate(animation.Descriptor{
		Element:    el,
		From:       value.Target{property: mv.Get()},
		To:         value.Target{property: target},
		Transition: animation.Transition{Spring: &cfg},
	})
}

func (e *Engine) check(d *animation.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if e.surface == nil {
		return nil
	}
	for _, prop := range d.Properties() {
		if !e.surface.Supports(prop) {
			return errors.New("engine.Animate", errors.KindProperty,
				fmt.Errorf("%w: %q", errors.ErrInvalidProperty, prop)).WithProperty(prop)
		}
	}
	return nil
}

func (e *Engine) start(d animation.Descriptor, extraDelay time.Duration) (animation.Handle, error) {
	now := e.clock.Now()
	r := &run{
		handle: animation.NewHandle(),
		desc:   d.Clone(),
		status: animation.Pending,
		start:  now,
	}
	r.props = r.desc.Properties()
	r.delay = r.desc.Transition.Delay + extraDelay

	if e.disposed {
		return r.handle, e.abandon(r, fmt.Errorf("%w: engine disposed", errors.ErrEngine))
	}

	takeover := e.takeOver(r, now)
	for _, prop := range r.props {
		mv := e.valueFor(r.desc.Element, prop, r.desc.From[prop])
		if takeover[prop] && value.Compatible(mv.Get(), r.desc.To[prop]) == nil {
			r.desc.From[prop] = mv.Get()
		}
	}

	r.backend = e.selectBackend(&r.desc)
	if r.backend == BackendNative {
		id, err := e.platform.Play(r.playback())
		if err == nil {
			r.player = id
		} else {
			e.report(r, "engine.Animate", fmt.Errorf("%w: native playback refused: %w", errors.ErrEngine, err))
			r.backend = BackendManual
		}
	}
	if r.backend == BackendManual {
		if err := e.buildTracks(r); err != nil {
			return r.handle, e.abandon(r, fmt.Errorf("%w: %w", errors.ErrEngine, err))
		}
	}

	e.runs[r.handle] = r
	for _, prop := range r.props {
		e.owners[propKey{r.desc.Element, prop}] = r
	}
	e.enqueue(r)
	return r.handle, nil
}

// takeOver interrupts animations that own any of r's properties and
// returns the properties r inherits a current value for.
func (e *Engine) takeOver(r *run, now time.Time) map[string]bool {
	var takeover map[string]bool
	for _, prop := range r.props {
		prev, ok := e.owners[propKey{r.desc.Element, prop}]
		if !ok {
			continue
		}
		if takeover == nil {
			takeover = make(map[string]bool)
		}
		takeover[prop] = true
		if prev.status.Terminal() {
			continue
		}
		errors.Notice("engine.Animate", errors.KindConflict, prev.handle.String(), prop,
			fmt.Errorf("%w: %s.%s taken over by %s", errors.ErrAlreadyRunning, r.desc.Element, prop, r.handle))
		e.cancel(prev, now)
	}
	return takeover
}

// abandon marks r cancelled without scheduling it.
func (e *Engine) abandon(r *run, err error) error {
	r.status = animation.Cancelled
	e.history.add(r.handle, r.status)
	return errors.New("engine.Animate", errors.KindBackend, err).WithHandle(r.handle.String())
}

func (e *Engine) report(r *run, op string, err error) {
	errors.Report(errors.New(op, errors.KindBackend, err).WithHandle(r.handle.String()))
}

// valueFor returns the motion value for a property, creating it with
// initial and wiring it to the surface on first use.
func (e *Engine) valueFor(el animation.ElementID, property string, initial value.Value) *motion.Value[value.Value] {
	key := propKey{el, property}
	if mv, ok := e.values[key]; ok {
		return mv
	}
	mv := motion.NewAnimatable(initial, motion.WithNow[value.Value](e.clock.Now))
	if e.surface != nil {
		s := e.surface
		mv.Subscribe(func(v value.Value) { s.Apply(el, property, v) })
	}
	e.values[key] = mv
	return mv
}

// MotionValue returns the value backing property of el, creating it with
// initial if it does not exist yet. Writing to it, for example from a
// gesture with SetWithVelocity, updates the surface; a later animation of
// the property starts from it.
func (e *Engine) MotionValue(el animation.ElementID, property string, initial value.Value) *motion.Value[value.Value] {
	return e.valueFor(el, property, initial)
}

// Lookup returns the value backing property of el, if any.
func (e *Engine) Lookup(el animation.ElementID, property string) (*motion.Value[value.Value], bool) {
	mv, ok := e.values[propKey{el, property}]
	return mv, ok
}

// Interrupt stops the animation at the values it has reached by now, even
// between frames. It returns ErrNotFound if the handle is unknown or
// already finished. Interrupting from inside a callback during Tick is
// allowed; the animation keeps its last written values and is skipped for
// the rest of the pass.
func (e *Engine) Interrupt(h animation.Handle) error {
	r, err := e.lookup("engine.Interrupt", h)
	if err != nil {
		return err
	}
	e.cancel(r, e.clock.Now())
	return nil
}

func (e *Engine) cancel(r *run, now time.Time) {
	if r.status.Terminal() {
		return
	}
	switch {
	case r.backend == BackendNative:
		e.cancelNative(r, now)
	case !e.ticking:
		e.sampleManual(r, now)
	}
	r.status = animation.Cancelled
	e.retire(r)
	if !e.ticking {
		e.evict()
	}
}

// Pause suspends a frame-driven animation. Its values hold until Resume.
// Native animations cannot be paused and return ErrEngine.
func (e *Engine) Pause(h animation.Handle) error {
	r, err := e.lookup("engine.Pause", h)
	if err != nil {
		return err
	}
	if r.backend == BackendNative {
		return errors.New("engine.Pause", errors.KindBackend,
			fmt.Errorf("%w: native animations cannot be paused", errors.ErrEngine)).WithHandle(h.String())
	}
	if r.status == animation.Paused {
		return nil
	}
	r.resumeTo = r.status
	r.status = animation.Paused
	r.pausedAt = e.clock.Now()
	return nil
}

// Resume continues a paused animation from where it stopped.
func (e *Engine) Resume(h animation.Handle) error {
	r, err := e.lookup("engine.Resume", h)
	if err != nil {
		return err
	}
	if r.status != animation.Paused {
		return nil
	}
	now := e.clock.Now()
	held := now.Sub(r.pausedAt)
	r.paused += held
	r.lastTick = r.lastTick.Add(held)
	r.status = r.resumeTo
	e.requestFrame()
	return nil
}

func (e *Engine) lookup(op string, h animation.Handle) (*run, error) {
	r, ok := e.runs[h]
	if !ok {
		return nil, errors.New(op, errors.KindLookup,
			fmt.Errorf("%w: animation %s", errors.ErrNotFound, h)).WithHandle(h.String())
	}
	return r, nil
}

// State returns the status of an animation. Finished animations keep
// reporting Completed or Cancelled for a while before they are forgotten.
func (e *Engine) State(h animation.Handle) (animation.Status, error) {
	if r, ok := e.runs[h]; ok {
		return r.status, nil
	}
	if s, ok := e.history.lookup(h); ok {
		return s, nil
	}
	return 0, errors.New("engine.State", errors.KindLookup,
		fmt.Errorf("%w: animation %s", errors.ErrNotFound, h)).WithHandle(h.String())
}

// IsRunning reports whether the animation is pending or running.
func (e *Engine) IsRunning(h animation.Handle) bool {
	s, err := e.State(h)
	return err == nil && (s == animation.Pending || s == animation.Running)
}

// Backend returns the backend an active animation runs on.
func (e *Engine) Backend(h animation.Handle) (Backend, error) {
	r, err := e.lookup("engine.Backend", h)
	if err != nil {
		return 0, err
	}
	return r.backend, nil
}

// Active returns the number of animations that have not finished.
func (e *Engine) Active() int { return len(e.runs) }

// Stats returns recent tick samples.
func (e *Engine) Stats() FrameTimeline { return e.stats.Snapshot() }

// Dispose cancels every animation and disposes all motion values. Later
// calls to Animate fail with ErrEngine.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	now := e.clock.Now()
	for _, r := range e.runs {
		e.cancel(r, now)
	}
	for _, mv := range e.values {
		mv.Dispose()
	}
	clear(e.values)
	e.queue, e.pending = nil, nil
	e.disposed = true
}
