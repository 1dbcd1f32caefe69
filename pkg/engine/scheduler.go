package engine

import (
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

// historyLimit bounds how many finished handles keep answering State.
const historyLimit = 1024

// FrameRequester schedules a callback for the next display frame. The
// engine keeps at most one request outstanding.
type FrameRequester interface {
	RequestFrame(fn func(now time.Time))
}

// FrameRequesterFunc adapts a function to FrameRequester.
type FrameRequesterFunc func(fn func(now time.Time))

// RequestFrame calls f(fn).
func (f FrameRequesterFunc) RequestFrame(fn func(now time.Time)) { f(fn) }

type propKey struct {
	el   animation.ElementID
	prop string
}

// run is the engine's record of one scheduled descriptor.
type run struct {
	handle  animation.Handle
	desc    animation.Descriptor
	props   []string
	backend Backend
	status  animation.Status

	start    time.Time
	delay    time.Duration
	paused   time.Duration
	pausedAt time.Time
	resumeTo animation.Status

	lastTick  time.Time
	iteration int
	tracks    []*track
	player    PlayerID
}

func (r *run) elapsed(now time.Time) time.Duration {
	return now.Sub(r.start) - r.delay - r.paused
}

// history remembers the final status of recently retired handles.
type history struct {
	status map[animation.Handle]animation.Status
	order  []animation.Handle
}

func (h *history) add(handle animation.Handle, s animation.Status) {
	if h.status == nil {
		h.status = make(map[animation.Handle]animation.Status)
	}
	if _, ok := h.status[handle]; !ok {
		h.order = append(h.order, handle)
	}
	h.status[handle] = s
	if len(h.order) > historyLimit {
		delete(h.status, h.order[0])
		h.order = h.order[1:]
	}
}

func (h *history) lookup(handle animation.Handle) (animation.Status, bool) {
	s, ok := h.status[handle]
	return s, ok
}

// enqueue adds r to the tick queue. Runs added while a tick is in progress
// wait until the pass ends.
func (e *Engine) enqueue(r *run) {
	if e.ticking {
		e.pending = append(e.pending, r)
	} else {
		e.queue = append(e.queue, r)
	}
	e.requestFrame()
}

func (e *Engine) requestFrame() {
	if e.frames == nil || e.framePending || e.disposed {
		return
	}
	e.framePending = true
	e.frames.RequestFrame(e.onFrame)
}

func (e *Engine) onFrame(now time.Time) {
	e.framePending = false
	e.Tick(now)
}

// retire releases the properties owned by r and records its final status.
// r stays in the queue until the next eviction.
func (e *Engine) retire(r *run) {
	delete(e.runs, r.handle)
	for _, prop := range r.props {
		key := propKey{r.desc.Element, prop}
		if e.owners[key] == r {
			delete(e.owners, key)
		}
	}
	e.history.add(r.handle, r.status)
}

// evict drops finished runs from the queue, preserving order.
func (e *Engine) evict() {
	kept := e.queue[:0]
	for _, r := range e.queue {
		if !r.status.Terminal() {
			kept = append(kept, r)
		}
	}
	clear(e.queue[len(kept):])
	e.queue = kept
}

func (e *Engine) complete(r *run) {
	r.status = animation.Completed
	e.retire(r)
	e.completed++
	if cb := r.desc.OnComplete; cb != nil {
		func() {
			defer errors.Recover("engine.OnComplete")
			cb()
		}()
	}
}

func (e *Engine) callUpdate(r *run, property string, v value.Value) {
	defer errors.Recover("engine.OnUpdate")
	r.desc.OnUpdate(property, v)
}

// Tick advances every active animation to now, in registration order.
// Animations started, interrupted or completed from callbacks during the
// pass take effect when the pass ends. Tick requests another frame while
// any animation remains active.
func (e *Engine) Tick(now time.Time) {
	if e.disposed || e.ticking {
		return
	}
	began := time.Now()
	e.ticking = true
	e.completed = 0
	advanced := 0
	defer errors.RecoverWithCallback("engine.Tick", func(any) {
		e.ticking = false
		e.flushPending()
	})

	for _, r := range e.queue {
		if r.status.Terminal() || r.status == animation.Paused {
			continue
		}
		advanced++
		if r.backend == BackendNative {
			e.pollNative(r, now)
		} else {
			e.advanceManual(r, now)
		}
	}

	e.ticking = false
	e.flushPending()
	if f, ok := e.surface.(surface.Flusher); ok {
		f.Flush()
	}

	cost := time.Since(began)
	e.stats.Add(FrameSample{
		Timestamp: now.UnixMilli(),
		TickMs:    durationToMillis(cost),
		Advanced:  advanced,
		Completed: e.completed,
		Active:    len(e.queue),
	}, cost)

	if e.NeedsFrame() {
		e.requestFrame()
	}
}

func (e *Engine) flushPending() {
	e.queue = append(e.queue, e.pending...)
	clear(e.pending)
	e.pending = e.pending[:0]
	e.evict()
}

// NeedsFrame reports whether any animation is waiting to start or running.
// Paused animations do not need frames.
func (e *Engine) NeedsFrame() bool {
	for _, r := range e.queue {
		if r.status == animation.Pending || r.status == animation.Running {
			return true
		}
	}
	return false
}
