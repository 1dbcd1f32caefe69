package engine

import (
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/value"
)

// PlayerID identifies a playback started on a Platform.
type PlayerID uint64

// Playback is a request for a platform to run an animation on its own
// timeline.
type Playback struct {
	Element  animation.ElementID
	From     value.Target
	To       value.Target
	Duration time.Duration
	Delay    time.Duration
	Ease     easing.Curve
	Repeat   animation.Repeat
	Start    time.Time
}

// Platform runs duration-based animations without per-frame work from the
// engine, such as a compositor or browser animation API.
type Platform interface {
	// Supports reports whether the platform can animate property.
	Supports(property string) bool
	// Play starts a playback. An error makes the engine fall back to
	// frame-driven execution.
	Play(p Playback) (PlayerID, error)
	// Poll reports whether the playback has finished by now.
	Poll(id PlayerID, now time.Time) bool
	// Cancel stops the playback and returns the values it reached.
	Cancel(id PlayerID, now time.Time) (value.Target, error)
}

// playback builds the platform request for r.
func (r *run) playback() Playback {
	tr := r.desc.Transition
	p := Playback{
		Element:  r.desc.Element,
		From:     make(value.Target, len(r.props)),
		To:       make(value.Target, len(r.props)),
		Duration: tr.Duration,
		Delay:    r.delay,
		Ease:     tr.Curve(),
		Repeat:   tr.Repeat,
		Start:    r.start,
	}
	for _, prop := range r.props {
		p.From[prop] = r.desc.From[prop]
		p.To[prop] = r.desc.To[prop]
	}
	return p
}

// pollNative checks a native run for completion.
func (e *Engine) pollNative(r *run, now time.Time) bool {
	if r.status == animation.Pending && !now.Before(r.start.Add(r.delay)) {
		r.status = animation.Running
	}
	if !e.platform.Poll(r.player, now) {
		return false
	}
	for _, prop := range r.props {
		e.values[propKey{r.desc.Element, prop}].SetWithVelocity(r.desc.To[prop], 0)
	}
	e.complete(r)
	return true
}

// cancelNative stops a native run and copies the values it reached into the
// motion values so a takeover starts from there.
func (e *Engine) cancelNative(r *run, now time.Time) {
	reached, err := e.platform.Cancel(r.player, now)
	if err != nil {
		e.report(r, "engine.Interrupt", err)
		return
	}
	for _, prop := range r.props {
		v, ok := reached[prop]
		if !ok {
			continue
		}
		e.values[propKey{r.desc.Element, prop}].SetWithVelocity(v, 0)
	}
}
