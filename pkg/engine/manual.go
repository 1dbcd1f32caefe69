package engine

import (
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/motion"
	"github.com/go-drift/motion/pkg/spring"
	"github.com/go-drift/motion/pkg/value"
)

// Colors and transforms have no scalar magnitude, so their springs run over
// progress from 0 to 1 with tighter rest thresholds.
const progressRest = 1e-3

// track animates one property of a frame-driven run.
type track struct {
	property string
	mv       *motion.Value[value.Value]
	tween    *value.Tween[value.Value]
	sim      *spring.Simulation
	scalar   bool

	// segments holds one tween per keyframe segment.
	segments []*value.Tween[value.Value]
}

// at returns the track's value at eased progress p.
func (t *track) at(kf animation.Keyframes, p float64) value.Value {
	if len(t.segments) == 0 {
		return t.tween.Evaluate(p)
	}
	i, local := kf.Segment(p)
	return t.segments[i].Evaluate(local)
}

func (t *track) startSpring(cfg spring.Config, velocity float64) {
	if begin, ok := value.Scalar(t.tween.Begin); ok {
		end, _ := value.Scalar(t.tween.End)
		t.scalar = true
		t.sim = spring.NewSimulation(cfg, begin, velocity, end)
		return
	}
	cfg.RestDelta = progressRest
	cfg.RestSpeed = progressRest
	t.sim = spring.NewSimulation(cfg, 0, 0, 1)
}

func (t *track) springValue() (value.Value, float64) {
	if t.scalar {
		return value.WithScalar(t.tween.End, t.sim.Position()), t.sim.Velocity()
	}
	return t.tween.Evaluate(t.sim.Position()), 0
}

// buildTracks prepares one track per animated property.
func (e *Engine) buildTracks(r *run) error {
	tr := r.desc.Transition
	r.tracks = make([]*track, 0, len(r.props))
	for _, prop := range r.props {
		mv := e.values[propKey{r.desc.Element, prop}]
		tw, err := value.NewTween(r.desc.From[prop], r.desc.To[prop], e.space)
		if err != nil {
			return err
		}
		t := &track{property: prop, mv: mv, tween: tw}
		if r.desc.Keyframes.Len() > 0 {
			if t.segments, err = e.segmentTweens(r, prop); err != nil {
				return err
			}
		}
		if tr.Spring != nil {
			velocity := tr.Spring.Velocity
			if velocity == 0 {
				velocity = mv.Velocity()
			}
			t.startSpring(*tr.Spring, velocity)
		}
		r.tracks = append(r.tracks, t)
	}
	return nil
}

// segmentTweens chains tweens through the keyframe stops of prop.
func (e *Engine) segmentTweens(r *run, prop string) ([]*value.Tween[value.Value], error) {
	stops := make([]value.Value, 0, r.desc.Keyframes.Len()+2)
	stops = append(stops, r.desc.From[prop])
	for _, s := range r.desc.Keyframes.Stops {
		stops = append(stops, s.Values[prop])
	}
	stops = append(stops, r.desc.To[prop])

	segs := make([]*value.Tween[value.Value], 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		tw, err := value.NewTween(stops[i-1], stops[i], e.space)
		if err != nil {
			return nil, err
		}
		segs = append(segs, tw)
	}
	return segs, nil
}

// advanceManual computes new values for r at now and writes them.
func (e *Engine) advanceManual(r *run, now time.Time) {
	elapsed := r.elapsed(now)
	if elapsed < 0 {
		return
	}
	if r.status == animation.Pending {
		r.status = animation.Running
		r.lastTick = now.Add(-elapsed)
	}
	if r.desc.Transition.IsSpring() {
		e.advanceSpring(r, now)
		return
	}
	e.advanceTimed(r, elapsed)
}

func (e *Engine) advanceTimed(r *run, elapsed time.Duration) {
	p, iteration, done := r.progress(elapsed)
	if done {
		e.finish(r)
		return
	}
	r.iteration = iteration
	for _, t := range r.tracks {
		if !e.write(r, t, t.at(r.desc.Keyframes, p), 0, false) {
			return
		}
	}
}

// progress returns the eased progress of a timed run after elapsed, the
// play it is in, and whether every play has finished.
func (r *run) progress(elapsed time.Duration) (float64, int, bool) {
	tr := r.desc.Transition
	if tr.Duration <= 0 {
		return 1, 0, true
	}
	iteration := int(elapsed / tr.Duration)
	if plays := tr.Repeat.Plays(); plays > 0 && iteration >= plays {
		return 1, plays - 1, true
	}
	frac := float64(elapsed%tr.Duration) / float64(tr.Duration)
	if tr.Repeat.Reversed(iteration) {
		frac = 1 - frac
	}
	return tr.Curve().Evaluate(frac), iteration, false
}

func (e *Engine) advanceSpring(r *run, now time.Time) {
	tr := r.desc.Transition
	dt := max(now.Sub(r.lastTick).Seconds(), 0)
	r.lastTick = now

	settled := true
	for _, t := range r.tracks {
		if !t.sim.Step(dt) {
			settled = false
		}
		v, velocity := t.springValue()
		if !e.write(r, t, v, velocity, true) {
			return
		}
	}
	if !settled {
		return
	}

	r.iteration++
	if plays := tr.Repeat.Plays(); plays > 0 && r.iteration >= plays {
		e.complete(r)
		return
	}
	alternate := tr.Repeat.Mode == animation.RepeatInfiniteAlternating
	for _, t := range r.tracks {
		if alternate {
			t.tween = t.tween.Reverse()
		}
		t.startSpring(*tr.Spring, 0)
	}
}

// sampleManual writes the values a frame-driven run has reached by now
// without finishing it or calling its callbacks. Interrupts between frames
// use it so the run stops where a native player would have.
func (e *Engine) sampleManual(r *run, now time.Time) {
	if r.status == animation.Paused {
		return
	}
	elapsed := r.elapsed(now)
	if elapsed < 0 {
		return
	}
	if r.desc.Transition.IsSpring() {
		last := r.lastTick
		if r.status == animation.Pending {
			last = now.Add(-elapsed)
		}
		dt := now.Sub(last).Seconds()
		if dt <= 0 {
			return
		}
		r.lastTick = now
		for _, t := range r.tracks {
			t.sim.Step(dt)
			v, velocity := t.springValue()
			t.mv.SetWithVelocity(v, velocity)
		}
		return
	}
	p, _, done := r.progress(elapsed)
	for _, t := range r.tracks {
		if done {
			t.mv.SetWithVelocity(t.tween.End, 0)
		} else {
			t.mv.Set(t.at(r.desc.Keyframes, p))
		}
	}
}

// finish writes the exact end values and completes r.
func (e *Engine) finish(r *run) {
	for _, t := range r.tracks {
		if !e.write(r, t, t.tween.End, 0, true) {
			return
		}
	}
	e.complete(r)
}

// write stores v in the track's motion value and reports it to OnUpdate.
// It returns false when a callback cancelled r.
func (e *Engine) write(r *run, t *track, v value.Value, velocity float64, exact bool) bool {
	if exact {
		t.mv.SetWithVelocity(v, velocity)
	} else {
		t.mv.Set(v)
	}
	if r.desc.OnUpdate != nil && !r.status.Terminal() {
		e.callUpdate(r, t.property, v)
	}
	return !r.status.Terminal()
}
