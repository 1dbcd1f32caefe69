// Package timeline is an in-process native animation platform.
//
// A [Timeline] plays duration-based animations against wall-clock time,
// the way a compositor would: once started, a playback needs no per-frame
// work from the engine. Whenever it is polled it samples every playback
// and writes the result to its own surface.
package timeline

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/engine"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

// DefaultDuration is used for playbacks that do not set one.
const DefaultDuration = 300 * time.Millisecond

// Compositor holds the properties a compositor can animate without layout.
var Compositor = surface.NewPropertySet(
	"opacity", "transform",
	"x", "y", "scale", "scaleX", "scaleY",
	"rotate", "rotateX", "rotateY",
)

// gweenCurves maps curve names to gween's own implementations.
var gweenCurves = map[string]ease.TweenFunc{
	"linear":      ease.Linear,
	"quadIn":      ease.InQuad,
	"quadOut":     ease.OutQuad,
	"quadInOut":   ease.InOutQuad,
	"cubicIn":     ease.InCubic,
	"cubicOut":    ease.OutCubic,
	"cubicInOut":  ease.InOutCubic,
	"quartIn":     ease.InQuart,
	"quartOut":    ease.OutQuart,
	"quartInOut":  ease.InOutQuart,
	"quintIn":     ease.InQuint,
	"quintOut":    ease.OutQuint,
	"quintInOut":  ease.InOutQuint,
	"sineIn":      ease.InSine,
	"sineOut":     ease.OutSine,
	"sineInOut":   ease.InOutSine,
	"expoIn":      ease.InExpo,
	"expoOut":     ease.OutExpo,
	"expoInOut":   ease.InOutExpo,
	"circIn":      ease.InCirc,
	"circOut":     ease.OutCirc,
	"circInOut":   ease.InOutCirc,
	"bounceIn":    ease.InBounce,
	"bounceOut":   ease.OutBounce,
	"bounceInOut": ease.InOutBounce,
}

// tweenFunc returns gween's version of c if it has one, and otherwise
// wraps c.
func tweenFunc(c easing.Curve) ease.TweenFunc {
	if c == nil {
		return ease.Linear
	}
	if fn, ok := gweenCurves[easing.Name(c)]; ok {
		return fn
	}
	return func(t, b, change, d float32) float32 {
		return b + change*float32(c.Evaluate(float64(t/d)))
	}
}

type player struct {
	pb       engine.Playback
	props    []string
	duration time.Duration
	progress *gween.Tween
}

// Timeline implements engine.Platform.
type Timeline struct {
	mu       sync.Mutex
	surface  surface.Surface
	props    surface.PropertySet
	interp   value.Interpolator
	duration time.Duration
	players  map[engine.PlayerID]*player
	next     engine.PlayerID

	// Reject, if set, is called by Play. A non-nil result refuses the
	// playback.
	Reject func(engine.Playback) error
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithProperties sets the properties the timeline accepts. The default is
// Compositor.
func WithProperties(props surface.PropertySet) Option {
	return func(t *Timeline) { t.props = props }
}

// WithColorSpace sets the color space colors are blended in.
func WithColorSpace(space value.ColorSpace) Option {
	return func(t *Timeline) { t.interp.Space = space }
}

// WithDefaultDuration overrides DefaultDuration.
func WithDefaultDuration(d time.Duration) Option {
	return func(t *Timeline) { t.duration = d }
}

// New creates a timeline writing to s. s may be nil.
func New(s surface.Surface, opts ...Option) *Timeline {
	t := &Timeline{
		surface:  s,
		props:    Compositor,
		duration: DefaultDuration,
		players:  make(map[engine.PlayerID]*player),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Supports reports whether property can be played.
func (t *Timeline) Supports(property string) bool {
	if !t.props.Supports(property) {
		return false
	}
	return t.surface == nil || t.surface.Supports(property)
}

// Play starts a playback.
func (t *Timeline) Play(pb engine.Playback) (engine.PlayerID, error) {
	if t.Reject != nil {
		if err := t.Reject(pb); err != nil {
			return 0, err
		}
	}
	p := &player{pb: pb, duration: pb.Duration}
	if p.duration <= 0 {
		p.duration = t.duration
	}
	for prop := range pb.To {
		if _, ok := pb.From[prop]; !ok {
			continue
		}
		if !t.Supports(prop) {
			return 0, errors.New("timeline.Play", errors.KindProperty,
				fmt.Errorf("%w: %q", errors.ErrInvalidProperty, prop)).WithProperty(prop)
		}
		p.props = append(p.props, prop)
	}
	slices.Sort(p.props)
	p.progress = gween.New(0, 1, float32(p.duration.Seconds()), tweenFunc(pb.Ease))

	t.mu.Lock()
	t.next++
	id := t.next
	t.players[id] = p
	t.mu.Unlock()
	return id, nil
}

// sample returns the values of p at now and whether it has finished.
func (t *Timeline) sample(p *player, now time.Time) (value.Target, bool) {
	elapsed := now.Sub(p.pb.Start) - p.pb.Delay
	out := make(value.Target, len(p.props))
	if elapsed < 0 {
		for _, prop := range p.props {
			out[prop] = p.pb.From[prop]
		}
		return out, false
	}

	iteration := int(elapsed / p.duration)
	if plays := p.pb.Repeat.Plays(); plays > 0 && iteration >= plays {
		for _, prop := range p.props {
			out[prop] = p.pb.To[prop]
		}
		return out, true
	}
	local := elapsed - time.Duration(iteration)*p.duration
	if p.pb.Repeat.Reversed(iteration) {
		local = p.duration - local
	}
	progress, _ := p.progress.Set(float32(local.Seconds()))
	for _, prop := range p.props {
		v, err := t.interp.Interpolate(p.pb.From[prop], p.pb.To[prop], float64(progress))
		if err != nil {
			v = p.pb.To[prop]
		}
		out[prop] = v
	}
	return out, false
}

// Poll samples the playback, writes its values to the surface and reports
// whether it has finished. Unknown players count as finished.
func (t *Timeline) Poll(id engine.PlayerID, now time.Time) bool {
	t.mu.Lock()
	p, ok := t.players[id]
	if !ok {
		t.mu.Unlock()
		return true
	}
	values, done := t.sample(p, now)
	if done {
		delete(t.players, id)
	}
	t.mu.Unlock()

	t.present(p, values)
	return done
}

func (t *Timeline) present(p *player, values value.Target) {
	if t.surface == nil {
		return
	}
	for _, prop := range p.props {
		t.surface.Apply(p.pb.Element, prop, values[prop])
	}
	if f, ok := t.surface.(surface.Flusher); ok {
		f.Flush()
	}
}

// Cancel stops a playback and returns the values it reached.
func (t *Timeline) Cancel(id engine.PlayerID, now time.Time) (value.Target, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.players[id]
	if !ok {
		return nil, errors.New("timeline.Cancel", errors.KindLookup,
			fmt.Errorf("%w: player %d", errors.ErrNotFound, id))
	}
	delete(t.players, id)
	values, _ := t.sample(p, now)
	return values, nil
}

// Active returns the number of playbacks that have not finished.
func (t *Timeline) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players)
}
