package animation

import (
	"fmt"
	"math"

	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/value"
)

// Keyframe is an intermediate stop between a descriptor's From and To.
type Keyframe struct {
	// Offset is where the stop sits within one play, from 0 to 1. Values
	// outside that range are clamped.
	Offset float64
	// Values holds the stop's value for every animated property.
	Values value.Target
}

// Keyframes turns a two-point animation into a multi-stop one. From sits at
// offset 0 and To at offset 1; Stops lie in between, in order:
//
//	Keyframes{
//		Stops: []Keyframe{{Offset: 0.3, Values: value.Target{"x": value.Pixels(120)}}},
//		Ease:  []easing.Curve{easing.QuadOut, easing.QuadIn},
//	}
//
// The transition's Ease shapes overall progress first; the segment curves
// then shape progress within each segment.
type Keyframes struct {
	Stops []Keyframe
	// Ease holds one curve per segment. Segment i runs from stop i to stop
	// i+1, counting From as stop 0. Missing or nil entries are linear.
	Ease []easing.Curve
}

// Len returns the number of intermediate stops.
func (k Keyframes) Len() int { return len(k.Stops) }

// Offsets returns the clamped offsets of every stop, From and To included.
func (k Keyframes) Offsets() []float64 {
	offs := make([]float64, 0, len(k.Stops)+2)
	offs = append(offs, 0)
	for _, s := range k.Stops {
		offs = append(offs, min(max(s.Offset, 0), 1))
	}
	return append(offs, 1)
}

// Segment returns the segment progress p falls in and the eased progress
// within it. Progress outside [0, 1], as produced by overshooting curves,
// lands in the first or last segment; linear segments extrapolate.
func (k Keyframes) Segment(p float64) (int, float64) {
	offs := k.Offsets()
	last := len(offs) - 2
	i := 0
	for i < last && p > offs[i+1] {
		i++
	}
	start, end := offs[i], offs[i+1]
	if end <= start {
		return i, 1
	}
	local := (p - start) / (end - start)
	if i < len(k.Ease) && k.Ease[i] != nil {
		local = k.Ease[i].Evaluate(local)
	}
	return i, local
}

// validate checks stop order and that every stop pins each of props with
// a value compatible with to.
func (k Keyframes) validate(props []string, to value.Target) error {
	prev := 0.0
	for i, s := range k.Stops {
		if math.IsNaN(s.Offset) {
			return invalidTransition("keyframe %d offset is NaN", i)
		}
		off := min(max(s.Offset, 0), 1)
		if off < prev {
			return invalidTransition("keyframe %d offset %g is before %g", i, s.Offset, prev)
		}
		prev = off
		for _, name := range props {
			v, ok := s.Values[name]
			if !ok {
				return errors.New("animation.Descriptor.Validate", errors.KindConfig,
					fmt.Errorf("%w: keyframe %d has no value for %q", errors.ErrInvalidConfig, i, name)).WithProperty(name)
			}
			if err := value.Compatible(v, to[name]); err != nil {
				var me *errors.MotionError
				if errors.As(err, &me) {
					me.Op = "animation.Descriptor.Validate"
					me.Property = name
				}
				return err
			}
		}
	}
	if len(k.Ease) > len(k.Stops)+1 {
		return invalidTransition("%d keyframe curves for %d segments", len(k.Ease), len(k.Stops)+1)
	}
	return nil
}

func (k Keyframes) clone() Keyframes {
	if k.Stops == nil && k.Ease == nil {
		return k
	}
	stops := make([]Keyframe, len(k.Stops))
	for i, s := range k.Stops {
		stops[i] = Keyframe{Offset: s.Offset, Values: s.Values.Clone()}
	}
	return Keyframes{Stops: stops, Ease: append([]easing.Curve(nil), k.Ease...)}
}

// reversed mirrors the stops so that the sequence runs from To to From.
// Segment curves keep their shape but swap order.
func (k Keyframes) reversed() Keyframes {
	k = k.clone()
	n := len(k.Stops)
	for i := range n / 2 {
		k.Stops[i], k.Stops[n-1-i] = k.Stops[n-1-i], k.Stops[i]
	}
	for i := range k.Stops {
		k.Stops[i].Offset = 1 - min(max(k.Stops[i].Offset, 0), 1)
	}
	if len(k.Ease) > 0 {
		ease := make([]easing.Curve, n+1)
		for i, c := range k.Ease {
			ease[n-i] = c
		}
		k.Ease = ease
	}
	return k
}
