package animation

import (
	"time"

	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/spring"
	"github.com/go-drift/motion/pkg/value"
)

// Standard property names understood by the bundled render surfaces.
const (
	Opacity   = "opacity"
	Transform = "transform"
	X         = "x"
	Y         = "y"
	Scale     = "scale"
	Rotate    = "rotate"
	RotateY   = "rotateY"
)

func preset(el ElementID, from, to value.Target, tr Transition) Descriptor {
	return Descriptor{Element: el, From: from, To: to, Transition: tr}
}

// FadeIn fades an element from transparent to opaque.
func FadeIn(el ElementID) Descriptor {
	return preset(el,
		value.Target{Opacity: value.Number(0)},
		value.Target{Opacity: value.Number(1)},
		Transition{Duration: 300 * time.Millisecond, Ease: easing.EaseOut})
}

// FadeOut fades an element from opaque to transparent.
func FadeOut(el ElementID) Descriptor {
	return preset(el,
		value.Target{Opacity: value.Number(1)},
		value.Target{Opacity: value.Number(0)},
		Transition{Duration: 200 * time.Millisecond, Ease: easing.EaseIn})
}

// SlideUp fades an element in while moving it up by distance px.
func SlideUp(el ElementID, distance float64) Descriptor {
	cfg := spring.DefaultConfig()
	return preset(el,
		value.Target{Opacity: value.Number(0), Y: value.Pixels(distance)},
		value.Target{Opacity: value.Number(1), Y: value.Pixels(0)},
		Transition{Spring: &cfg})
}

// ScaleIn fades an element in while growing it from 80%.
func ScaleIn(el ElementID) Descriptor {
	return preset(el,
		value.Target{Opacity: value.Number(0), Scale: value.Number(0.8)},
		value.Target{Opacity: value.Number(1), Scale: value.Number(1)},
		Transition{Duration: 300 * time.Millisecond, Ease: easing.BackOut})
}

// ScaleOut fades an element out while shrinking it to 80%.
func ScaleOut(el ElementID) Descriptor {
	return preset(el,
		value.Target{Opacity: value.Number(1), Scale: value.Number(1)},
		value.Target{Opacity: value.Number(0), Scale: value.Number(0.8)},
		Transition{Duration: 200 * time.Millisecond, Ease: easing.EaseIn})
}

// PopIn springs an element from nothing to full size.
func PopIn(el ElementID) Descriptor {
	cfg := spring.Config{Stiffness: 200, Damping: 15, Mass: 1}
	return preset(el,
		value.Target{Opacity: value.Number(0), Scale: value.Number(0)},
		value.Target{Opacity: value.Number(1), Scale: value.Number(1)},
		Transition{Spring: &cfg})
}

// RotateIn fades an element in while unwinding half a turn.
func RotateIn(el ElementID) Descriptor {
	return preset(el,
		value.Target{Opacity: value.Number(0), Rotate: value.Degrees(-180)},
		value.Target{Opacity: value.Number(1), Rotate: value.Degrees(0)},
		Transition{Duration: 600 * time.Millisecond, Ease: easing.BackOut})
}

// FlipIn fades an element in while turning it around the vertical axis.
func FlipIn(el ElementID) Descriptor {
	return preset(el,
		value.Target{Opacity: value.Number(0), RotateY: value.Degrees(-90)},
		value.Target{Opacity: value.Number(1), RotateY: value.Degrees(0)},
		Transition{Duration: 700 * time.Millisecond, Ease: easing.EaseOut})
}

// Spin rotates an element one full turn per period, forever.
func Spin(el ElementID, period time.Duration) Descriptor {
	return preset(el,
		value.Target{Rotate: value.Degrees(0)},
		value.Target{Rotate: value.Degrees(360)},
		Transition{Duration: period, Ease: easing.Linear, Repeat: Forever})
}

// Pulse grows an element by 5% and back, forever.
func Pulse(el ElementID) Descriptor {
	return preset(el,
		value.Target{Scale: value.Number(1)},
		value.Target{Scale: value.Number(1.05)},
		Transition{Duration: 500 * time.Millisecond, Ease: easing.EaseInOut, Repeat: ForeverAlternating})
}

// LayoutTransition animates an element's transform between two measured
// layouts. The caller supplies the transforms; no measuring happens here.
func LayoutTransition(el ElementID, from, to value.Transform, tr Transition) Descriptor {
	return preset(el,
		value.Target{Transform: from},
		value.Target{Transform: to},
		tr)
}

// StaggerChildren returns one copy of d per element, with the stagger
// recorded on each copy so an engine's AnimateAll can spread their starts.
func StaggerChildren(d Descriptor, elements []ElementID, s Stagger) []Descriptor {
	out := make([]Descriptor, len(elements))
	for i, el := range elements {
		c := d.Clone()
		c.Element = el
		st := s
		c.Transition.Stagger = &st
		out[i] = c
	}
	return out
}
