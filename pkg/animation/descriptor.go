// Package animation describes animations: what to animate (a [Descriptor]),
// how ([Transition]), and how to refer to one once scheduled ([Handle]).
//
// Descriptors are plain data. An engine validates a descriptor, picks a
// backend for it and reports progress through its callbacks:
//
//	d := animation.Descriptor{
//		Element:    "card",
//		From:       value.Target{"opacity": value.Number(0)},
//		To:         value.Target{"opacity": value.Number(1)},
//		Transition: animation.Transition{Duration: 300 * time.Millisecond, Ease: easing.EaseOut},
//	}
//	h, err := eng.Animate(d)
package animation

import (
	"slices"

	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/value"
)

// Descriptor is a request to animate properties of one element.
type Descriptor struct {
	// Element is the element whose properties are animated.
	Element ElementID
	// From holds the start value of each property.
	From value.Target
	// To holds the end value of each property. Only properties present in
	// both From and To are animated; the others keep their current value.
	To value.Target
	// Transition controls timing.
	Transition Transition
	// Keyframes adds intermediate stops between From and To. Keyframe
	// sequences need a duration-based transition and always run on the
	// engine's tick loop.
	Keyframes Keyframes
	// OnUpdate, if set, is called with every computed value. It forces
	// frame-driven execution because a native timeline cannot call back.
	OnUpdate func(property string, v value.Value)
	// OnComplete is called once when the animation finishes on its own.
	// It is not called when the animation is interrupted.
	OnComplete func()
}

// Properties returns the animated property names in lexicographic order,
// which is the order engines process them in.
func (d *Descriptor) Properties() []string {
	var props []string
	for name := range d.To {
		if _, ok := d.From[name]; ok {
			props = append(props, name)
		}
	}
	slices.Sort(props)
	return props
}

// Validate checks that every animated property has compatible from and to
// values and that the transition is usable.
func (d *Descriptor) Validate() error {
	for _, name := range d.Properties() {
		if err := value.Compatible(d.From[name], d.To[name]); err != nil {
			var me *errors.MotionError
			if errors.As(err, &me) {
				me.Op = "animation.Descriptor.Validate"
				me.Property = name
			}
			return err
		}
	}
	if err := d.Transition.Validate(); err != nil {
		return err
	}
	if d.Keyframes.Len() == 0 && len(d.Keyframes.Ease) == 0 {
		return nil
	}
	if d.Transition.IsSpring() {
		return invalidTransition("keyframes need a duration-based transition")
	}
	return d.Keyframes.validate(d.Properties(), d.To)
}

// Clone returns a copy of d whose targets can be modified independently.
func (d Descriptor) Clone() Descriptor {
	d.From = d.From.Clone()
	d.To = d.To.Clone()
	d.Keyframes = d.Keyframes.clone()
	if d.Transition.Spring != nil {
		s := *d.Transition.Spring
		d.Transition.Spring = &s
	}
	if d.Transition.Stagger != nil {
		s := *d.Transition.Stagger
		d.Transition.Stagger = &s
	}
	return d
}

// Reversed returns a copy of d that runs from To back to From.
func (d Descriptor) Reversed() Descriptor {
	d = d.Clone()
	d.From, d.To = d.To, d.From
	d.Keyframes = d.Keyframes.reversed()
	return d
}
