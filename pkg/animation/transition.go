package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/spring"
)

// Transition describes how an animation moves from its start values to its
// end values.
//
// A transition is either duration-based, driven by Duration and Ease, or
// spring-based when Spring is set; a spring ignores Duration and Ease and
// finishes when it settles.
type Transition struct {
	// Duration is the length of one play. Zero means instant for frame-driven
	// animations and the platform default for native ones.
	Duration time.Duration
	// Delay postpones the start. The animation stays Pending meanwhile.
	Delay time.Duration
	// Ease shapes progress. Nil means easing.Linear.
	Ease easing.Curve
	// Spring selects physics-driven motion.
	Spring *spring.Config
	// Repeat controls how many times the animation plays.
	Repeat Repeat
	// Stagger offsets the delay of each animation in a batch.
	Stagger *Stagger
}

// Curve returns the easing curve, defaulting to easing.Linear.
func (t Transition) Curve() easing.Curve {
	if t.Ease == nil {
		return easing.Linear
	}
	return t.Ease
}

// IsSpring reports whether the transition is spring-based.
func (t Transition) IsSpring() bool { return t.Spring != nil }

// Validate reports negative durations, bad springs and bad repeat counts.
func (t Transition) Validate() error {
	switch {
	case t.Duration < 0:
		return invalidTransition("negative duration %v", t.Duration)
	case t.Delay < 0:
		return invalidTransition("negative delay %v", t.Delay)
	case t.Repeat.Mode == RepeatCount && t.Repeat.Count < 0:
		return invalidTransition("negative repeat count %d", t.Repeat.Count)
	case t.Stagger != nil && t.Stagger.Delay < 0:
		return invalidTransition("negative stagger delay %v", t.Stagger.Delay)
	}
	if t.Spring != nil {
		return t.Spring.Validate()
	}
	return nil
}

func invalidTransition(format string, args ...any) error {
	return errors.New("animation.Transition.Validate", errors.KindConfig,
		fmt.Errorf("%w: %s", errors.ErrInvalidConfig, fmt.Sprintf(format, args...)))
}

// RepeatMode selects a repeat policy.
type RepeatMode int

const (
	// RepeatNever plays once.
	RepeatNever RepeatMode = iota
	// RepeatCount plays once plus Count more times.
	RepeatCount
	// RepeatInfinite restarts from the beginning forever.
	RepeatInfinite
	// RepeatInfiniteAlternating plays forward, then backward, forever.
	RepeatInfiniteAlternating
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatNever:
		return "never"
	case RepeatCount:
		return "count"
	case RepeatInfinite:
		return "infinite"
	case RepeatInfiniteAlternating:
		return "infiniteAlternating"
	default:
		return fmt.Sprintf("RepeatMode(%d)", int(m))
	}
}

// Repeat is a repeat policy. The zero value plays once.
type Repeat struct {
	Mode  RepeatMode
	Count int
}

// Common repeat policies.
var (
	Once               = Repeat{}
	Forever            = Repeat{Mode: RepeatInfinite}
	ForeverAlternating = Repeat{Mode: RepeatInfiniteAlternating}
)

// Times returns a policy that plays once and then n more times.
func Times(n int) Repeat {
	return Repeat{Mode: RepeatCount, Count: n}
}

// Plays returns the total number of plays, or -1 for infinite policies.
func (r Repeat) Plays() int {
	switch r.Mode {
	case RepeatCount:
		return 1 + max(r.Count, 0)
	case RepeatInfinite, RepeatInfiniteAlternating:
		return -1
	default:
		return 1
	}
}

// Infinite reports whether the policy never finishes on its own.
func (r Repeat) Infinite() bool { return r.Plays() < 0 }

// Reversed reports whether play number i (counting from zero) runs
// backward.
func (r Repeat) Reversed(i int) bool {
	return r.Mode == RepeatInfiniteAlternating && i%2 == 1
}

// StaggerOrigin selects where a stagger starts counting from.
type StaggerOrigin int

const (
	// StaggerFirst delays each item by its index.
	StaggerFirst StaggerOrigin = iota
	// StaggerLast delays each item by its distance from the end.
	StaggerLast
	// StaggerCenter delays each item by its distance from the middle.
	StaggerCenter
	// StaggerIndex delays each item by its distance from Stagger.Index.
	StaggerIndex
)

func (o StaggerOrigin) String() string {
	switch o {
	case StaggerFirst:
		return "first"
	case StaggerLast:
		return "last"
	case StaggerCenter:
		return "center"
	case StaggerIndex:
		return "index"
	default:
		return fmt.Sprintf("StaggerOrigin(%d)", int(o))
	}
}

// Stagger spreads the starts of a batch of animations.
type Stagger struct {
	// Delay is added once per step of distance from the origin.
	Delay time.Duration
	// From is the origin.
	From StaggerOrigin
	// Index is the origin when From is StaggerIndex.
	Index int
}

// DelayFor returns the extra delay for item i of n.
func (s Stagger) DelayFor(i, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var dist float64
	switch s.From {
	case StaggerLast:
		dist = float64(n - 1 - i)
	case StaggerCenter:
		dist = math.Abs(float64(i) - float64(n-1)/2)
	case StaggerIndex:
		dist = math.Abs(float64(i - s.Index))
	default:
		dist = float64(i)
	}
	return time.Duration(dist * float64(s.Delay))
}
