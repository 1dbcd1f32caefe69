// Package easing provides the timing curves used by duration-based
// animations.
//
// Each curve maps linear progress t in [0, 1] to eased progress. Inputs
// outside [0, 1] are clamped. Outputs stay in [0, 1] except for curves that
// deliberately overshoot ([BackIn], [ElasticOut] and friends).
//
// Standard curves: [Linear], [Ease], [EaseIn], [EaseOut], [EaseInOut].
// Use [CubicBezier] to create custom curves matching CSS cubic-bezier().
package easing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fogleman/ease"
	"github.com/go-drift/motion/pkg/errors"
)

// Curve maps linear progress to eased progress.
type Curve interface {
	Evaluate(t float64) float64
}

// Func is a named curve backed by a plain function.
type Func struct {
	name string
	fn   func(float64) float64
}

// New returns a named curve for fn. The endpoints are pinned so that
// Evaluate(0) == 0 and Evaluate(1) == 1 exactly.
func New(name string, fn func(float64) float64) Func {
	return Func{name: name, fn: fn}
}

// Evaluate implements Curve.
func (f Func) Evaluate(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return f.fn(t)
}

func (f Func) String() string { return f.name }

// Named curves.
var (
	Linear = New("linear", func(t float64) float64 { return t })

	QuadIn    = New("quadIn", ease.InQuad)
	QuadOut   = New("quadOut", ease.OutQuad)
	QuadInOut = New("quadInOut", ease.InOutQuad)

	CubicIn    = New("cubicIn", ease.InCubic)
	CubicOut   = New("cubicOut", ease.OutCubic)
	CubicInOut = New("cubicInOut", ease.InOutCubic)

	QuartIn    = New("quartIn", ease.InQuart)
	QuartOut   = New("quartOut", ease.OutQuart)
	QuartInOut = New("quartInOut", ease.InOutQuart)

	QuintIn    = New("quintIn", ease.InQuint)
	QuintOut   = New("quintOut", ease.OutQuint)
	QuintInOut = New("quintInOut", ease.InOutQuint)

	SineIn    = New("sineIn", ease.InSine)
	SineOut   = New("sineOut", ease.OutSine)
	SineInOut = New("sineInOut", ease.InOutSine)

	ExpoIn    = New("expoIn", ease.InExpo)
	ExpoOut   = New("expoOut", ease.OutExpo)
	ExpoInOut = New("expoInOut", ease.InOutExpo)

	CircIn    = New("circIn", ease.InCirc)
	CircOut   = New("circOut", ease.OutCirc)
	CircInOut = New("circInOut", ease.InOutCirc)

	BackIn    = New("backIn", ease.InBack)
	BackOut   = New("backOut", ease.OutBack)
	BackInOut = New("backInOut", ease.InOutBack)

	ElasticIn    = New("elasticIn", ease.InElastic)
	ElasticOut   = New("elasticOut", ease.OutElastic)
	ElasticInOut = New("elasticInOut", ease.InOutElastic)

	BounceIn    = New("bounceIn", ease.InBounce)
	BounceOut   = New("bounceOut", ease.OutBounce)
	BounceInOut = New("bounceInOut", ease.InOutBounce)
)

// CSS timing-function presets.
var (
	// Ease is a general-purpose curve. Equivalent to CSS ease.
	Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)
	// EaseIn starts slowly and accelerates. Use for elements exiting the screen.
	EaseIn = CubicBezier(0.4, 0.0, 1.0, 1.0)
	// EaseOut starts quickly and decelerates. Use for elements entering the screen.
	EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)
	// EaseInOut starts and ends slowly. Use for elements that change state in place.
	EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)
	// IOSNavigation approximates the iOS navigation transition.
	IOSNavigation = CubicBezier(0.22, 1.0, 0.36, 1.0)
)

var registry = map[string]Curve{}

func init() {
	for _, c := range []Func{
		Linear,
		QuadIn, QuadOut, QuadInOut,
		CubicIn, CubicOut, CubicInOut,
		QuartIn, QuartOut, QuartInOut,
		QuintIn, QuintOut, QuintInOut,
		SineIn, SineOut, SineInOut,
		ExpoIn, ExpoOut, ExpoInOut,
		CircIn, CircOut, CircInOut,
		BackIn, BackOut, BackInOut,
		ElasticIn, ElasticOut, ElasticInOut,
		BounceIn, BounceOut, BounceInOut,
	} {
		registry[strings.ToLower(c.name)] = c
	}
	registry["ease"] = Ease
	registry["easein"] = EaseIn
	registry["easeout"] = EaseOut
	registry["easeinout"] = EaseInOut
	registry["iosnavigation"] = IOSNavigation
}

// Names returns every name accepted by Parse, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, c := range registry {
		names = append(names, Name(c))
	}
	sort.Strings(names)
	return names
}

// Name returns the registered or descriptive name of c.
func Name(c Curve) string {
	switch c := c.(type) {
	case nil:
		return Linear.name
	case Bezier:
		for _, p := range []struct {
			name string
			b    Bezier
		}{{"ease", Ease}, {"easeIn", EaseIn}, {"easeOut", EaseOut}, {"easeInOut", EaseInOut}, {"iosNavigation", IOSNavigation}} {
			if c == p.b {
				return p.name
			}
		}
		return c.String()
	case fmt.Stringer:
		return c.String()
	}
	return fmt.Sprintf("%T", c)
}

// Parse returns the curve for a name such as "quadOut", "ease-in-out" or
// "cubic-bezier(0.4, 0, 0.2, 1)". Names are case-insensitive and ignore
// dashes and underscores.
func Parse(s string) (Curve, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "cubic-bezier(") && strings.HasSuffix(s, ")") {
		body := s[len("cubic-bezier(") : len(s)-1]
		parts := strings.Split(body, ",")
		if len(parts) != 4 {
			return nil, errors.New("easing.Parse", errors.KindConfig,
				fmt.Errorf("%w: cubic-bezier needs 4 arguments, got %d", errors.ErrInvalidConfig, len(parts)))
		}
		var p [4]float64
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, errors.New("easing.Parse", errors.KindConfig,
					fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err))
			}
			p[i] = v
		}
		return CubicBezier(p[0], p[1], p[2], p[3]), nil
	}
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	if c, ok := registry[key]; ok {
		return c, nil
	}
	return nil, errors.New("easing.Parse", errors.KindConfig,
		fmt.Errorf("%w: unknown easing %q", errors.ErrInvalidConfig, s))
}
