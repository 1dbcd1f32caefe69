// Package value defines the animatable value types and their interpolation.
//
// A [Value] is one of a closed set of kinds: [Number], [Length], [Angle],
// [Color] and [Transform]. Interpolation is only defined between values of
// the same kind (and, for lengths, the same unit); [Compatible] reports a
// mismatch so callers can reject it before any frame is computed.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-drift/motion/pkg/errors"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	// KindNumber is a unitless scalar such as opacity.
	KindNumber Kind = iota
	// KindLength is a scalar with a length unit.
	KindLength
	// KindAngle is a rotation.
	KindAngle
	// KindColor is an RGBA color.
	KindColor
	// KindTransform is a 2D/3D transform.
	KindTransform
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindLength:
		return "length"
	case KindAngle:
		return "angle"
	case KindColor:
		return "color"
	case KindTransform:
		return "transform"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an animatable property value.
type Value interface {
	Kind() Kind
	String() string
}

// Number is a unitless scalar.
type Number float64

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string { return formatFloat(float64(n)) }

// Unit is a length unit.
type Unit string

// Length units.
const (
	Px      Unit = "px"
	Percent Unit = "%"
	Em      Unit = "em"
	Rem     Unit = "rem"
	Vw      Unit = "vw"
	Vh      Unit = "vh"
)

// Length is a scalar with a unit. Lengths only interpolate with lengths of
// the same unit.
type Length struct {
	V    float64
	Unit Unit
}

// Pixels returns a Length in px.
func Pixels(v float64) Length { return Length{V: v, Unit: Px} }

// Percentage returns a Length in %.
func Percentage(v float64) Length { return Length{V: v, Unit: Percent} }

// Kind implements Value.
func (Length) Kind() Kind { return KindLength }

func (l Length) String() string { return formatFloat(l.V) + string(l.Unit) }

// AngleUnit is an angle unit.
type AngleUnit string

// Angle units.
const (
	Deg  AngleUnit = "deg"
	Rad  AngleUnit = "rad"
	Turn AngleUnit = "turn"
)

// Angle is a rotation. Angles in different units are compatible.
type Angle struct {
	V    float64
	Unit AngleUnit
}

// Degrees returns an Angle in degrees.
func Degrees(v float64) Angle { return Angle{V: v, Unit: Deg} }

// Radians returns an Angle in radians.
func Radians(v float64) Angle { return Angle{V: v, Unit: Rad} }

// Kind implements Value.
func (Angle) Kind() Kind { return KindAngle }

func (a Angle) String() string { return formatFloat(a.V) + string(a.Unit) }

// Deg returns the angle in degrees.
func (a Angle) Deg() float64 {
	switch a.Unit {
	case Rad:
		return a.V * 180 / math.Pi
	case Turn:
		return a.V * 360
	default:
		return a.V
	}
}

// In converts the angle to unit u.
func (a Angle) In(u AngleUnit) Angle {
	d := a.Deg()
	switch u {
	case Rad:
		return Angle{V: d * math.Pi / 180, Unit: Rad}
	case Turn:
		return Angle{V: d / 360, Unit: Turn}
	default:
		return Angle{V: d, Unit: Deg}
	}
}

// Target maps property names to values.
type Target map[string]Value

// Keys returns the property names in lexicographic order.
func (t Target) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of t.
func (t Target) Clone() Target {
	out := make(Target, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Compatible returns an error wrapping errors.ErrTypeMismatch unless from
// and to can be interpolated.
func Compatible(from, to Value) error {
	if from == nil || to == nil {
		return errors.New("value.Compatible", errors.KindValue,
			fmt.Errorf("%w: missing operand", errors.ErrTypeMismatch))
	}
	if from.Kind() != to.Kind() {
		return errors.New("value.Compatible", errors.KindValue,
			fmt.Errorf("%w: %s to %s", errors.ErrTypeMismatch, from.Kind(), to.Kind()))
	}
	if fl, ok := from.(Length); ok {
		if tl := to.(Length); fl.Unit != tl.Unit {
			return errors.New("value.Compatible", errors.KindValue,
				fmt.Errorf("%w: %s to %s", errors.ErrTypeMismatch, fl.Unit, tl.Unit))
		}
	}
	return nil
}

// Normalize checks compatibility and converts from into to's angle unit,
// so that both operands share a scalar space.
func Normalize(from, to Value) (Value, error) {
	if err := Compatible(from, to); err != nil {
		return nil, err
	}
	if fa, ok := from.(Angle); ok {
		return fa.In(to.(Angle).Unit), nil
	}
	return from, nil
}

// Scalar returns the numeric magnitude of a scalar value.
// Colors and transforms are not scalar.
func Scalar(v Value) (float64, bool) {
	switch v := v.(type) {
	case Number:
		return float64(v), true
	case Length:
		return v.V, true
	case Angle:
		return v.V, true
	}
	return 0, false
}

// WithScalar returns a copy of the scalar value v with magnitude x.
// Non-scalar values are returned unchanged.
func WithScalar(v Value, x float64) Value {
	switch v := v.(type) {
	case Number:
		return Number(x)
	case Length:
		v.V = x
		return v
	case Angle:
		v.V = x
		return v
	}
	return v
}

// Delta returns next minus prev for scalar values and zero otherwise.
// It is used to estimate velocities.
func Delta(prev, next Value) float64 {
	p, ok1 := Scalar(prev)
	n, ok2 := Scalar(next)
	if !ok1 || !ok2 {
		return 0
	}
	return n - p
}

// Equal reports whether a and b are the same value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if ac, ok := a.(Color); ok {
		bc := b.(Color)
		return ac.Hex() == bc.Hex() && math.Abs(ac.A-bc.A) < 1e-9
	}
	return a == b
}

func formatFloat(f float64) string {
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		r = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
