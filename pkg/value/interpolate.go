package value

// Lerp linearly interpolates between a and b. t outside [0, 1]
// extrapolates, which overshooting easings rely on.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Interpolator mixes values of the same kind.
type Interpolator struct {
	// Space is the color space colors are blended in.
	Space ColorSpace
}

// Interpolate mixes from and to at progress t using sRGB color blending.
func Interpolate(from, to Value, t float64) (Value, error) {
	return Interpolator{}.Interpolate(from, to, t)
}

// Interpolate mixes from and to at progress t. At t = 0 it returns from
// and at t = 1 it returns to. Angles are mixed in to's unit.
func (ip Interpolator) Interpolate(from, to Value, t float64) (Value, error) {
	from, err := Normalize(from, to)
	if err != nil {
		return nil, err
	}
	switch f := from.(type) {
	case Number:
		return Number(Lerp(float64(f), float64(to.(Number)), t)), nil
	case Length:
		return Length{V: Lerp(f.V, to.(Length).V, t), Unit: f.Unit}, nil
	case Angle:
		return Angle{V: Lerp(f.V, to.(Angle).V, t), Unit: f.Unit}, nil
	case Color:
		return ip.Space.Blend(f, to.(Color), t), nil
	case Transform:
		return LerpTransform(f, to.(Transform), t), nil
	}
	return to, nil
}

// Lerper returns a Tween-compatible interpolation function. Operands must
// already be known to be compatible; on mismatch the end value is returned.
func (ip Interpolator) Lerper() func(a, b Value, t float64) Value {
	return func(a, b Value, t float64) Value {
		v, err := ip.Interpolate(a, b, t)
		if err != nil {
			return b
		}
		return v
	}
}
