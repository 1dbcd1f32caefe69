package value

// Tween interpolates between Begin and End values based on progress.
//
// Tween maps the 0-1 range of an animation to any value range or type.
// Use [NewTween] for animatable values, [TweenFloat64] for plain scalars,
// or create custom tweens with a Lerp function.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp interpolates between Begin and End at progress t.
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t.
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Reverse returns a tween running from End to Begin.
func (tw *Tween[T]) Reverse() *Tween[T] {
	return &Tween[T]{Begin: tw.End, End: tw.Begin, Lerp: tw.Lerp}
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{Begin: begin, End: end, Lerp: Lerp}
}

// NewTween creates a tween between two compatible values, blending colors
// in space.
func NewTween(begin, end Value, space ColorSpace) (*Tween[Value], error) {
	begin, err := Normalize(begin, end)
	if err != nil {
		return nil, err
	}
	return &Tween[Value]{Begin: begin, End: end, Lerp: Interpolator{Space: space}.Lerper()}, nil
}
