package value

import (
	"math"
	"strings"

	"golang.org/x/image/math/f64"
)

// Transform is a decomposed element transform. Translations are in px,
// rotations and skews in degrees.
//
// The components apply in the order translate, rotate, scale, skew, which is
// the order of the functions in String's output. RotateX and RotateY only
// affect 3D output and are ignored by Matrix.
type Transform struct {
	X, Y, Z          float64
	Rotate           float64
	RotateX, RotateY float64
	ScaleX, ScaleY   float64
	SkewX, SkewY     float64
}

// Identity returns the transform that leaves an element unchanged.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Translate returns an identity transform moved by (x, y).
func Translate(x, y float64) Transform {
	t := Identity()
	t.X, t.Y = x, y
	return t
}

// Scale returns an identity transform scaled uniformly by s.
func Scale(s float64) Transform {
	t := Identity()
	t.ScaleX, t.ScaleY = s, s
	return t
}

// Rotate returns an identity transform rotated by deg degrees.
func Rotate(deg float64) Transform {
	t := Identity()
	t.Rotate = deg
	return t
}

// Kind implements Value.
func (Transform) Kind() Kind { return KindTransform }

// IsIdentity reports whether t leaves an element unchanged.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// Matrix returns t as a row-major 2D affine matrix.
func (t Transform) Matrix() f64.Aff3 {
	rad := t.Rotate * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Compose(
		f64.Aff3{1, 0, t.X, 0, 1, t.Y},
		f64.Aff3{cos, -sin, 0, sin, cos, 0},
		f64.Aff3{t.ScaleX, 0, 0, 0, t.ScaleY, 0},
		f64.Aff3{1, math.Tan(t.SkewX * math.Pi / 180), 0, math.Tan(t.SkewY * math.Pi / 180), 1, 0},
	)
}

// Compose multiplies matrices left to right, so the last matrix is applied
// to a point first. Composition is associative but not commutative.
func Compose(ms ...f64.Aff3) f64.Aff3 {
	out := f64.Aff3{1, 0, 0, 0, 1, 0}
	for _, m := range ms {
		out = mul(out, m)
	}
	return out
}

// Apply maps the point (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func mul(m, n f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// String renders t as a CSS transform list, or "none" for the identity.
func (t Transform) String() string {
	if t.IsIdentity() {
		return "none"
	}
	var parts []string
	switch {
	case t.Z != 0:
		parts = append(parts, "translate3d("+px(t.X)+", "+px(t.Y)+", "+px(t.Z)+")")
	case t.X != 0 || t.Y != 0:
		parts = append(parts, "translate("+px(t.X)+", "+px(t.Y)+")")
	}
	if t.Rotate != 0 {
		parts = append(parts, "rotate("+deg(t.Rotate)+")")
	}
	if t.RotateX != 0 {
		parts = append(parts, "rotateX("+deg(t.RotateX)+")")
	}
	if t.RotateY != 0 {
		parts = append(parts, "rotateY("+deg(t.RotateY)+")")
	}
	if t.ScaleX != 1 || t.ScaleY != 1 {
		if t.ScaleX == t.ScaleY {
			parts = append(parts, "scale("+formatFloat(t.ScaleX)+")")
		} else {
			parts = append(parts, "scale("+formatFloat(t.ScaleX)+", "+formatFloat(t.ScaleY)+")")
		}
	}
	if t.SkewX != 0 || t.SkewY != 0 {
		parts = append(parts, "skew("+deg(t.SkewX)+", "+deg(t.SkewY)+")")
	}
	return strings.Join(parts, " ")
}

func px(v float64) string  { return formatFloat(v) + "px" }
func deg(v float64) string { return formatFloat(v) + "deg" }

// LerpTransform interpolates every component of a and b independently.
func LerpTransform(a, b Transform, t float64) Transform {
	return Transform{
		X:       Lerp(a.X, b.X, t),
		Y:       Lerp(a.Y, b.Y, t),
		Z:       Lerp(a.Z, b.Z, t),
		Rotate:  Lerp(a.Rotate, b.Rotate, t),
		RotateX: Lerp(a.RotateX, b.RotateX, t),
		RotateY: Lerp(a.RotateY, b.RotateY, t),
		ScaleX:  Lerp(a.ScaleX, b.ScaleX, t),
		ScaleY:  Lerp(a.ScaleY, b.ScaleY, t),
		SkewX:   Lerp(a.SkewX, b.SkewX, t),
		SkewY:   Lerp(a.SkewY, b.SkewY, t),
	}
}
