package value

import (
	"math"
	"testing"

	"github.com/go-drift/motion/pkg/errors"
)

func TestInterpolateMidpoint(t *testing.T) {
	tests := []struct {
		name     string
		from, to Value
		want     Value
	}{
		{"number", Number(0), Number(100), Number(50)},
		{"negative number", Number(-10), Number(10), Number(0)},
		{"length px", Pixels(10), Pixels(30), Pixels(20)},
		{"length percent", Percentage(0), Percentage(100), Percentage(50)},
		{"angle", Degrees(0), Degrees(90), Degrees(45)},
		{"transform", Translate(0, 0), Translate(100, -50), Translate(50, -25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.from, tt.to, 0.5)
			if err != nil {
				t.Fatalf("Interpolate: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Interpolate(%v, %v, 0.5) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	from, to := Pixels(3), Pixels(17)
	if got, _ := Interpolate(from, to, 0); !Equal(got, from) {
		t.Errorf("t=0: got %v, want %v", got, from)
	}
	if got, _ := Interpolate(from, to, 1); !Equal(got, to) {
		t.Errorf("t=1: got %v, want %v", got, to)
	}
}

func TestInterpolateMismatch(t *testing.T) {
	tests := []struct {
		name     string
		from, to Value
	}{
		{"number to length", Number(0), Pixels(10)},
		{"px to percent", Pixels(0), Percentage(10)},
		{"color to number", RGBA(0, 0, 0, 1), Number(1)},
		{"angle to transform", Degrees(0), Identity()},
		{"nil operand", nil, Number(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpolate(tt.from, tt.to, 0.5)
			if !errors.Is(err, errors.ErrTypeMismatch) {
				t.Errorf("err = %v, want ErrTypeMismatch", err)
			}
		})
	}
}

func TestInterpolateAngleUnits(t *testing.T) {
	got, err := Interpolate(Degrees(0), Radians(math.Pi), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	a := got.(Angle)
	if a.Unit != Rad || math.Abs(a.V-math.Pi/2) > 1e-12 {
		t.Errorf("got %v, want %vrad", a, math.Pi/2)
	}
	if d := (Angle{V: 0.5, Unit: Turn}).Deg(); d != 180 {
		t.Errorf("0.5turn = %vdeg, want 180", d)
	}
}

func TestColorBlend(t *testing.T) {
	black, _ := Hex("#000000")
	white, _ := Hex("#ffffff")

	got, err := Interpolate(black, white, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if s := got.String(); s != "#808080" {
		t.Errorf("rgb midpoint = %s, want #808080", s)
	}

	for _, space := range []ColorSpace{SpaceRGB, SpaceLinearRGB, SpaceLab, SpaceHCL, SpaceLuv} {
		ip := Interpolator{Space: space}
		for _, tt := range []float64{0, 1} {
			v, err := ip.Interpolate(black, white, tt)
			if err != nil {
				t.Fatal(err)
			}
			want := black
			if tt == 1 {
				want = white
			}
			if !Equal(v, want) {
				t.Errorf("%s t=%v = %v, want %v", space, tt, v, want)
			}
		}
	}
}

func TestColorAlpha(t *testing.T) {
	from := RGBA(255, 0, 0, 0)
	to := RGBA(255, 0, 0, 1)
	got, _ := Interpolate(from, to, 0.25)
	if c := got.(Color); math.Abs(c.A-0.25) > 1e-12 {
		t.Errorf("alpha = %v, want 0.25", c.A)
	}
	if s := got.String(); s != "rgba(255, 0, 0, 0.25)" {
		t.Errorf("String() = %q", s)
	}
}

func TestParseColorSpace(t *testing.T) {
	for _, s := range []ColorSpace{SpaceRGB, SpaceLinearRGB, SpaceLab, SpaceHCL, SpaceLuv} {
		got, err := ParseColorSpace(s.String())
		if err != nil || got != s {
			t.Errorf("ParseColorSpace(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseColorSpace("cmyk"); !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("ParseColorSpace(cmyk) err = %v, want ErrInvalidConfig", err)
	}
}

func TestTargetKeys(t *testing.T) {
	tg := Target{"y": Pixels(0), "opacity": Number(1), "x": Pixels(0)}
	got := tg.Keys()
	want := []string{"opacity", "x", "y"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
	c := tg.Clone()
	delete(c, "x")
	if _, ok := tg["x"]; !ok {
		t.Error("Clone shares storage with the original")
	}
}

func TestScalarHelpers(t *testing.T) {
	if x, ok := Scalar(Pixels(12)); !ok || x != 12 {
		t.Errorf("Scalar(12px) = %v, %v", x, ok)
	}
	if _, ok := Scalar(Identity()); ok {
		t.Error("Scalar(transform) reported ok")
	}
	if v := WithScalar(Degrees(10), 20); !Equal(v, Degrees(20)) {
		t.Errorf("WithScalar = %v, want 20deg", v)
	}
	if d := Delta(Number(1), Number(4)); d != 3 {
		t.Errorf("Delta = %v, want 3", d)
	}
	if d := Delta(Identity(), Scale(2)); d != 0 {
		t.Errorf("Delta(transform) = %v, want 0", d)
	}
}

func TestTween(t *testing.T) {
	tw, err := NewTween(Pixels(0), Pixels(200), SpaceRGB)
	if err != nil {
		t.Fatal(err)
	}
	if got := tw.Evaluate(0.25); !Equal(got, Pixels(50)) {
		t.Errorf("Evaluate(0.25) = %v, want 50px", got)
	}
	if got := tw.Reverse().Evaluate(0.25); !Equal(got, Pixels(150)) {
		t.Errorf("Reverse().Evaluate(0.25) = %v, want 150px", got)
	}
	if _, err := NewTween(Pixels(0), Number(1), SpaceRGB); !errors.Is(err, errors.ErrTypeMismatch) {
		t.Errorf("NewTween mismatch err = %v", err)
	}
	f := TweenFloat64(10, 20)
	if got := f.Evaluate(1.5); got != 25 {
		t.Errorf("extrapolated Evaluate(1.5) = %v, want 25", got)
	}
}
