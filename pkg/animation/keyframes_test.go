package animation

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/value"
)

func stop(offset, x float64) Keyframe {
	return Keyframe{Offset: offset, Values: value.Target{"x": value.Number(x)}}
}

func TestKeyframesSegment(t *testing.T) {
	kf := Keyframes{
		Stops: []Keyframe{stop(0.25, 10), stop(0.75, 20)},
		Ease:  []easing.Curve{nil, easing.QuadIn},
	}
	tests := []struct {
		p     float64
		seg   int
		local float64
	}{
		{0, 0, 0},
		{0.125, 0, 0.5},
		{0.25, 0, 1},
		{0.5, 1, 0.25},
		{1, 2, 1},
		{-0.125, 0, -0.5},
		{1.125, 2, 1.5},
	}
	for _, tt := range tests {
		seg, local := kf.Segment(tt.p)
		if seg != tt.seg || math.Abs(local-tt.local) > 1e-12 {
			t.Errorf("Segment(%v) = %d, %v; want %d, %v", tt.p, seg, local, tt.seg, tt.local)
		}
	}
}

func TestKeyframesOffsetsClamp(t *testing.T) {
	kf := Keyframes{Stops: []Keyframe{stop(-1, 0), stop(2, 0)}}
	want := []float64{0, 0, 1, 1}
	got := kf.Offsets()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Offsets() = %v, want %v", got, want)
		}
	}
	if seg, local := kf.Segment(0); seg != 0 || local != 1 {
		t.Errorf("Segment(0) on a zero-length segment = %d, %v; want 0, 1", seg, local)
	}
}

func TestDescriptorValidateKeyframes(t *testing.T) {
	base := Descriptor{
		Element:    "box",
		From:       value.Target{"x": value.Pixels(0)},
		To:         value.Target{"x": value.Pixels(100)},
		Transition: Transition{Duration: time.Second},
	}
	tests := []struct {
		name string
		kf   Keyframes
		want error
	}{
		{"valid", Keyframes{Stops: []Keyframe{{Offset: 0.5, Values: value.Target{"x": value.Pixels(80)}}}}, nil},
		{"mismatched unit", Keyframes{Stops: []Keyframe{{Offset: 0.5, Values: value.Target{"x": value.Number(80)}}}}, errors.ErrTypeMismatch},
		{"NaN offset", Keyframes{Stops: []Keyframe{{Offset: math.NaN(), Values: value.Target{"x": value.Pixels(80)}}}}, errors.ErrInvalidConfig},
		{"too many curves", Keyframes{Ease: []easing.Curve{easing.Linear, easing.Linear}}, errors.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			d.Keyframes = tt.kf
			err := d.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDescriptorReverseKeyframes(t *testing.T) {
	d := Descriptor{
		Element: "box",
		From:    value.Target{"x": value.Number(0)},
		To:      value.Target{"x": value.Number(100)},
		Keyframes: Keyframes{
			Stops: []Keyframe{stop(0.2, 10), stop(0.6, 50)},
			Ease:  []easing.Curve{easing.QuadIn, nil, easing.QuadOut},
		},
	}
	r := d.Reversed()

	if r.Keyframes.Stops[0].Values["x"] != value.Number(50) || r.Keyframes.Stops[1].Values["x"] != value.Number(10) {
		t.Errorf("reversed stops = %+v, want 50 then 10", r.Keyframes.Stops)
	}
	if math.Abs(r.Keyframes.Stops[0].Offset-0.4) > 1e-12 || math.Abs(r.Keyframes.Stops[1].Offset-0.8) > 1e-12 {
		t.Errorf("reversed offsets = %v, %v; want 0.4, 0.8", r.Keyframes.Stops[0].Offset, r.Keyframes.Stops[1].Offset)
	}
	if first, last := easing.Name(r.Keyframes.Ease[0]), easing.Name(r.Keyframes.Ease[2]); first != "quadOut" || last != "quadIn" {
		t.Errorf("reversed curves = %s ... %s, want quadOut ... quadIn", first, last)
	}

	r.Keyframes.Stops[0].Values["x"] = value.Number(-1)
	if d.Keyframes.Stops[1].Values["x"] != value.Number(50) {
		t.Error("reversing shares keyframe values with the original")
	}
}
