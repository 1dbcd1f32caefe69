package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/spring"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

type fakePlatform struct {
	props     surface.PropertySet
	reject    error
	plays     []Playback
	done      map[PlayerID]bool
	reached   value.Target
	cancelled []PlayerID
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		props: surface.NewPropertySet("opacity", "x"),
		done:  make(map[PlayerID]bool),
	}
}

func (p *fakePlatform) Supports(property string) bool { return p.props.Supports(property) }

func (p *fakePlatform) Play(pb Playback) (PlayerID, error) {
	if p.reject != nil {
		return 0, p.reject
	}
	p.plays = append(p.plays, pb)
	return PlayerID(len(p.plays)), nil
}

func (p *fakePlatform) Poll(id PlayerID, now time.Time) bool { return p.done[id] }

func (p *fakePlatform) Cancel(id PlayerID, now time.Time) (value.Target, error) {
	p.cancelled = append(p.cancelled, id)
	return p.reached, nil
}

func fade(from, to float64) animation.Descriptor {
	return animation.Descriptor{
		Element:    "card",
		From:       value.Target{"opacity": value.Number(from)},
		To:         value.Target{"opacity": value.Number(to)},
		Transition: linear(time.Second),
	}
}

func TestSelectBackend(t *testing.T) {
	p := newFakePlatform()
	cfg := spring.DefaultConfig()
	withCallback := fade(0, 1)
	withCallback.OnUpdate = func(string, value.Value) {}
	withSpring := fade(0, 1)
	withSpring.Transition = animation.Transition{Spring: &cfg}
	withKeyframes := fade(0, 1)
	withKeyframes.Keyframes = animation.Keyframes{
		Stops: []animation.Keyframe{{Offset: 0.5, Values: value.Target{"opacity": value.Number(0.8)}}},
	}
	unsupported := fade(0, 1)
	unsupported.From["scale"] = value.Number(0)
	unsupported.To["scale"] = value.Number(1)

	tests := []struct {
		name     string
		platform Platform
		d        animation.Descriptor
		want     bool
	}{
		{"duration on supported property", p, fade(0, 1), true},
		{"no platform", nil, fade(0, 1), false},
		{"spring", p, withSpring, false},
		{"per-frame callback", p, withCallback, false},
		{"keyframes", p, withKeyframes, false},
		{"one property unsupported", p, unsupported, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SupportsNative(tt.platform, &tt.d); got != tt.want {
				t.Errorf("SupportsNative = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNativeRunsOnPlatform(t *testing.T) {
	p := newFakePlatform()
	h := newHarness(t, WithPlatform(p))
	completed := false
	d := fade(0, 1)
	d.OnComplete = func() { completed = true }
	handle, err := h.eng.Animate(d)
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	if b, _ := h.eng.Backend(handle); b != BackendNative {
		t.Fatalf("Backend = %v, want native", b)
	}
	if len(p.plays) != 1 || p.plays[0].Duration != time.Second {
		t.Fatalf("plays = %+v, want one of 1s", p.plays)
	}

	h.frame(t, 500*time.Millisecond)
	if len(h.rec.Writes()) != 0 {
		t.Errorf("engine wrote %v for a native animation", h.rec.Writes())
	}

	p.done[1] = true
	h.frame(t, 600*time.Millisecond)
	if !completed {
		t.Error("OnComplete not called")
	}
	if got, _ := h.rec.Last("card", "opacity"); got != value.Number(1) {
		t.Errorf("opacity = %v, want 1", got)
	}
	if s, _ := h.eng.State(handle); s != animation.Completed {
		t.Errorf("State = %v, want completed", s)
	}
}

func TestNativeRefusalFallsBackToManual(t *testing.T) {
	p := newFakePlatform()
	p.reject = fmt.Errorf("compositor busy")
	h := newHarness(t, WithPlatform(p))

	handle, err := h.eng.Animate(fade(0, 1))
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	if b, _ := h.eng.Backend(handle); b != BackendManual {
		t.Errorf("Backend = %v, want manual", b)
	}
	if n := h.errs.count(errors.ErrEngine); n != 1 {
		t.Errorf("fallback reports = %d, want 1", n)
	}
	h.frame(t, 250*time.Millisecond)
	if got := h.scalar(t, "card", "opacity"); got != 0.25 {
		t.Errorf("opacity = %v, want 0.25", got)
	}
}

func TestNativeInterruptKeepsReachedValues(t *testing.T) {
	p := newFakePlatform()
	p.reached = value.Target{"opacity": value.Number(0.4)}
	h := newHarness(t, WithPlatform(p))
	first, _ := h.eng.Animate(fade(0, 1))

	h.frame(t, 400*time.Millisecond)
	d := fade(0, 0)
	d.OnUpdate = func(string, value.Value) {}
	second, err := h.eng.Animate(d)
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	if len(p.cancelled) != 1 {
		t.Fatalf("platform cancels = %d, want 1", len(p.cancelled))
	}
	if s, _ := h.eng.State(first); s != animation.Cancelled {
		t.Errorf("first State = %v, want cancelled", s)
	}
	if b, _ := h.eng.Backend(second); b != BackendManual {
		t.Errorf("second Backend = %v, want manual", b)
	}

	h.frame(t, 500*time.Millisecond)
	if got := h.scalar(t, "card", "opacity"); !near(got, 0.2, 1e-9) {
		t.Errorf("opacity = %v, want 0.2 (halfway from 0.4 to 0)", got)
	}
}

func TestPauseNativeFails(t *testing.T) {
	h := newHarness(t, WithPlatform(newFakePlatform()))
	handle, _ := h.eng.Animate(fade(0, 1))
	if err := h.eng.Pause(handle); !errors.Is(err, errors.ErrEngine) {
		t.Errorf("Pause = %v, want ErrEngine", err)
	}
	if s, _ := h.eng.State(handle); s != animation.Running && s != animation.Pending {
		t.Errorf("State = %v, want it still active", s)
	}
}
