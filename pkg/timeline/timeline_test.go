package timeline

import (
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/animation/animationtest"
	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/engine"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/value"
)

func playback(start time.Time, d time.Duration, ease easing.Curve) engine.Playback {
	return engine.Playback{
		Element:  "card",
		From:     value.Target{"opacity": value.Number(0)},
		To:       value.Target{"opacity": value.Number(1)},
		Duration: d,
		Ease:     ease,
		Start:    start,
	}
}

func opacity(t *testing.T, rec *surface.Recorder) float64 {
	t.Helper()
	v, ok := rec.Last("card", "opacity")
	if !ok {
		t.Fatal("opacity never written")
	}
	x, _ := value.Scalar(v)
	return x
}

func TestPollSamplesAndFinishes(t *testing.T) {
	rec := surface.NewRecorder()
	tl := New(rec)
	start := animationtest.Epoch
	id, err := tl.Play(playback(start, time.Second, easing.Linear))
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	if done := tl.Poll(id, start.Add(500*time.Millisecond)); done {
		t.Error("Poll at 0.5s reported done")
	}
	if got := opacity(t, rec); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("opacity at 0.5s = %v, want 0.5", got)
	}

	if done := tl.Poll(id, start.Add(time.Second)); !done {
		t.Error("Poll at 1s did not report done")
	}
	if got := opacity(t, rec); got != 1 {
		t.Errorf("final opacity = %v, want exactly 1", got)
	}
	if tl.Active() != 0 {
		t.Errorf("Active = %d, want 0", tl.Active())
	}
}

func TestEasingCurves(t *testing.T) {
	start := animationtest.Epoch
	tests := []struct {
		name string
		ease easing.Curve
	}{
		{"gween curve", easing.QuadIn},
		{"wrapped bezier", easing.EaseOut},
		{"wrapped back", easing.BackOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := surface.NewRecorder()
			tl := New(rec)
			id, _ := tl.Play(playback(start, time.Second, tt.ease))
			tl.Poll(id, start.Add(250*time.Millisecond))
			want := tt.ease.Evaluate(0.25)
			if got := opacity(t, rec); math.Abs(got-want) > 1e-4 {
				t.Errorf("opacity at 0.25s = %v, want %v", got, want)
			}
		})
	}
}

func TestDefaultDurationAndDelay(t *testing.T) {
	rec := surface.NewRecorder()
	tl := New(rec)
	start := animationtest.Epoch
	pb := playback(start, 0, easing.Linear)
	pb.Delay = 100 * time.Millisecond
	id, _ := tl.Play(pb)

	tl.Poll(id, start.Add(50*time.Millisecond))
	if got := opacity(t, rec); got != 0 {
		t.Errorf("opacity during delay = %v, want 0", got)
	}
	if done := tl.Poll(id, start.Add(100*time.Millisecond+DefaultDuration)); !done {
		t.Error("playback without a duration did not finish after DefaultDuration")
	}
}

func TestAlternatingRepeat(t *testing.T) {
	rec := surface.NewRecorder()
	tl := New(rec)
	start := animationtest.Epoch
	pb := playback(start, time.Second, easing.Linear)
	pb.Repeat = animation.ForeverAlternating
	id, _ := tl.Play(pb)

	if done := tl.Poll(id, start.Add(1250*time.Millisecond)); done {
		t.Error("infinite playback reported done")
	}
	if got := opacity(t, rec); math.Abs(got-0.75) > 1e-6 {
		t.Errorf("opacity on the way back = %v, want 0.75", got)
	}
}

func TestCancelReturnsReachedValues(t *testing.T) {
	tl := New(nil)
	start := animationtest.Epoch
	id, _ := tl.Play(playback(start, time.Second, easing.Linear))

	reached, err := tl.Cancel(id, start.Add(250*time.Millisecond))
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	x, _ := value.Scalar(reached["opacity"])
	if math.Abs(x-0.25) > 1e-6 {
		t.Errorf("reached opacity = %v, want 0.25", x)
	}
	if _, err := tl.Cancel(id, start); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Cancel = %v, want ErrNotFound", err)
	}
}

func TestSupports(t *testing.T) {
	rec := surface.NewRecorder()
	rec.Properties = surface.NewPropertySet("opacity", "width")
	tl := New(rec)

	tests := []struct {
		prop string
		want bool
	}{
		{"opacity", true},
		{"width", false},
		{"transform", false},
	}
	for _, tt := range tests {
		if got := tl.Supports(tt.prop); got != tt.want {
			t.Errorf("Supports(%q) = %v, want %v", tt.prop, got, tt.want)
		}
	}
}

func TestEngineUsesTimeline(t *testing.T) {
	clock := animationtest.NewFakeClock()
	frames := &animationtest.FakeFrames{}
	rec := surface.NewRecorder()
	tl := New(rec)
	eng := engine.New(
		engine.WithClock(clock),
		engine.WithFrameRequester(frames),
		engine.WithSurface(rec),
		engine.WithPlatform(tl),
	)

	completed := false
	handle, err := eng.Animate(animation.Descriptor{
		Element:    "card",
		From:       value.Target{"opacity": value.Number(0)},
		To:         value.Target{"opacity": value.Number(1)},
		Transition: animation.Transition{Duration: 300 * time.Millisecond, Ease: easing.EaseOut},
		OnComplete: func() { completed = true },
	})
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	if b, _ := eng.Backend(handle); b != engine.BackendNative {
		t.Fatalf("Backend = %v, want native", b)
	}

	n := frames.Pump(clock, 50*time.Millisecond, 20)
	if n != 6 {
		t.Errorf("frames = %d, want 6", n)
	}
	if !completed {
		t.Error("OnComplete not called")
	}
	if got := opacity(t, rec); got != 1 {
		t.Errorf("opacity = %v, want 1", got)
	}
}

func TestEngineFallsBackWhenRejected(t *testing.T) {
	clock := animationtest.NewFakeClock()
	tl := New(nil)
	tl.Reject = func(engine.Playback) error { return fmt.Errorf("no compositor") }
	prev := errors.SetHandler(&errors.LogHandler{Out: io.Discard})
	defer errors.SetHandler(prev)

	eng := engine.New(engine.WithClock(clock), engine.WithPlatform(tl))
	handle, err := eng.Animate(animation.Descriptor{
		Element:    "card",
		From:       value.Target{"opacity": value.Number(0)},
		To:         value.Target{"opacity": value.Number(1)},
		Transition: animation.Transition{Duration: time.Second},
	})
	if err != nil {
		t.Fatalf("Animate: %v", err)
	}
	if b, _ := eng.Backend(handle); b != engine.BackendManual {
		t.Errorf("Backend = %v, want manual", b)
	}
	eng.Tick(clock.Advance(time.Second))
	if s, _ := eng.State(handle); s != animation.Completed {
		t.Errorf("State = %v, want completed", s)
	}
}

func TestInterruptBetweenFramesAgreesAcrossBackends(t *testing.T) {
	tests := []struct {
		name    string
		native  bool
		backend engine.Backend
	}{
		{"native", true, engine.BackendNative},
		{"manual", false, engine.BackendManual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := animationtest.NewFakeClock()
			frames := &animationtest.FakeFrames{}
			rec := surface.NewRecorder()
			opts := []engine.Option{
				engine.WithClock(clock),
				engine.WithFrameRequester(frames),
				engine.WithSurface(rec),
			}
			if tt.native {
				opts = append(opts, engine.WithPlatform(New(rec)))
			}
			eng := engine.New(opts...)

			handle, err := eng.Animate(animation.Descriptor{
				Element:    "card",
				From:       value.Target{"opacity": value.Number(0)},
				To:         value.Target{"opacity": value.Number(1)},
				Transition: animation.Transition{Duration: time.Second, Ease: easing.Linear},
			})
			if err != nil {
				t.Fatalf("Animate: %v", err)
			}
			if b, _ := eng.Backend(handle); b != tt.backend {
				t.Fatalf("Backend = %v, want %v", b, tt.backend)
			}
			frames.Fire(clock.Advance(300 * time.Millisecond))
			clock.Advance(400 * time.Millisecond)
			if err := eng.Interrupt(handle); err != nil {
				t.Fatalf("Interrupt: %v", err)
			}

			mv, _ := eng.Lookup("card", "opacity")
			got, _ := value.Scalar(mv.Get())
			if math.Abs(got-0.7) > 1e-6 {
				t.Errorf("opacity held at %v, want 0.7 reached at 0.7s", got)
			}
		})
	}
}
