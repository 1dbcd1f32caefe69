package animationtest

import (
	"testing"
	"time"
)

func TestFakeClockAdvance(t *testing.T) {
	clk := NewFakeClock()
	if !clk.Now().Equal(Epoch) {
		t.Fatalf("new clock reads %v, want Epoch", clk.Now())
	}
	if now := clk.Advance(100 * time.Millisecond); !now.Equal(clk.Now()) {
		t.Errorf("Advance returned %v, clock reads %v", now, clk.Now())
	}
	clk.Advance(50 * time.Millisecond)
	if got := clk.Elapsed(); got != 150*time.Millisecond {
		t.Errorf("Elapsed = %v, want 150ms", got)
	}
}

func TestFakeFramesPump(t *testing.T) {
	clk := NewFakeClock()
	var frames FakeFrames
	remaining := 3
	var tick func(time.Time)
	tick = func(time.Time) {
		remaining--
		if remaining > 0 {
			frames.RequestFrame(tick)
		}
	}
	frames.RequestFrame(tick)

	if n := frames.Pump(clk, 16*time.Millisecond, 10); n != 3 {
		t.Errorf("Pump fired %d frames, want 3", n)
	}
	if frames.Requests() != 3 {
		t.Errorf("Requests() = %d, want 3", frames.Requests())
	}
	if frames.Fire(clk.Now()) {
		t.Error("Fire with nothing pending should report false")
	}
	if got := clk.Elapsed(); got != 48*time.Millisecond {
		t.Errorf("clock advanced %v, want 48ms", got)
	}
}
