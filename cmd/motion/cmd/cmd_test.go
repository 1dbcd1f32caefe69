package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestParseSpring(t *testing.T) {
	tests := []struct {
		input   string
		k, c, m float64
		wantErr bool
	}{
		{"bouncy", 400, 10, 1, false},
		{"170/26", 170, 26, 1, false},
		{"170/26/2", 170, 26, 2, false},
		{"170", 0, 0, 0, true},
		{"a/b", 0, 0, 0, true},
		{"floaty", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg, err := parseSpring(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSpring(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr || tt.input == "bouncy" {
				return
			}
			if cfg.Stiffness != tt.k || cfg.Damping != tt.c || cfg.Mass != tt.m {
				t.Errorf("parseSpring(%q) = %+v, want %v/%v/%v", tt.input, cfg, tt.k, tt.c, tt.m)
			}
		})
	}
}

func TestFlagValue(t *testing.T) {
	args := []string{"--fps=30", "--to", "5", "--from"}
	if v, n, ok, err := flagValue(args, 0, "--fps"); v != "30" || n != 1 || !ok || err != nil {
		t.Errorf("--fps=30 = %q %d %v %v", v, n, ok, err)
	}
	if v, n, ok, err := flagValue(args, 1, "--to"); v != "5" || n != 2 || !ok || err != nil {
		t.Errorf("--to 5 = %q %d %v %v", v, n, ok, err)
	}
	if _, _, ok, _ := flagValue(args, 1, "--fps"); ok {
		t.Error("--to matched --fps")
	}
	if _, _, _, err := flagValue(args, 3, "--from"); err == nil {
		t.Error("trailing --from without a value did not fail")
	}
}

func TestSpringCommandSettles(t *testing.T) {
	out := capture(t)
	if err := execute([]string{"spring", "170/26", "--fps", "60"}); err != nil {
		t.Fatalf("spring: %v", err)
	}
	if !strings.Contains(out.String(), "settled after") {
		t.Errorf("output does not report settling:\n%s", out)
	}
}

func TestEaseCommand(t *testing.T) {
	out := capture(t)
	if err := execute([]string{"ease", "quad-in", "--steps", "4"}); err != nil {
		t.Fatalf("ease: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want name plus 5 samples:\n%s", len(lines), out)
	}
	if lines[0] != "quadIn" {
		t.Errorf("name = %q, want quadIn", lines[0])
	}
	if !strings.Contains(lines[3], "0.2500") {
		t.Errorf("sample at 0.5 = %q, want 0.2500", lines[3])
	}

	if err := execute([]string{"ease", "wobble"}); err == nil {
		t.Error("unknown curve did not fail")
	}
}

func TestUnknownCommand(t *testing.T) {
	capture(t)
	if err := execute([]string{"bogus"}); err == nil {
		t.Error("unknown command did not fail")
	}
}

const runScenario = `
engine:
  fps: 60
  nativeProperties: [opacity]
animations:
  - element: card
    from: {opacity: 0}
    to: {opacity: 1}
    duration: 100ms
  - element: box
    from: {x: 0px}
    to: {x: 100px}
    spring: snappy
`

func TestRunSimulated(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "motion.yaml"), []byte(runScenario), 0o644); err != nil {
		t.Fatal(err)
	}
	out := capture(t)
	if err := execute([]string{"run", "--dir", dir}); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"card.opacity=",
		"box.x=",
		"card         completed  native  opacity=1",
		"box          completed  manual  x=100px",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunStopsAtMaxFrames(t *testing.T) {
	dir := t.TempDir()
	yaml := `
animations:
  - element: dot
    from: {x: 0}
    to: {x: 1}
    duration: 1s
    repeat: {mode: infinite}
`
	if err := os.WriteFile(filepath.Join(dir, "motion.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	out := capture(t)
	if err := execute([]string{"run", "--dir", dir, "--max-frames", "10", "--quiet"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "stopped after 10 frames with 1 animations running") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunWithoutAnimations(t *testing.T) {
	capture(t)
	if err := execute([]string{"run", "--dir", t.TempDir()}); err == nil {
		t.Error("empty scenario did not fail")
	}
}
