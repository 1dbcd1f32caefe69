package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/motion/pkg/spring"
)

// maxSpringFrames stops the trajectory of springs that never settle.
const maxSpringFrames = 600

func init() {
	RegisterCommand(&Command{
		Name:  "spring",
		Short: "Print a spring trajectory",
		Long: `Simulate a spring frame by frame and print its position and velocity
until it settles.

The spring is either a preset name (see "motion presets") or explicit
parameters as stiffness/damping[/mass].

Flags:
  --fps N       Frame rate to sample at (default: 60)
  --from X      Start position (default: 0)
  --to Y        Target position (default: 100)
  --velocity V  Initial velocity (default: 0)`,
		Usage: "motion spring <preset|k/c[/m]> [--fps N] [--from X] [--to Y] [--velocity V]",
		Run:   runSpring,
	})
}

type springOptions struct {
	fps      int
	from     float64
	to       float64
	velocity float64
}

func runSpring(args []string) error {
	rest, opts, err := parseSpringArgs(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("spring is required\n\nUsage: motion spring <preset|k/c[/m]>")
	}

	cfg, err := parseSpring(rest[0])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.Normalized()

	fmt.Fprintf(stdout, "stiffness=%g damping=%g mass=%g regime=%s omega=%.3f zeta=%.3f\n",
		cfg.Stiffness, cfg.Damping, cfg.Mass, cfg.Regime(), cfg.NaturalFrequency(), cfg.DampingRatio())

	sim := spring.NewSimulation(cfg, opts.from, opts.velocity, opts.to)
	dt := 1 / float64(opts.fps)
	peak := opts.from
	for frame := 1; frame <= maxSpringFrames; frame++ {
		done := sim.Step(dt)
		x := sim.Position()
		if (opts.to >= opts.from && x > peak) || (opts.to < opts.from && x < peak) {
			peak = x
		}
		fmt.Fprintf(stdout, "%4d  %10.4f  %10.4f\n", frame, x, sim.Velocity())
		if done {
			fmt.Fprintf(stdout, "settled after %d frames (%v), peak %.4f\n", frame, sim.Elapsed(), peak)
			return nil
		}
	}
	fmt.Fprintf(stdout, "not settled after %d frames\n", maxSpringFrames)
	return nil
}

func parseSpringArgs(args []string) ([]string, springOptions, error) {
	opts := springOptions{fps: 60, to: 100}
	var rest []string
	for i := 0; i < len(args); {
		matched := false
		for _, f := range []struct {
			name string
			set  func(string) error
		}{
			{"--fps", func(s string) (err error) { opts.fps, err = strconv.Atoi(s); return }},
			{"--from", func(s string) (err error) { opts.from, err = strconv.ParseFloat(s, 64); return }},
			{"--to", func(s string) (err error) { opts.to, err = strconv.ParseFloat(s, 64); return }},
			{"--velocity", func(s string) (err error) { opts.velocity, err = strconv.ParseFloat(s, 64); return }},
		} {
			v, n, ok, err := flagValue(args, i, f.name)
			if err != nil {
				return nil, opts, err
			}
			if !ok {
				continue
			}
			if err := f.set(v); err != nil {
				return nil, opts, fmt.Errorf("invalid %s %q: %w", f.name, v, err)
			}
			i += n
			matched = true
			break
		}
		if !matched {
			rest = append(rest, args[i])
			i++
		}
	}
	if opts.fps <= 0 {
		return nil, opts, fmt.Errorf("--fps must be positive, got %d", opts.fps)
	}
	return rest, opts, nil
}

// parseSpring accepts a preset name or "stiffness/damping[/mass]".
func parseSpring(s string) (spring.Config, error) {
	if cfg, ok := spring.Preset(s); ok {
		return cfg, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return spring.Config{}, fmt.Errorf("unknown spring %q (use a preset or stiffness/damping[/mass])", s)
	}
	nums := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return spring.Config{}, fmt.Errorf("invalid spring %q: %w", s, err)
		}
		nums[i] = v
	}
	cfg := spring.Config{Stiffness: nums[0], Damping: nums[1], Mass: 1}
	if len(nums) == 3 {
		cfg.Mass = nums[2]
	}
	return cfg, nil
}
