package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/motion/pkg/easing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "ease",
		Short: "Sample an easing curve",
		Long: `Print an easing curve at evenly spaced progress values.

The curve is a name such as quadOut or ease-in-out, or a CSS
cubic-bezier(x1, y1, x2, y2) expression. Quote bezier expressions in the
shell.

Flags:
  --steps N   Number of intervals to sample (default: 10)`,
		Usage: "motion ease <curve> [--steps N]",
		Run:   runEase,
	})
}

func runEase(args []string) error {
	steps := 10
	var rest []string
	for i := 0; i < len(args); {
		v, n, ok, err := flagValue(args, i, "--steps")
		if err != nil {
			return err
		}
		if !ok {
			rest = append(rest, args[i])
			i++
			continue
		}
		if steps, err = strconv.Atoi(v); err != nil || steps <= 0 {
			return fmt.Errorf("invalid --steps %q", v)
		}
		i += n
	}
	if len(rest) == 0 {
		return fmt.Errorf("curve is required\n\nUsage: motion ease <curve>\n\nCurves: %s", strings.Join(easing.Names(), ", "))
	}

	curve, err := easing.Parse(strings.Join(rest, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, easing.Name(curve))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		y := curve.Evaluate(t)
		fmt.Fprintf(stdout, "%5.2f  %8.4f  %s\n", t, y, bar(y))
	}
	return nil
}

// bar renders y in [0, 1] as a horizontal bar. Overshoot is clipped.
func bar(y float64) string {
	const width = 40
	n := int(y*width + 0.5)
	n = max(0, min(n, width+width/4))
	return strings.Repeat("#", n)
}
