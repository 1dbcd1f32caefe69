// Package spring simulates damped harmonic motion toward a target.
//
// A spring is described by a [Config] (stiffness, damping and mass) and
// advanced by a [Simulation] in wall-clock time steps. Whether the motion
// oscillates is decided by the parameters alone; see [Config.Regime].
package spring

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-drift/motion/pkg/errors"
)

// MinMass is the smallest mass a simulation will use.
const MinMass = 1e-6

// Default rest thresholds.
const (
	DefaultRestDelta = 0.01
	DefaultRestSpeed = 0.01
)

// Config holds spring parameters.
type Config struct {
	// Stiffness (k) pulls the value toward the target. Must be positive.
	Stiffness float64 `yaml:"stiffness"`
	// Damping (c) resists velocity. Zero means the spring never settles.
	Damping float64 `yaml:"damping"`
	// Mass (m) scales inertia. Values below MinMass are raised to MinMass.
	Mass float64 `yaml:"mass"`
	// RestDelta is the distance from the target considered at rest.
	RestDelta float64 `yaml:"restDelta"`
	// RestSpeed is the speed considered at rest.
	RestSpeed float64 `yaml:"restSpeed"`
	// Velocity, when non-zero, overrides the initial velocity the spring
	// would otherwise inherit from the animated value.
	Velocity float64 `yaml:"velocity"`
}

// DefaultConfig returns the spring used when a transition asks for a
// spring without parameters.
func DefaultConfig() Config {
	return Config{
		Stiffness: 100,
		Damping:   10,
		Mass:      1,
		RestDelta: DefaultRestDelta,
		RestSpeed: DefaultRestSpeed,
	}
}

// Validate reports parameters no simulation can run with.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"stiffness": c.Stiffness,
		"damping":   c.Damping,
		"mass":      c.Mass,
		"restDelta": c.RestDelta,
		"restSpeed": c.RestSpeed,
		"velocity":  c.Velocity,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("%s is %v", name, v)
		}
	}
	if c.Stiffness <= 0 {
		return invalid("stiffness must be positive, got %v", c.Stiffness)
	}
	if c.Damping < 0 {
		return invalid("damping must not be negative, got %v", c.Damping)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New("spring.Config.Validate", errors.KindConfig,
		fmt.Errorf("%w: %s", errors.ErrInvalidConfig, fmt.Sprintf(format, args...)))
}

// Normalized returns c with mass clamped to MinMass and unset rest
// thresholds replaced by the defaults.
func (c Config) Normalized() Config {
	if !(c.Mass >= MinMass) {
		c.Mass = MinMass
	}
	if c.RestDelta <= 0 {
		c.RestDelta = DefaultRestDelta
	}
	if c.RestSpeed <= 0 {
		c.RestSpeed = DefaultRestSpeed
	}
	return c
}

// Regime classifies the motion a spring produces.
type Regime int

const (
	// Underdamped springs overshoot and oscillate around the target.
	Underdamped Regime = iota
	// CriticallyDamped springs reach the target as fast as possible
	// without overshooting.
	CriticallyDamped
	// Overdamped springs creep toward the target without overshooting.
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critically damped"
	case Overdamped:
		return "overdamped"
	default:
		return fmt.Sprintf("Regime(%d)", int(r))
	}
}

// Regime compares damping² with 4·k·m.
func (c Config) Regime() Regime {
	c = c.Normalized()
	d2 := c.Damping * c.Damping
	crit := 4 * c.Stiffness * c.Mass
	switch {
	case math.Abs(d2-crit) <= 1e-9*crit:
		return CriticallyDamped
	case d2 < crit:
		return Underdamped
	default:
		return Overdamped
	}
}

// NaturalFrequency returns the undamped angular frequency sqrt(k/m).
func (c Config) NaturalFrequency() float64 {
	c = c.Normalized()
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio returns c / (2·sqrt(k·m)).
func (c Config) DampingRatio() float64 {
	c = c.Normalized()
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Presets.
var (
	Gentle = Config{Stiffness: 100, Damping: 20, Mass: 1, RestDelta: DefaultRestDelta, RestSpeed: DefaultRestSpeed}
	Bouncy = Config{Stiffness: 200, Damping: 10, Mass: 1, RestDelta: DefaultRestDelta, RestSpeed: DefaultRestSpeed}
	Snappy = Config{Stiffness: 300, Damping: 30, Mass: 1, RestDelta: DefaultRestDelta, RestSpeed: DefaultRestSpeed}
	Wobbly = Config{Stiffness: 180, Damping: 8, Mass: 1, RestDelta: DefaultRestDelta, RestSpeed: DefaultRestSpeed}
	Slow   = Config{Stiffness: 50, Damping: 15, Mass: 1, RestDelta: DefaultRestDelta, RestSpeed: DefaultRestSpeed}
)

var presets = map[string]Config{
	"default": DefaultConfig(),
	"gentle":  Gentle,
	"bouncy":  Bouncy,
	"snappy":  Snappy,
	"wobbly":  Wobbly,
	"slow":    Slow,
}

// Preset returns the named preset.
func Preset(name string) (Config, bool) {
	c, ok := presets[name]
	return c, ok
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
