// Package config loads motion.yaml, which configures an engine and an
// optional scenario of animations to run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/easing"
	"github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/spring"
	"github.com/go-drift/motion/pkg/surface/mqttsurface"
	"github.com/go-drift/motion/pkg/value"
)

// FileName is the name LoadOptional looks for.
const FileName = "motion.yaml"

// SchemaVersion is the newest configuration schema this package reads.
const SchemaVersion = "v1.0.0"

// DefaultFPS is the frame rate used when the configuration sets none.
const DefaultFPS = 60

// Config represents motion.yaml.
type Config struct {
	Version    string        `yaml:"version,omitempty"`
	Engine     EngineConfig  `yaml:"engine"`
	Surface    SurfaceConfig `yaml:"surface"`
	Animations []Animation   `yaml:"animations,omitempty"`
}

// EngineConfig contains engine settings.
type EngineConfig struct {
	FPS              int                      `yaml:"fps,omitempty"`
	ColorSpace       string                   `yaml:"colorSpace,omitempty"`
	NativeProperties []string                 `yaml:"nativeProperties,omitempty"`
	Spring           *spring.Config           `yaml:"spring,omitempty"`
	Springs          map[string]spring.Config `yaml:"springs,omitempty"`
}

// SurfaceConfig selects where frames go besides the engine's own surface.
type SurfaceConfig struct {
	MQTT *mqttsurface.Config `yaml:"mqtt,omitempty"`
}

// Animation is one scenario entry.
type Animation struct {
	Element  string         `yaml:"element"`
	From     ValueMap       `yaml:"from"`
	To       ValueMap       `yaml:"to"`
	Duration time.Duration  `yaml:"duration,omitempty"`
	Delay    time.Duration  `yaml:"delay,omitempty"`
	Ease     string         `yaml:"ease,omitempty"`
	Spring   string         `yaml:"spring,omitempty"`
	Repeat   *RepeatConfig  `yaml:"repeat,omitempty"`
	Stagger  *StaggerConfig `yaml:"stagger,omitempty"`

	Keyframes *KeyframesConfig `yaml:"keyframes,omitempty"`
}

// KeyframesConfig lists intermediate stops between from and to. Ease
// names one curve per segment; an empty name is linear.
type KeyframesConfig struct {
	Stops []StopConfig `yaml:"stops"`
	Ease  []string     `yaml:"ease,omitempty"`
}

// StopConfig is one keyframe stop.
type StopConfig struct {
	Offset float64  `yaml:"offset"`
	Values ValueMap `yaml:"values"`
}

// RepeatConfig describes a repeat policy.
type RepeatConfig struct {
	Mode  string `yaml:"mode"`
	Count int    `yaml:"count,omitempty"`
}

// StaggerConfig describes a stagger.
type StaggerConfig struct {
	Delay time.Duration `yaml:"delay"`
	From  string        `yaml:"from,omitempty"`
	Index int           `yaml:"index,omitempty"`
}

// ValueMap maps property names to values in their text form, such as
// "12px", "#ff0000" or "rotate(45deg)". Plain YAML numbers are accepted.
type ValueMap map[string]string

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *ValueMap) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a map of property values", n.Line)
	}
	out := make(ValueMap, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of %q must be a scalar", v.Line, k.Value)
		}
		out[k.Value] = v.Value
	}
	*m = out
	return nil
}

// Target parses every value in m.
func (m ValueMap) Target() (value.Target, error) {
	t := make(value.Target, len(m))
	for prop, text := range m {
		v, err := value.Parse(text)
		if err != nil {
			return nil, invalid("config.ValueMap.Target", fmt.Errorf("%s: %w", prop, err))
		}
		t[prop] = v
	}
	return t, nil
}

// Resolved contains validated configuration with defaults filled in.
type Resolved struct {
	Path             string
	Version          string
	FPS              int
	ColorSpace       value.ColorSpace
	NativeProperties []string
	DefaultSpring    spring.Config
	Springs          map[string]spring.Config
	MQTT             *mqttsurface.Config
	Animations       []Animation
}

// Parse decodes a motion.yaml document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, invalid("config.Parse", fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	return &cfg, nil
}

// Load reads and decodes the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("config.Load", errors.KindConfig, fmt.Errorf("failed to read %s: %w", path, err))
	}
	return Parse(data)
}

// LoadOptional reads motion.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve validates c and fills in defaults.
func (c *Config) Resolve() (*Resolved, error) {
	version, err := checkVersion(c.Version)
	if err != nil {
		return nil, err
	}

	fps := c.Engine.FPS
	switch {
	case fps == 0:
		fps = DefaultFPS
	case fps < 0:
		return nil, invalid("config.Resolve", fmt.Errorf("fps must be positive, got %d", fps))
	}

	space, err := value.ParseColorSpace(strings.TrimSpace(c.Engine.ColorSpace))
	if err != nil {
		return nil, err
	}

	def := spring.DefaultConfig()
	if c.Engine.Spring != nil {
		def = springDefaults(*c.Engine.Spring)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	springs := make(map[string]spring.Config)
	for _, name := range spring.PresetNames() {
		springs[name], _ = spring.Preset(name)
	}
	springs["default"] = def
	for name, cfg := range c.Engine.Springs {
		cfg = springDefaults(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, invalid("config.Resolve", fmt.Errorf("spring %q: %w", name, err))
		}
		springs[name] = cfg
	}

	r := &Resolved{
		Version:          version,
		FPS:              fps,
		ColorSpace:       space,
		NativeProperties: c.Engine.NativeProperties,
		DefaultSpring:    def,
		Springs:          springs,
		MQTT:             c.Surface.MQTT,
		Animations:       c.Animations,
	}
	for i, a := range c.Animations {
		if _, err := r.Descriptor(a); err != nil {
			return nil, invalid("config.Resolve", fmt.Errorf("animations[%d]: %w", i, err))
		}
	}
	return r, nil
}

// Resolve loads motion.yaml from dir, if present, and resolves it.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Path = filepath.Join(dir, FileName)
	return r, nil
}

// springDefaults treats an omitted mass as 1 rather than MinMass.
func springDefaults(c spring.Config) spring.Config {
	if c.Mass == 0 {
		c.Mass = 1
	}
	return c.Normalized()
}

func checkVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return SchemaVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", invalid("config.Resolve", fmt.Errorf("version %q is not a semantic version", v))
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return "", invalid("config.Resolve", fmt.Errorf("unsupported schema version %s, want %s.x", v, semver.Major(SchemaVersion)))
	}
	if semver.Compare(v, SchemaVersion) > 0 {
		return "", invalid("config.Resolve", fmt.Errorf("schema version %s is newer than %s", v, SchemaVersion))
	}
	return semver.Canonical(v), nil
}

// Descriptors converts every scenario entry.
func (r *Resolved) Descriptors() ([]animation.Descriptor, error) {
	out := make([]animation.Descriptor, 0, len(r.Animations))
	for _, a := range r.Animations {
		d, err := r.Descriptor(a)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Descriptor converts a scenario entry, resolving spring names against
// r.Springs.
func (r *Resolved) Descriptor(a Animation) (animation.Descriptor, error) {
	if strings.TrimSpace(a.Element) == "" {
		return animation.Descriptor{}, invalid("config.Descriptor", fmt.Errorf("element is required"))
	}
	from, err := a.From.Target()
	if err != nil {
		return animation.Descriptor{}, err
	}
	to, err := a.To.Target()
	if err != nil {
		return animation.Descriptor{}, err
	}

	tr := animation.Transition{Duration: a.Duration, Delay: a.Delay}
	if a.Ease != "" && a.Spring != "" {
		return animation.Descriptor{}, invalid("config.Descriptor", fmt.Errorf("%s: ease and spring are mutually exclusive", a.Element))
	}
	if a.Ease != "" {
		if tr.Ease, err = easing.Parse(a.Ease); err != nil {
			return animation.Descriptor{}, err
		}
	}
	if a.Spring != "" {
		cfg, ok := r.Springs[a.Spring]
		if !ok {
			return animation.Descriptor{}, invalid("config.Descriptor", fmt.Errorf("unknown spring %q", a.Spring))
		}
		tr.Spring = &cfg
	}
	if a.Repeat != nil {
		if tr.Repeat, err = a.Repeat.policy(); err != nil {
			return animation.Descriptor{}, err
		}
	}
	if a.Stagger != nil {
		if tr.Stagger, err = a.Stagger.stagger(); err != nil {
			return animation.Descriptor{}, err
		}
	}

	d := animation.Descriptor{
		Element:    animation.ElementID(a.Element),
		From:       from,
		To:         to,
		Transition: tr,
	}
	if a.Keyframes != nil {
		if d.Keyframes, err = a.Keyframes.keyframes(); err != nil {
			return animation.Descriptor{}, err
		}
	}
	if err := d.Validate(); err != nil {
		return animation.Descriptor{}, err
	}
	return d, nil
}

func (kc KeyframesConfig) keyframes() (animation.Keyframes, error) {
	var kf animation.Keyframes
	for _, s := range kc.Stops {
		values, err := s.Values.Target()
		if err != nil {
			return kf, err
		}
		kf.Stops = append(kf.Stops, animation.Keyframe{Offset: s.Offset, Values: values})
	}
	for _, name := range kc.Ease {
		if name == "" {
			kf.Ease = append(kf.Ease, nil)
			continue
		}
		c, err := easing.Parse(name)
		if err != nil {
			return kf, err
		}
		kf.Ease = append(kf.Ease, c)
	}
	return kf, nil
}

func (rc RepeatConfig) policy() (animation.Repeat, error) {
	switch strings.ToLower(rc.Mode) {
	case "", "never":
		return animation.Once, nil
	case "count":
		return animation.Times(rc.Count), nil
	case "infinite":
		return animation.Forever, nil
	case "infinitealternating", "alternate":
		return animation.ForeverAlternating, nil
	}
	return animation.Repeat{}, invalid("config.Descriptor", fmt.Errorf("unknown repeat mode %q", rc.Mode))
}

func (sc StaggerConfig) stagger() (*animation.Stagger, error) {
	s := &animation.Stagger{Delay: sc.Delay, Index: sc.Index}
	switch strings.ToLower(sc.From) {
	case "", "first":
		s.From = animation.StaggerFirst
	case "last":
		s.From = animation.StaggerLast
	case "center":
		s.From = animation.StaggerCenter
	case "index":
		s.From = animation.StaggerIndex
	default:
		return nil, invalid("config.Descriptor", fmt.Errorf("unknown stagger origin %q", sc.From))
	}
	return s, nil
}

func invalid(op string, err error) error {
	return errors.New(op, errors.KindConfig, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err))
}
