package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/config"
	"github.com/go-drift/motion/pkg/engine"
	"github.com/go-drift/motion/pkg/host"
	"github.com/go-drift/motion/pkg/surface"
	"github.com/go-drift/motion/pkg/surface/mqttsurface"
	"github.com/go-drift/motion/pkg/timeline"
)

const (
	defaultMaxFrames = 600
	defaultTopic     = "motion/frames"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Play the animations in motion.yaml",
		Long: `Play every animation listed in motion.yaml and print the values the
engine writes on each frame.

By default the scenario runs in simulated time: frames are stepped at the
configured rate as fast as possible. With --realtime the scenario runs on a
wall-clock frame loop until it finishes or is interrupted.

Properties listed under engine.nativeProperties run on the built-in
timeline backend; everything else is interpolated frame by frame.

Flags:
  --dir DIR          Directory containing motion.yaml (default: .)
  --config FILE      Read this file instead of DIR/motion.yaml
  --mqtt URL         Also publish frames to this MQTT broker
  --topic TOPIC      MQTT topic (default: motion/frames)
  --max-frames N     Stop after N frames in simulated time (default: 600)
  --realtime         Run on a wall-clock frame loop
  --quiet            Print only the summary`,
		Usage: "motion run [--dir DIR] [--config FILE] [--mqtt URL] [--topic TOPIC] [--max-frames N] [--realtime] [--quiet]",
		Run:   runRun,
	})
}

type runOptions struct {
	dir       string
	file      string
	mqttURL   string
	topic     string
	maxFrames int
	realtime  bool
	quiet     bool
}

func parseRunArgs(args []string) (runOptions, error) {
	opts := runOptions{dir: ".", maxFrames: defaultMaxFrames}
	for i := 0; i < len(args); {
		switch args[i] {
		case "--realtime":
			opts.realtime = true
			i++
			continue
		case "--quiet":
			opts.quiet = true
			i++
			continue
		}
		matched := false
		for _, f := range []struct {
			name string
			set  func(string) error
		}{
			{"--dir", func(s string) error { opts.dir = s; return nil }},
			{"--config", func(s string) error { opts.file = s; return nil }},
			{"--mqtt", func(s string) error { opts.mqttURL = s; return nil }},
			{"--topic", func(s string) error { opts.topic = s; return nil }},
			{"--max-frames", func(s string) (err error) { opts.maxFrames, err = strconv.Atoi(s); return }},
		} {
			v, n, ok, err := flagValue(args, i, f.name)
			if err != nil {
				return opts, err
			}
			if !ok {
				continue
			}
			if err := f.set(v); err != nil {
				return opts, fmt.Errorf("invalid %s %q: %w", f.name, v, err)
			}
			i += n
			matched = true
			break
		}
		if !matched {
			return opts, fmt.Errorf("unexpected argument %q\n\nUsage: motion run [flags]", args[i])
		}
	}
	if opts.maxFrames <= 0 {
		return opts, fmt.Errorf("--max-frames must be positive, got %d", opts.maxFrames)
	}
	return opts, nil
}

func loadScenario(opts runOptions) (*config.Resolved, error) {
	if opts.file == "" {
		return config.Resolve(opts.dir)
	}
	cfg, err := config.Load(opts.file)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Path = opts.file
	return r, nil
}

// simClock is advanced by hand, one frame interval at a time.
type simClock struct{ now time.Time }

func (c *simClock) Now() time.Time { return c.now }

// scenario is an engine wired to the surfaces a run writes to.
type scenario struct {
	cfg      *config.Resolved
	eng      *engine.Engine
	loop     *host.Loop
	rec      *surface.Recorder
	handles  []animation.Handle
	backends []engine.Backend
	ds       []animation.Descriptor
	close    func()
}

func newScenario(cfg *config.Resolved, opts runOptions, clock animation.Clock) (*scenario, error) {
	ds, err := cfg.Descriptors()
	if err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("no animations configured in %s", cfg.Path)
	}

	s := &scenario{cfg: cfg, ds: ds, rec: surface.NewRecorder(), close: func() {}}
	surfaces := surface.Multi{s.rec}

	mc := cfg.MQTT
	if opts.mqttURL != "" {
		c := mqttsurface.Config{}
		if mc != nil {
			c = *mc
		}
		c.URL = opts.mqttURL
		mc = &c
	}
	if mc != nil {
		topic := mc.Topic
		if opts.topic != "" {
			topic = opts.topic
		}
		if topic == "" {
			topic = defaultTopic
		}
		client, err := mqttsurface.Dial(*mc)
		if err != nil {
			return nil, err
		}
		s.close = func() { client.Disconnect(250) }
		surfaces = append(surfaces, mqttsurface.New(client, topic))
		fmt.Fprintf(stdout, "publishing frames to %s on %s\n", mc.URL, topic)
	}

	s.loop = host.NewLoop(cfg.FPS, host.WithClock(clock))
	engOpts := []engine.Option{
		engine.WithClock(clock),
		engine.WithFrameRequester(s.loop),
		engine.WithSurface(surfaces),
		engine.WithColorSpace(cfg.ColorSpace),
		engine.WithDefaultSpring(cfg.DefaultSpring),
	}
	if len(cfg.NativeProperties) > 0 {
		tl := timeline.New(surfaces,
			timeline.WithProperties(surface.NewPropertySet(cfg.NativeProperties...)),
			timeline.WithColorSpace(cfg.ColorSpace),
		)
		engOpts = append(engOpts, engine.WithPlatform(tl))
	}
	s.eng = engine.New(engOpts...)
	return s, nil
}

func (s *scenario) start() error {
	handles, err := s.eng.AnimateAll(s.ds)
	if err != nil {
		return err
	}
	s.handles = handles
	for _, h := range handles {
		b, _ := s.eng.Backend(h)
		s.backends = append(s.backends, b)
	}
	return nil
}

func runRun(args []string) error {
	opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadScenario(opts)
	if err != nil {
		return err
	}
	if opts.realtime {
		return runRealtime(cfg, opts)
	}
	return runSimulated(cfg, opts)
}

func runSimulated(cfg *config.Resolved, opts runOptions) error {
	clock := &simClock{now: time.Unix(0, 0)}
	s, err := newScenario(cfg, opts, clock)
	if err != nil {
		return err
	}
	defer s.close()
	defer s.eng.Dispose()

	start := clock.now
	if err := s.start(); err != nil {
		return err
	}

	printed := 0
	frame := 0
	for !s.loop.Idle() {
		if frame == opts.maxFrames {
			fmt.Fprintf(stdout, "stopped after %d frames with %d animations running\n", frame, s.eng.Active())
			break
		}
		frame++
		clock.now = clock.now.Add(s.loop.Interval())
		s.loop.Step(clock.now)
		if !opts.quiet {
			printed = printFrame(s.rec, printed, frame, clock.now.Sub(start))
		}
	}
	s.summary(frame)
	return nil
}

func runRealtime(cfg *config.Resolved, opts runOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := newScenario(cfg, opts, animation.SystemClock{})
	if err != nil {
		return err
	}
	defer s.close()

	loopCtx, cancelLoop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.loop.Run(loopCtx)
	}()

	var startErr error
	if err := s.loop.Do(ctx, func() { startErr = s.start() }); err == nil && startErr == nil {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			var active int
			if err := s.loop.Do(ctx, func() { active = s.eng.Active() }); err != nil {
				fmt.Fprintln(stdout, "interrupted")
				break
			}
			if active == 0 {
				break
			}
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}

	// The loop goroutine is gone after this, so the engine is ours again.
	cancelLoop()
	<-done
	if startErr != nil {
		return startErr
	}
	s.summary(s.loop.Frames())
	s.eng.Dispose()
	return nil
}

// printFrame prints the writes recorded since the previous call and
// returns the new write count.
func printFrame(rec *surface.Recorder, printed, frame int, at time.Duration) int {
	writes := rec.Writes()
	if len(writes) == printed {
		return printed
	}
	parts := make([]string, 0, len(writes)-printed)
	for _, w := range writes[printed:] {
		parts = append(parts, fmt.Sprintf("%s.%s=%s", w.Element, w.Property, w.Value))
	}
	fmt.Fprintf(stdout, "%4d %8.1fms  %s\n", frame, float64(at)/float64(time.Millisecond), strings.Join(parts, " "))
	return len(writes)
}

func (s *scenario) summary(frames int) {
	stats := s.eng.Stats()
	fmt.Fprintf(stdout, "%d frames, %d slow (budget %.1fms)\n", frames, stats.SlowFrames, stats.BudgetMs)
	for i, h := range s.handles {
		d := s.ds[i]
		state, _ := s.eng.State(h)
		var values []string
		for _, prop := range d.Properties() {
			if v, ok := s.rec.Last(d.Element, prop); ok {
				values = append(values, fmt.Sprintf("%s=%s", prop, v))
			}
		}
		fmt.Fprintf(stdout, "%-12s %-10s %-7s %s\n", d.Element, state, s.backends[i], strings.Join(values, " "))
	}
}
