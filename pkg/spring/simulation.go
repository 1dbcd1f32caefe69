package spring

import (
	"math"
	"time"
)

const (
	// maxSubstep bounds the integration step regardless of frame rate.
	maxSubstep = 1.0 / 240
	// settleEvaluations is how many consecutive at-rest steps end a run.
	settleEvaluations = 3
	maxSubsteps       = 1 << 20
)

// Simulation advances a spring toward its target.
//
// The equation of motion m·ẍ = -k·(x - target) - c·ẋ is integrated with
// semi-implicit Euler: velocity is updated from the current force, then
// position from the new velocity. Each Step is split into substeps no
// longer than 1/240 s, shortened further for stiff or heavily damped
// springs so the integrator stays stable at any frame rate.
type Simulation struct {
	cfg     Config
	x, v    float64
	target  float64
	substep float64
	atRest  int
	done    bool
	elapsed time.Duration
}

// NewSimulation starts a spring at position with velocity, heading to
// target. cfg is normalized first; call Config.Validate to reject bad
// parameters.
func NewSimulation(cfg Config, position, velocity, target float64) *Simulation {
	cfg = cfg.Normalized()
	s := &Simulation{cfg: cfg, x: position, v: velocity, target: target}
	s.substep = substepFor(cfg)
	return s
}

func substepFor(c Config) float64 {
	h := maxSubstep
	if w := math.Sqrt(c.Stiffness / c.Mass); w > 0 {
		h = math.Min(h, 0.25/w)
	}
	if c.Damping > 0 {
		h = math.Min(h, 0.5*c.Mass/c.Damping)
	}
	return h
}

// Step advances the simulation by dt seconds and reports whether the
// spring has settled. Once settled, the position equals the target
// exactly, velocity is zero and further steps do nothing.
func (s *Simulation) Step(dt float64) bool {
	if s.done {
		return true
	}
	if dt > 0 {
		n := int(math.Ceil(dt/s.substep - 1e-9))
		n = max(1, min(n, maxSubsteps))
		h := dt / float64(n)
		k, c, m := s.cfg.Stiffness, s.cfg.Damping, s.cfg.Mass
		for range n {
			a := (-k*(s.x-s.target) - c*s.v) / m
			s.v += a * h
			s.x += s.v * h
		}
		s.elapsed += time.Duration(dt * float64(time.Second))
	}

	if math.Abs(s.x-s.target) < s.cfg.RestDelta && math.Abs(s.v) < s.cfg.RestSpeed {
		s.atRest++
	} else {
		s.atRest = 0
	}
	if s.atRest >= settleEvaluations {
		s.x = s.target
		s.v = 0
		s.done = true
	}
	return s.done
}

// StepDuration is Step for a time.Duration.
func (s *Simulation) StepDuration(d time.Duration) bool {
	return s.Step(d.Seconds())
}

// IsDone reports whether the spring has settled.
func (s *Simulation) IsDone() bool { return s.done }

// Position returns the current position.
func (s *Simulation) Position() float64 { return s.x }

// Velocity returns the current velocity in units per second.
func (s *Simulation) Velocity() float64 { return s.v }

// Target returns the rest position.
func (s *Simulation) Target() float64 { return s.target }

// Elapsed returns the simulated time so far.
func (s *Simulation) Elapsed() time.Duration { return s.elapsed }

// Config returns the normalized parameters.
func (s *Simulation) Config() Config { return s.cfg }

// SetTarget retargets the spring, keeping position and velocity, and
// resumes a settled simulation.
func (s *Simulation) SetTarget(target float64) {
	if target == s.target {
		return
	}
	s.target = target
	s.done = false
	s.atRest = 0
}
