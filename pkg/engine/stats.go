package engine

import (
	"sync"
	"time"
)

const (
	frameStatsSamplesDefault = 240
	defaultFrameBudget       = 16667 * time.Microsecond
)

// FrameSample describes one engine tick.
type FrameSample struct {
	Timestamp int64   `json:"ts"`
	TickMs    float64 `json:"tickMs"`
	Advanced  int     `json:"advanced"`
	Completed int     `json:"completed"`
	Active    int     `json:"active"`
}

// FrameTimeline is a chronological view of recent ticks.
type FrameTimeline struct {
	Samples    []FrameSample `json:"samples"`
	SlowFrames int           `json:"slowFrames"`
	BudgetMs   float64       `json:"budgetMs"`
}

// FrameStats stores recent tick samples in a ring buffer. It is safe to
// read from another goroutine while the engine records.
type FrameStats struct {
	mu      sync.RWMutex
	samples []FrameSample
	index   int
	count   int
	slow    int
	budget  time.Duration
}

// NewFrameStats creates a buffer holding capacity samples. Ticks that take
// longer than budget are counted as slow.
func NewFrameStats(capacity int, budget time.Duration) *FrameStats {
	if capacity <= 0 {
		capacity = frameStatsSamplesDefault
	}
	if budget <= 0 {
		budget = defaultFrameBudget
	}
	return &FrameStats{
		samples: make([]FrameSample, capacity),
		budget:  budget,
	}
}

// Capacity returns the buffer capacity.
func (b *FrameStats) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Budget returns the slow frame threshold.
func (b *FrameStats) Budget() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.budget
}

// Add records a sample and updates the slow frame count.
func (b *FrameStats) Add(sample FrameSample, cost time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if cost > b.budget {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of the samples.
func (b *FrameStats) Snapshot() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return FrameTimeline{BudgetMs: durationToMillis(b.budget)}
	}

	result := make([]FrameSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return FrameTimeline{
		Samples:    result,
		SlowFrames: b.slow,
		BudgetMs:   durationToMillis(b.budget),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
