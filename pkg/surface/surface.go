// Package surface defines where computed animation values go.
//
// A [Surface] writes values onto rendered elements. Engines call Apply from
// inside their frame callback, so implementations must be cheap and must
// not fail: adapters log their own errors.
package surface

import (
	"slices"
	"sync"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/value"
)

// Surface writes computed values onto elements.
type Surface interface {
	// Supports reports whether the surface can display property.
	Supports(property string) bool
	// Apply writes v as the current value of property on el.
	Apply(el animation.ElementID, property string, v value.Value)
}

// Flusher is implemented by surfaces that buffer writes. Engines call Flush
// once at the end of every frame.
type Flusher interface {
	Flush()
}

// PropertySet is a set of property names.
type PropertySet map[string]struct{}

// NewPropertySet returns a set holding names.
func NewPropertySet(names ...string) PropertySet {
	s := make(PropertySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Supports reports whether name is in s.
func (s PropertySet) Supports(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members of s in sorted order.
func (s PropertySet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Standard holds the properties every bundled surface understands.
var Standard = NewPropertySet(
	"opacity", "transform",
	"x", "y", "z", "scale", "scaleX", "scaleY",
	"rotate", "rotateX", "rotateY", "rotateZ", "skewX", "skewY",
	"translateX", "translateY", "translateZ",
	"left", "top", "width", "height",
	"color", "backgroundColor", "borderColor", "borderRadius",
)

// Func adapts a plain function to a Surface supporting the Standard
// properties.
type Func func(el animation.ElementID, property string, v value.Value)

// Supports implements Surface.
func (f Func) Supports(property string) bool { return Standard.Supports(property) }

// Apply implements Surface.
func (f Func) Apply(el animation.ElementID, property string, v value.Value) { f(el, property, v) }

// Write is one recorded Apply call.
type Write struct {
	Element  animation.ElementID
	Property string
	Value    value.Value
}

// Recorder is an in-memory Surface that remembers every write.
// It is safe for concurrent use.
type Recorder struct {
	// Properties restricts what the recorder supports. Nil means Standard.
	Properties PropertySet

	mu     sync.Mutex
	writes []Write
	last   map[animation.ElementID]map[string]value.Value
	frames int
}

// NewRecorder returns an empty Recorder supporting the Standard properties.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Supports implements Surface.
func (r *Recorder) Supports(property string) bool {
	if r.Properties == nil {
		return Standard.Supports(property)
	}
	return r.Properties.Supports(property)
}

// Apply implements Surface.
func (r *Recorder) Apply(el animation.ElementID, property string, v value.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, Write{Element: el, Property: property, Value: v})
	if r.last == nil {
		r.last = make(map[animation.ElementID]map[string]value.Value)
	}
	props := r.last[el]
	if props == nil {
		props = make(map[string]value.Value)
		r.last[el] = props
	}
	props[property] = v
}

// Flush implements Flusher by counting frames.
func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
}

// Last returns the most recent value written to property on el.
func (r *Recorder) Last(el animation.ElementID, property string) (value.Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.last[el][property]
	return v, ok
}

// Writes returns a copy of every write so far, in order.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.writes)
}

// Frames returns how many times Flush has been called.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Reset forgets all writes and frames.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	r.last = nil
	r.frames = 0
}

// Multi fans writes out to several surfaces. A property is supported only
// if every surface supports it.
type Multi []Surface

// Supports implements Surface.
func (m Multi) Supports(property string) bool {
	for _, s := range m {
		if !s.Supports(property) {
			return false
		}
	}
	return len(m) > 0
}

// Apply implements Surface.
func (m Multi) Apply(el animation.ElementID, property string, v value.Value) {
	for _, s := range m {
		s.Apply(el, property, v)
	}
}

// Flush implements Flusher by flushing every surface that buffers.
func (m Multi) Flush() {
	for _, s := range m {
		if f, ok := s.(Flusher); ok {
			f.Flush()
		}
	}
}
