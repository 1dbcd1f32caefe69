package engine

import (
	"fmt"

	"github.com/go-drift/motion/pkg/animation"
)

// Backend is the execution strategy chosen for an animation.
type Backend int

const (
	// BackendManual advances the animation on every engine tick.
	BackendManual Backend = iota
	// BackendNative hands the animation to the Platform.
	BackendNative
)

func (b Backend) String() string {
	switch b {
	case BackendManual:
		return "manual"
	case BackendNative:
		return "native"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// SupportsNative reports whether p can run d on its own timeline. Springs,
// keyframe sequences and per-frame callbacks need the engine, and every
// animated property must be supported by the platform.
func SupportsNative(p Platform, d *animation.Descriptor) bool {
	if p == nil || d.Transition.IsSpring() || d.OnUpdate != nil || d.Keyframes.Len() > 0 {
		return false
	}
	for _, prop := range d.Properties() {
		if !p.Supports(prop) {
			return false
		}
	}
	return true
}

func (e *Engine) selectBackend(d *animation.Descriptor) Backend {
	if SupportsNative(e.platform, d) {
		return BackendNative
	}
	return BackendManual
}
