package animation

import "fmt"

// Status represents the lifecycle state of an animation.
//
// The status follows this state machine:
//
//	          delay elapsed            finished
//	Pending ────────────────► Running ──────────► Completed
//	   │                       │   ▲
//	   │               Pause() │   │ Resume()
//	   │                       ▼   │
//	   │                       Paused
//	   │                         │
//	   └──────────┬──────────────┘
//	              ▼  Interrupt() or takeover
//	          Cancelled
//
// Completed and Cancelled are terminal.
type Status int

const (
	// Pending means the animation is scheduled but its delay has not elapsed.
	Pending Status = iota
	// Running means values are being produced.
	Running
	// Paused means the animation is suspended and holds its values.
	Paused
	// Completed means the animation reached its final value.
	Completed
	// Cancelled means the animation was interrupted or could not start.
	Cancelled
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether s is Completed or Cancelled.
func (s Status) Terminal() bool {
	return s == Completed || s == Cancelled
}

// Active reports whether an animation in status s still owns its properties.
func (s Status) Active() bool {
	return s == Pending || s == Running || s == Paused
}
