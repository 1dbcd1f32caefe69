package animation

import "github.com/google/uuid"

// ElementID is an opaque reference to a rendered element. The engine never
// interprets it; render surfaces resolve it.
type ElementID string

// Handle identifies a scheduled animation. It is only a lookup key: the
// engine owns the animation state, and a Handle stays valid (and reports
// ErrNotFound) after the animation has finished.
type Handle struct {
	id uuid.UUID
}

// NewHandle returns a fresh, random handle.
func NewHandle() Handle {
	return Handle{id: uuid.New()}
}

// ParseHandle parses the output of Handle.String.
func ParseHandle(s string) (Handle, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, err
	}
	return Handle{id: id}, nil
}

// IsZero reports whether h is the zero Handle, which no animation uses.
func (h Handle) IsZero() bool { return h.id == uuid.Nil }

func (h Handle) String() string { return h.id.String() }
