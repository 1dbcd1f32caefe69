// Package errors provides structured error handling for the motion engine.
//
// Every error returned by the engine is a *MotionError whose Err field wraps
// one of the sentinel values below, so callers can match with Is:
//
//	if _, err := eng.Animate(d); errors.Is(err, errors.ErrInvalidProperty) {
//		// fall back to a different property
//	}
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Sentinel errors matched with Is.
var (
	// ErrInvalidProperty reports that the render surface cannot display a property.
	ErrInvalidProperty = stderrors.New("property not supported by surface")
	// ErrNotFound reports an unknown, finished, or already interrupted handle.
	ErrNotFound = stderrors.New("animation not found")
	// ErrAlreadyRunning is reported (never returned) when a new animation
	// takes over properties of one still in flight.
	ErrAlreadyRunning = stderrors.New("animation already running")
	// ErrEngine reports that no backend could run an animation.
	ErrEngine = stderrors.New("animation engine failure")
	// ErrTypeMismatch reports from/to values of different kinds or units.
	ErrTypeMismatch = stderrors.New("value type mismatch")
	// ErrInvalidConfig reports an unusable spring, transition, or config file.
	ErrInvalidConfig = stderrors.New("invalid configuration")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindProperty indicates an unsupported or malformed property.
	KindProperty
	// KindLookup indicates a handle lookup failure.
	KindLookup
	// KindConflict indicates two animations competing for a property.
	KindConflict
	// KindBackend indicates a native or manual backend failure.
	KindBackend
	// KindValue indicates a value parsing or interpolation failure.
	KindValue
	// KindConfig indicates a configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindLookup:
		return "lookup"
	case KindConflict:
		return "conflict"
	case KindBackend:
		return "backend"
	case KindValue:
		return "value"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// MotionError represents a structured error raised by the engine.
type MotionError struct {
	// Op is the operation that failed (e.g., "engine.Animate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Handle is the animation handle involved, if any.
	Handle string
	// Property is the animated property involved, if any.
	Property string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// New returns a MotionError for op wrapping err.
func New(op string, kind ErrorKind, err error) *MotionError {
	return &MotionError{Op: op, Kind: kind, Err: err}
}

// WithProperty sets the property and returns the receiver.
func (e *MotionError) WithProperty(property string) *MotionError {
	e.Property = property
	return e
}

// WithHandle sets the handle and returns the receiver.
func (e *MotionError) WithHandle(handle string) *MotionError {
	e.Handle = handle
	return e
}

func (e *MotionError) Error() string {
	msg := fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	if e.Handle != "" {
		msg += " handle=" + e.Handle
	}
	if e.Property != "" {
		msg += " property=" + e.Property
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *MotionError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "motion.Value.Set").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a failure to parse a textual value.
type ParseError struct {
	// Input is the text that failed to parse.
	Input string
	// Want names the expected value type.
	Want string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s", e.Input, e.Want)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error or notice is reported.
	HandleError(err *MotionError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
