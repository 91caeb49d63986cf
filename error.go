package chainz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel failure kinds. Wrapped callables and composition operations
// surface these through errors.Is, usually wrapped inside *Error.
var (
	// ErrDereference is the distinguished failure: an absent value was
	// dereferenced. It is produced when a wrapped callable panics with a
	// runtime nil-dereference, and may also be returned (or wrapped) by
	// callables that want the null-tolerant decorator to intercept them.
	// It is the only failure kind WithDefault and Tolerant ever swallow.
	ErrDereference = errors.New("nil dereference")

	// ErrInvalidComposition is returned when a pairing of shapes has no
	// defined result. It is raised at composition time, never at
	// invocation time.
	ErrInvalidComposition = errors.New("invalid composition")

	// ErrStageMismatch is returned by a dynamic stage whose runtime
	// input does not match the type it was built for.
	ErrStageMismatch = errors.New("stage input mismatch")

	// ErrUnknownStage is returned by Registry.Build when a config names
	// a stage that was never registered.
	ErrUnknownStage = errors.New("unknown stage")
)

// Error provides rich context about invocation failures. It wraps the
// underlying error with the path of names leading to the failing stage,
// the input that stage received, and timing information.
//
// Error deliberately never alters the wrapped cause: errors.Is and
// errors.As see the original failure through Unwrap, so callers can
// still match sentinel errors raised deep inside a pipeline.
type Error struct {
	InputData any
	Err       error
	Timestamp time.Time
	Path      []Name
	Duration  time.Duration
}

// Error implements the error interface, providing a detailed message
// that identifies the failing stage by its path.
func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s failed after %v: %v", strings.Join(e.Path, "."), e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsDereference reports whether this failure is the distinguished
// dereference kind, the only kind the null-tolerant decorator intercepts.
func (e *Error) IsDereference() bool {
	return errors.Is(e.Err, ErrDereference)
}

// wrapStageErr attaches stage context to err. An error that already
// carries stage context passes through untouched so the original
// failing stage stays identifiable through any number of composition
// layers.
func wrapStageErr(err error, name Name, input any, start time.Time) error {
	var stageErr *Error
	if errors.As(err, &stageErr) {
		return err
	}
	return &Error{
		Path:      []Name{name},
		InputData: input,
		Err:       err,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}

// prependPath pushes a containing chain's name onto an error's path,
// wrapping the error first if it carries no stage context yet.
func prependPath(err error, name Name, input any, start time.Time) error {
	var stageErr *Error
	if errors.As(err, &stageErr) {
		stageErr.Path = append([]Name{name}, stageErr.Path...)
		return err
	}
	return &Error{
		Path:      []Name{name},
		InputData: input,
		Err:       err,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}
