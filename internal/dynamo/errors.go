package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates non-physical or numerically unstable
	// parameters. Detected at construction, never silently clamped.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvariantViolation indicates the control law produced a command
	// outside the passivity/clamp constraint. Fatal: a controller bug,
	// not bad input.
	ErrInvariantViolation = errors.New("dynamo: control invariant violated")

	// ErrMalformedSequence indicates non-monotonic or irregularly spaced
	// timestamps in the road profile.
	ErrMalformedSequence = errors.New("dynamo: malformed input sequence")

	// ErrEmptyTrace indicates a score was requested with no steps recorded.
	ErrEmptyTrace = errors.New("dynamo: empty trace")

	// ErrUnstable indicates the integration diverged (NaN/Inf state).
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
