// Package road supplies road displacement profiles: the measured input
// sequence driving a simulation run, plus synthetic generators for tests
// and presets.
package road

import (
	"fmt"
	"math"

	"suspensim/internal/dynamo"
)

// Sample is one measured road point. Read-only once produced.
type Sample struct {
	T            float64 // timestamp (s)
	Displacement float64 // road surface displacement (m)
}

// Profile is an ordered road sample sequence with fixed dt spacing.
type Profile []Sample

// SequenceError reports where a profile violates the uniform-grid contract.
type SequenceError struct {
	Index  int
	T      float64
	Reason string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("road sample %d (t=%g): %s", e.Index, e.T, e.Reason)
}

func (e *SequenceError) Unwrap() error { return dynamo.ErrMalformedSequence }

// Validate checks the contract the simulation loop relies on: strictly
// increasing timestamps with spacing equal to dt, and finite displacements.
// The contract is checked, never assumed.
func (p Profile) Validate(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: time step %g must be positive", dynamo.ErrInvalidConfig, dt)
	}

	tol := 1e-9 * math.Max(1, dt)
	for i, s := range p {
		if math.IsNaN(s.Displacement) || math.IsInf(s.Displacement, 0) {
			return &SequenceError{Index: i, T: s.T, Reason: "non-finite displacement"}
		}
		if i == 0 {
			continue
		}
		step := s.T - p[i-1].T
		if step <= 0 {
			return &SequenceError{Index: i, T: s.T,
				Reason: fmt.Sprintf("timestamp not increasing (previous t=%g)", p[i-1].T)}
		}
		if math.Abs(step-dt) > tol {
			return &SequenceError{Index: i, T: s.T,
				Reason: fmt.Sprintf("irregular spacing %g, expected %g", step, dt)}
		}
	}
	return nil
}

// Displacements returns the displacement series without timestamps.
func (p Profile) Displacements() []float64 {
	out := make([]float64, len(p))
	for i, s := range p {
		out[i] = s.Displacement
	}
	return out
}
