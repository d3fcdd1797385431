package qcar

import (
	"fmt"

	"suspensim/internal/dynamo"
)

// Default parameter set for a mid-size sedan corner.
const (
	DefaultMs   = 290.0    // sprung mass (kg)
	DefaultMu   = 59.0     // unsprung mass (kg)
	DefaultKs   = 16000.0  // suspension spring stiffness (N/m)
	DefaultKt   = 190000.0 // tire stiffness (N/m)
	DefaultCMin = 800.0    // damper lower bound (N·s/m)
	DefaultCMax = 3500.0   // damper upper bound (N·s/m)
)

// Params holds the physical parameters of the quarter-car corner.
// Displacements are measured relative to static equilibrium.
type Params struct {
	Ms   float64 // sprung mass (kg)
	Mu   float64 // unsprung mass (kg)
	Ks   float64 // suspension spring stiffness (N/m)
	Kt   float64 // tire stiffness (N/m)
	CMin float64 // minimum damping coefficient (N·s/m)
	CMax float64 // maximum damping coefficient (N·s/m)
}

func DefaultParams() Params {
	return Params{
		Ms:   DefaultMs,
		Mu:   DefaultMu,
		Ks:   DefaultKs,
		Kt:   DefaultKt,
		CMin: DefaultCMin,
		CMax: DefaultCMax,
	}
}

// Validate rejects non-physical parameters. Values are never clamped.
func (p Params) Validate() error {
	if p.Ms <= 0 {
		return fmt.Errorf("%w: sprung mass %g must be positive", dynamo.ErrInvalidConfig, p.Ms)
	}
	if p.Mu <= 0 {
		return fmt.Errorf("%w: unsprung mass %g must be positive", dynamo.ErrInvalidConfig, p.Mu)
	}
	if p.Ks <= 0 {
		return fmt.Errorf("%w: spring stiffness %g must be positive", dynamo.ErrInvalidConfig, p.Ks)
	}
	if p.Kt <= 0 {
		return fmt.Errorf("%w: tire stiffness %g must be positive", dynamo.ErrInvalidConfig, p.Kt)
	}
	if p.CMin < 0 {
		return fmt.Errorf("%w: damping lower bound %g must be non-negative", dynamo.ErrInvalidConfig, p.CMin)
	}
	if p.CMax < p.CMin {
		return fmt.Errorf("%w: damping bounds inverted (%g > %g)", dynamo.ErrInvalidConfig, p.CMin, p.CMax)
	}
	return nil
}
