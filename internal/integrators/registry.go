package integrators

import (
	"fmt"

	"suspensim/internal/dynamo"
)

// ByName returns a fresh integrator for the given scheme name.
func ByName(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "heun":
		return NewHeun(), nil
	case "rk4":
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("%w: unknown integrator %q (euler, heun, rk4)",
			dynamo.ErrInvalidConfig, name)
	}
}
