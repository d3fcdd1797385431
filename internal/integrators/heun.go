package integrators

import "suspensim/internal/dynamo"

// Heun is the explicit trapezoidal scheme: an Euler predictor followed by
// averaging the derivative at both ends of the step. Second order,
// self-starting, and the default for suspension runs.
type Heun struct {
	scratch dynamo.State
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	n := len(x)
	if len(h.scratch) != n {
		h.scratch = make(dynamo.State, n)
	}

	k1 := dyn.Derive(x, u, t)
	for i := 0; i < n; i++ {
		h.scratch[i] = x[i] + dt*k1[i]
	}
	k2 := dyn.Derive(h.scratch, u, t+dt)

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + 0.5*dt*(k1[i]+k2[i])
	}
	return result
}
