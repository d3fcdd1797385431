package integrators

import (
	"math"
	"testing"

	"suspensim/internal/dynamo"
)

// harmonic oscillator with known solution x(t) = cos(t)
type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int   { return 2 }
func (s *simpleDynamics) ControlDim() int { return 0 }

func integrate(integ dynamo.Integrator, steps int, dt float64) dynamo.State {
	dyn := &simpleDynamics{}
	x := dynamo.State{1.0, 0.0}
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	x := integrate(NewRK4(), 100, 0.01)

	expectedX := math.Cos(1.0)
	expectedV := -math.Sin(1.0)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestHeunAccuracy(t *testing.T) {
	x := integrate(NewHeun(), 100, 0.01)

	if math.Abs(x[0]-math.Cos(1.0)) > 1e-3 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], math.Cos(1.0))
	}
}

func TestEulerRoughAccuracy(t *testing.T) {
	x := integrate(NewEuler(), 100, 0.01)

	// first order: loose tolerance
	if math.Abs(x[0]-math.Cos(1.0)) > 0.02 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], math.Cos(1.0))
	}
}

func TestHeunBeatsEuler(t *testing.T) {
	eulerErr := math.Abs(integrate(NewEuler(), 1000, 0.01)[0] - math.Cos(10.0))
	heunErr := math.Abs(integrate(NewHeun(), 1000, 0.01)[0] - math.Cos(10.0))

	if heunErr >= eulerErr {
		t.Errorf("heun error %g should beat euler error %g", heunErr, eulerErr)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"euler", "heun", "rk4"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := ByName("verlet"); err == nil {
		t.Error("expected unknown integrator to fail")
	}
}
