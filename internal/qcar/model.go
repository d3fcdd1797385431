// Package qcar implements the 2-DOF quarter-car suspension model.
//
// State layout is [zs, vs, zu, vu]: sprung displacement/velocity followed by
// unsprung displacement/velocity, all relative to static equilibrium.
// Control layout is [c, r]: the applied damping coefficient and the road
// displacement under the tire.
package qcar

import (
	"fmt"

	"suspensim/internal/dynamo"
)

// State vector indices.
const (
	IxSprungPos = iota
	IxSprungVel
	IxUnsprungPos
	IxUnsprungVel

	StateDim = 4
)

// Model is the quarter-car dynamics. It implements dynamo.System.
type Model struct {
	p Params
}

func NewModel(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{p: p}, nil
}

func (m *Model) Params() Params  { return m.p }
func (m *Model) StateDim() int   { return StateDim }
func (m *Model) ControlDim() int { return 2 }

// Accelerations computes the sprung and unsprung accelerations for the
// current state under damping coefficient c and road displacement r.
// Accelerations are derived quantities, computed fresh every call; they
// are never part of the integrated state.
func (m *Model) Accelerations(x dynamo.State, c, r float64) (as, au float64) {
	fSpring := m.p.Ks * (x[IxSprungPos] - x[IxUnsprungPos])
	fDamper := c * (x[IxSprungVel] - x[IxUnsprungVel])
	fTire := m.p.Kt * (x[IxUnsprungPos] - r)

	as = -(fSpring + fDamper) / m.p.Ms
	au = (fSpring + fDamper - fTire) / m.p.Mu
	return as, au
}

func (m *Model) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	var c, r float64
	if len(u) > 0 {
		c = u[0]
	}
	if len(u) > 1 {
		r = u[1]
	}

	as, au := m.Accelerations(x, c, r)
	return dynamo.State{x[IxSprungVel], as, x[IxUnsprungVel], au}
}

// Energy returns the mechanical energy about equilibrium with the road at
// datum. Implements dynamo.Hamiltonian; useful as a drift diagnostic only,
// since the road input does work on the system.
func (m *Model) Energy(x dynamo.State) float64 {
	vs, vu := x[IxSprungVel], x[IxUnsprungVel]
	stretch := x[IxSprungPos] - x[IxUnsprungPos]

	ke := 0.5*m.p.Ms*vs*vs + 0.5*m.p.Mu*vu*vu
	pe := 0.5*m.p.Ks*stretch*stretch + 0.5*m.p.Kt*x[IxUnsprungPos]*x[IxUnsprungPos]
	return ke + pe
}

// GetParams implements dynamo.Configurable.
func (m *Model) GetParams() map[string]float64 {
	return map[string]float64{
		"ms":    m.p.Ms,
		"mu":    m.p.Mu,
		"ks":    m.p.Ks,
		"kt":    m.p.Kt,
		"c_min": m.p.CMin,
		"c_max": m.p.CMax,
	}
}

// SetParam implements dynamo.Configurable. The updated parameter set is
// re-validated as a whole.
func (m *Model) SetParam(name string, value float64) error {
	next := m.p
	switch name {
	case "ms":
		next.Ms = value
	case "mu":
		next.Mu = value
	case "ks":
		next.Ks = value
	case "kt":
		next.Kt = value
	case "c_min":
		next.CMin = value
	case "c_max":
		next.CMax = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	m.p = next
	return nil
}
