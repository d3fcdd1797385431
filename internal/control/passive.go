package control

import (
	"fmt"

	"suspensim/internal/dynamo"
	"suspensim/internal/qcar"
)

// Passive is the fixed-coefficient baseline: the damper held at a constant
// setting inside its physical bounds.
type Passive struct {
	c float64
}

func NewPassive(c float64, p qcar.Params) (*Passive, error) {
	if c < p.CMin || c > p.CMax {
		return nil, fmt.Errorf("%w: passive coefficient %g outside [%g, %g]",
			dynamo.ErrInvalidConfig, c, p.CMin, p.CMax)
	}
	return &Passive{c: c}, nil
}

func (p *Passive) Command(x dynamo.State, _ float64, _ float64) Command {
	relVel := x[qcar.IxSprungVel] - x[qcar.IxUnsprungVel]
	return Command{Coefficient: p.c, Force: p.c * relVel}
}

func (p *Passive) Reset() {}
