// Package control implements the semi-active damper control laws.
//
// A semi-active damper can only dissipate energy: the force it exerts is
// always c·(vs-vu) with c inside the physical bounds [CMin, CMax]. The
// controllers here choose c; they can never command an active force.
package control

import (
	"fmt"
	"math"

	"suspensim/internal/dynamo"
	"suspensim/internal/qcar"
)

// Command is the per-step controller output. It is derived each step and
// not retained beyond it except in the recorded trace.
type Command struct {
	Coefficient float64 // commanded damping coefficient (N·s/m)
	Force       float64 // resulting damper force c·(vs-vu) (N)
}

// Controller computes a damping command from the current state and the
// band-pass filtered sprung acceleration. Implementations are stateful
// across steps of one run and must be Reset between runs.
type Controller interface {
	Command(x dynamo.State, filteredAccel float64, t float64) Command
	Reset()
}

// relative tolerance on the clamp check, to absorb rounding in c·relVel
const clampTol = 1e-9

// ValidateCommand checks the semi-active passivity constraint: the command
// coefficient must lie in [CMin, CMax] and the force must equal that
// coefficient times the relative velocity, hence oppose it. A violation is
// a controller bug, reported as dynamo.ErrInvariantViolation.
func ValidateCommand(cmd Command, relVel float64, p qcar.Params) error {
	tol := clampTol * math.Max(1, p.CMax)

	if cmd.Coefficient < p.CMin-tol || cmd.Coefficient > p.CMax+tol {
		return fmt.Errorf("%w: coefficient %g outside [%g, %g]",
			dynamo.ErrInvariantViolation, cmd.Coefficient, p.CMin, p.CMax)
	}
	if relVel == 0 {
		if cmd.Force != 0 {
			return fmt.Errorf("%w: force %g with zero relative velocity",
				dynamo.ErrInvariantViolation, cmd.Force)
		}
		return nil
	}
	if cmd.Force*relVel < 0 {
		return fmt.Errorf("%w: force %g injects energy against relative velocity %g",
			dynamo.ErrInvariantViolation, cmd.Force, relVel)
	}
	ratio := cmd.Force / relVel
	if ratio < p.CMin-tol || ratio > p.CMax+tol {
		return fmt.Errorf("%w: effective coefficient %g outside [%g, %g] (force %g, relative velocity %g)",
			dynamo.ErrInvariantViolation, ratio, p.CMin, p.CMax, cmd.Force, relVel)
	}
	return nil
}

// SoftClip saturates x into (lo, hi) with a tanh knee instead of a hard
// corner, so the commanded coefficient stays differentiable in the gains.
func SoftClip(x, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	mid := 0.5 * (lo + hi)
	span := 0.5 * (hi - lo)
	return mid + span*math.Tanh((x-mid)/span)
}
