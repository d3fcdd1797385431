// Package sim drives the fixed-step quarter-car simulation loop.
//
// A run is a strict sequential fold over the road profile: each step's
// input depends on the previous step's state, so there is no intra-run
// parallelism. Identical parameters and road input always produce a
// bit-for-bit identical trace.
package sim

import (
	"context"
	"fmt"
	"math"

	"suspensim/internal/control"
	"suspensim/internal/dynamo"
	"suspensim/internal/qcar"
	"suspensim/internal/road"
	"suspensim/internal/signal"
)

type Simulator struct {
	model     *qcar.Model
	integ     dynamo.Integrator
	ctrl      control.Controller
	filter    *signal.BandPass
	metrics   []dynamo.Metric
	observers []Observer
}

// New assembles a simulator. The acceleration band-pass filter is owned by
// the loop: the controller only ever sees the filtered signal.
func New(model *qcar.Model, integ dynamo.Integrator, ctrl control.Controller, filter *signal.BandPass) *Simulator {
	return &Simulator{
		model:  model,
		integ:  integ,
		ctrl:   ctrl,
		filter: filter,
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)    { s.observers = append(s.observers, o) }

// Run simulates the full road profile from initial state x0 (nil means at
// rest at equilibrium). On any error no partial result is returned.
//
// Per-step order: current accelerations under the delayed coefficient →
// band-pass filter → controller command → invariant check → one fixed-step
// integration → trace record. Jerk is the finite difference of consecutive
// accelerations, carried as an explicit field between steps.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, profile road.Profile, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(profile) == 0 {
		return nil, fmt.Errorf("%w: road profile has no samples", dynamo.ErrEmptyTrace)
	}
	if err := profile.Validate(cfg.Dt); err != nil {
		return nil, err
	}

	if x0 == nil {
		x0 = make(dynamo.State, s.model.StateDim())
	}
	if len(x0) != s.model.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d elements, model needs %d",
			dynamo.ErrInvalidConfig, len(x0), s.model.StateDim())
	}

	s.ctrl.Reset()
	s.filter.Reset()
	for _, m := range s.metrics {
		m.Reset()
	}

	params := s.model.Params()
	delay := newDelayLine(cfg.DelaySteps, params.CMin)

	x := x0.Clone()
	prevAccel := 0.0

	result := &Result{
		Records: make([]StepRecord, 0, len(profile)),
		Metrics: make(map[string]float64),
	}

	for i, sample := range profile {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		cAct := delay.front()
		as, _ := s.model.Accelerations(x, cAct, sample.Displacement)
		fa := s.filter.Apply(as)
		relVel := x[qcar.IxSprungVel] - x[qcar.IxUnsprungVel]

		cmd := s.ctrl.Command(x, fa, sample.T)
		// divergence overflows the force products before the state itself
		// goes non-finite
		if math.IsNaN(as) || math.IsInf(as, 0) || math.IsNaN(cmd.Force) || math.IsInf(cmd.Force, 0) {
			return nil, &dynamo.SimulationError{Step: i, Time: sample.T, Wrapped: dynamo.ErrUnstable}
		}
		if err := control.ValidateCommand(cmd, relVel, params); err != nil {
			return nil, &dynamo.SimulationError{Step: i, Time: sample.T, Wrapped: err}
		}
		delay.advance(cmd.Coefficient)

		jerk := 0.0
		if i > 0 {
			jerk = (as - prevAccel) / cfg.Dt
		}

		rec := StepRecord{
			T:             sample.T,
			SprungDisp:    x[qcar.IxSprungPos],
			SprungAccel:   as,
			FilteredAccel: fa,
			Coefficient:   cAct,
			Force:         cAct * relVel,
			Jerk:          jerk,
		}

		u := dynamo.Control{cAct, sample.Displacement}
		for _, m := range s.metrics {
			m.Observe(x, u, sample.T)
		}
		for _, obs := range s.observers {
			obs.OnStep(rec)
		}
		result.Records = append(result.Records, rec)

		x = s.integ.Step(s.model, x, u, sample.T, cfg.Dt)
		if !x.IsValid() {
			return nil, &dynamo.SimulationError{Step: i, Time: sample.T, Wrapped: dynamo.ErrUnstable}
		}

		prevAccel = as
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
