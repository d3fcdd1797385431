package sim

import (
	"fmt"

	"suspensim/internal/dynamo"
)

// StepRecord is one row of the simulation trace, immutable once appended.
type StepRecord struct {
	T             float64 // timestamp (s)
	SprungDisp    float64 // sprung mass displacement zs (m)
	SprungAccel   float64 // sprung mass acceleration (m/s²)
	FilteredAccel float64 // band-passed sprung acceleration (m/s²)
	Coefficient   float64 // damping coefficient applied this step (N·s/m)
	Force         float64 // damper force applied this step (N)
	Jerk          float64 // finite-difference jerk (m/s³), zero on the first step
}

// Config holds the per-run loop settings.
type Config struct {
	Dt         float64 // fixed time step (s)
	DelaySteps int     // actuator delay in steps, minimum 1
}

func DefaultConfig() Config {
	return Config{Dt: 0.005, DelaySteps: 4}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: time step %g must be positive", dynamo.ErrInvalidConfig, c.Dt)
	}
	if c.DelaySteps < 1 {
		return fmt.Errorf("%w: delay steps %d, commands take effect at the earliest one step later",
			dynamo.ErrInvalidConfig, c.DelaySteps)
	}
	return nil
}

// Result is the output of one run: the full trace plus any side metrics.
type Result struct {
	Records []StepRecord
	Metrics map[string]float64
}

// Observer receives each trace row as it is recorded.
type Observer interface {
	OnStep(rec StepRecord)
}

// delayLine models actuator latency: a command pushed now is applied
// len(buf) steps later. Seeded with the resting coefficient.
type delayLine struct {
	buf []float64
}

func newDelayLine(steps int, fill float64) *delayLine {
	buf := make([]float64, steps)
	for i := range buf {
		buf[i] = fill
	}
	return &delayLine{buf: buf}
}

// front is the coefficient taking effect this step.
func (d *delayLine) front() float64 { return d.buf[0] }

// advance consumes the front slot and enqueues the new command.
func (d *delayLine) advance(c float64) {
	copy(d.buf, d.buf[1:])
	d.buf[len(d.buf)-1] = c
}
