// Package metrics scores simulation traces.
//
// The headline comfort score is a weighted sum of body displacement and
// jerk statistics accumulated over the full trace. Side metrics observe the
// raw state/control stream and report alongside the score.
package metrics

import (
	"fmt"
	"math"

	"suspensim/internal/dynamo"
	"suspensim/internal/sim"
)

// Weights of the comfort cost terms. Exposed configuration, not a hidden
// constant; the defaults reproduce the reference leaderboard formula.
type Weights struct {
	RMSDisp  float64
	PeakDisp float64
	RMSJerk  float64
	PeakJerk float64
}

func DefaultWeights() Weights {
	return Weights{RMSDisp: 0.5, PeakDisp: 1.0, RMSJerk: 0.5, PeakJerk: 1.0}
}

// Score is the final cost: total plus its named components.
type Score struct {
	Total      float64
	Components map[string]float64
}

// Comfort accumulates per-step cost contributions into the final score.
// Displacement is measured relative to the first recorded sample.
type Comfort struct {
	w Weights

	n         int
	ref       float64
	sumSqDisp float64
	sumSqJerk float64
	peakDisp  float64
	peakJerk  float64
}

func NewComfort(w Weights) *Comfort {
	return &Comfort{w: w}
}

// Accumulate folds one trace row into the running sums. Call once per step.
func (c *Comfort) Accumulate(rec sim.StepRecord) {
	if c.n == 0 {
		c.ref = rec.SprungDisp
	}
	c.n++

	d := rec.SprungDisp - c.ref
	c.sumSqDisp += d * d
	if ad := math.Abs(d); ad > c.peakDisp {
		c.peakDisp = ad
	}

	c.sumSqJerk += rec.Jerk * rec.Jerk
	if aj := math.Abs(rec.Jerk); aj > c.peakJerk {
		c.peakJerk = aj
	}
}

// Finalize computes the score. Fails if no steps were accumulated.
func (c *Comfort) Finalize() (Score, error) {
	if c.n == 0 {
		return Score{}, fmt.Errorf("%w: no steps accumulated", dynamo.ErrEmptyTrace)
	}

	rmsDisp := math.Sqrt(c.sumSqDisp / float64(c.n))
	rmsJerk := math.Sqrt(c.sumSqJerk / float64(c.n))

	total := c.w.RMSDisp*rmsDisp +
		c.w.PeakDisp*c.peakDisp +
		c.w.RMSJerk*rmsJerk +
		c.w.PeakJerk*c.peakJerk

	return Score{
		Total: total,
		Components: map[string]float64{
			"rms_zs":   rmsDisp,
			"max_zs":   c.peakDisp,
			"rms_jerk": rmsJerk,
			"max_jerk": c.peakJerk,
		},
	}, nil
}

func (c *Comfort) Reset() {
	*c = Comfort{w: c.w}
}

// ScoreTrace scores a complete trace in one call.
func ScoreTrace(records []sim.StepRecord, w Weights) (Score, error) {
	agg := NewComfort(w)
	for _, rec := range records {
		agg.Accumulate(rec)
	}
	return agg.Finalize()
}
