package metrics

import (
	"math"

	"suspensim/internal/dynamo"
	"suspensim/internal/qcar"
)

// ControlEffort reports the mean absolute damper force over the run.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, _ float64) {
	relVel := x[qcar.IxSprungVel] - x[qcar.IxUnsprungVel]
	c.sum += math.Abs(u[0] * relVel)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// SuspensionTravel reports the peak absolute suspension deflection, the
// figure that decides whether the damper hits its bump stops.
type SuspensionTravel struct {
	peak float64
}

func NewSuspensionTravel() *SuspensionTravel {
	return &SuspensionTravel{}
}

func (s *SuspensionTravel) Name() string { return "suspension_travel" }

func (s *SuspensionTravel) Observe(x dynamo.State, _ dynamo.Control, _ float64) {
	if d := math.Abs(x[qcar.IxSprungPos] - x[qcar.IxUnsprungPos]); d > s.peak {
		s.peak = d
	}
}

func (s *SuspensionTravel) Value() float64 { return s.peak }

func (s *SuspensionTravel) Reset() { s.peak = 0 }

// RoadHolding reports the RMS tire deflection: how much contact force
// varies while the controller chases comfort.
type RoadHolding struct {
	sumSq   float64
	samples int
}

func NewRoadHolding() *RoadHolding {
	return &RoadHolding{}
}

func (r *RoadHolding) Name() string { return "road_holding" }

func (r *RoadHolding) Observe(x dynamo.State, u dynamo.Control, _ float64) {
	d := x[qcar.IxUnsprungPos] - u[1]
	r.sumSq += d * d
	r.samples++
}

func (r *RoadHolding) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *RoadHolding) Reset() {
	r.sumSq = 0
	r.samples = 0
}
