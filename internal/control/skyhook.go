package control

import (
	"fmt"
	"math"

	"suspensim/internal/dynamo"
	"suspensim/internal/qcar"
	"suspensim/internal/signal"
)

// Controller gains found by tuning against the reference road set.
const (
	DefaultGainLF     = 3600.0 // low-frequency skyhook (body displacement)
	DefaultGainHF     = 4000.0 // high-frequency skyhook (jerk suppression)
	DefaultGainGround = 250.0  // groundhook (wheel control)
	DefaultGainAccel  = 120.0  // acceleration feedback (body force shaping)
)

// Default filter corner frequencies (Hz).
const (
	DefaultBodyCutoffHz  = 1.6
	DefaultWheelCutoffHz = 5.2
)

// Gains are the frequency-selective skyhook gains. Each term contributes
// additional damping on top of CMin.
type Gains struct {
	SkyhookLF float64
	SkyhookHF float64
	Ground    float64
	Accel     float64
}

func DefaultGains() Gains {
	return Gains{
		SkyhookLF: DefaultGainLF,
		SkyhookHF: DefaultGainHF,
		Ground:    DefaultGainGround,
		Accel:     DefaultGainAccel,
	}
}

func (g Gains) Validate() error {
	for name, v := range map[string]float64{
		"skyhook_lf": g.SkyhookLF,
		"skyhook_hf": g.SkyhookHF,
		"ground":     g.Ground,
		"accel":      g.Accel,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: gain %s = %g", dynamo.ErrInvalidConfig, name, v)
		}
	}
	return nil
}

// Skyhook is the frequency-selective skyhook controller.
//
// Body velocity is split into a low band, which drives the classical
// skyhook term only while the damper can do dissipative work
// (vsLF·relVel > 0), and a high band damped unconditionally to suppress
// jerk. A groundhook term on the low-passed wheel velocity holds the tire,
// and the band-passed sprung acceleration adds force shaping. The target
// coefficient is soft-clipped into [CMin, CMax], so passivity holds by
// construction.
type Skyhook struct {
	p     qcar.Params
	gains Gains
	body  *signal.BandSplit
	wheel *signal.LowPass
}

func NewSkyhook(p qcar.Params, g Gains, bodyCutoffHz, wheelCutoffHz, dt float64) (*Skyhook, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	body, err := signal.NewBandSplit(bodyCutoffHz, dt)
	if err != nil {
		return nil, fmt.Errorf("body velocity filter: %w", err)
	}
	wheel, err := signal.NewLowPass(wheelCutoffHz, dt)
	if err != nil {
		return nil, fmt.Errorf("wheel velocity filter: %w", err)
	}
	return &Skyhook{p: p, gains: g, body: body, wheel: wheel}, nil
}

func (s *Skyhook) Command(x dynamo.State, filteredAccel float64, _ float64) Command {
	vs := x[qcar.IxSprungVel]
	vu := x[qcar.IxUnsprungVel]
	relVel := vs - vu

	vsLF, vsHF := s.body.Apply(vs)
	vuLF := s.wheel.Apply(vu)

	c := s.p.CMin

	// Low-frequency skyhook: only when the damper can dissipate work
	// against the absolute body motion.
	if vsLF*relVel > 0 {
		c += s.gains.SkyhookLF * math.Abs(vsLF)
	}

	c += s.gains.SkyhookHF * math.Abs(vsHF)
	c += s.gains.Ground * math.Abs(vuLF)
	c += s.gains.Accel * math.Abs(filteredAccel)

	c = SoftClip(c, s.p.CMin, s.p.CMax)

	return Command{Coefficient: c, Force: c * relVel}
}

func (s *Skyhook) Reset() {
	s.body.Reset()
	s.wheel.Reset()
}

// GetParams implements dynamo.Configurable for gain tuning.
func (s *Skyhook) GetParams() map[string]float64 {
	return map[string]float64{
		"skyhook_lf": s.gains.SkyhookLF,
		"skyhook_hf": s.gains.SkyhookHF,
		"ground":     s.gains.Ground,
		"accel":      s.gains.Accel,
	}
}

// SetParam implements dynamo.Configurable.
func (s *Skyhook) SetParam(name string, value float64) error {
	next := s.gains
	switch name {
	case "skyhook_lf":
		next.SkyhookLF = value
	case "skyhook_hf":
		next.SkyhookHF = value
	case "ground":
		next.Ground = value
	case "accel":
		next.Accel = value
	default:
		return fmt.Errorf("%w: unknown gain %q", dynamo.ErrInvalidConfig, name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.gains = next
	return nil
}
