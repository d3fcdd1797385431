// Package signal provides the recursive filter stages used by the
// frequency-selective controller: a first-order low-pass, a complementary
// band splitter, and a band-pass cascade for acceleration feedback.
//
// All filters carry their memory as explicit struct state, owned by exactly
// one simulation run and reset at run start. Coefficients are derived from
// a cutoff frequency in Hz and the fixed simulation step; construction fails
// if the cutoff violates the Nyquist bound for that step.
package signal

import (
	"fmt"
	"math"

	"suspensim/internal/dynamo"
)

// LowPass is a first-order recursive low-pass stage,
//
//	y[n] = y[n-1] + alpha·(x[n] - y[n-1])
//
// with alpha = 1 - exp(-2π·fc·dt). The discrete pole exp(-2π·fc·dt) lies
// strictly inside the unit circle for any accepted cutoff.
type LowPass struct {
	alpha float64
	y     float64
}

func NewLowPass(cutoffHz, dt float64) (*LowPass, error) {
	if err := checkCutoff(cutoffHz, dt); err != nil {
		return nil, err
	}
	return &LowPass{alpha: 1 - math.Exp(-2*math.Pi*cutoffHz*dt)}, nil
}

func (f *LowPass) Apply(x float64) float64 {
	f.y += f.alpha * (x - f.y)
	return f.y
}

func (f *LowPass) Reset() { f.y = 0 }

// Alpha exposes the smoothing coefficient for tests.
func (f *LowPass) Alpha() float64 { return f.alpha }

// BandSplit separates a signal into its low-frequency component and the
// complementary high-frequency residual: lf + hf == x at every sample.
type BandSplit struct {
	lp *LowPass
}

func NewBandSplit(cutoffHz, dt float64) (*BandSplit, error) {
	lp, err := NewLowPass(cutoffHz, dt)
	if err != nil {
		return nil, err
	}
	return &BandSplit{lp: lp}, nil
}

func (b *BandSplit) Apply(x float64) (lf, hf float64) {
	lf = b.lp.Apply(x)
	return lf, x - lf
}

func (b *BandSplit) Reset() { b.lp.Reset() }

// BandPass isolates the band (lowHz, highHz) as a high-pass residual
// cascaded into a low-pass stage.
type BandPass struct {
	hp *LowPass // tracks the trend below lowHz; residual is the high-pass
	lp *LowPass
}

func NewBandPass(lowHz, highHz, dt float64) (*BandPass, error) {
	if lowHz >= highHz {
		return nil, fmt.Errorf("%w: band edges inverted (%g Hz >= %g Hz)",
			dynamo.ErrInvalidConfig, lowHz, highHz)
	}
	hp, err := NewLowPass(lowHz, dt)
	if err != nil {
		return nil, err
	}
	lp, err := NewLowPass(highHz, dt)
	if err != nil {
		return nil, err
	}
	return &BandPass{hp: hp, lp: lp}, nil
}

func (b *BandPass) Apply(x float64) float64 {
	hf := x - b.hp.Apply(x)
	return b.lp.Apply(hf)
}

func (b *BandPass) Reset() {
	b.hp.Reset()
	b.lp.Reset()
}

func checkCutoff(cutoffHz, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: time step %g must be positive", dynamo.ErrInvalidConfig, dt)
	}
	if cutoffHz <= 0 {
		return fmt.Errorf("%w: cutoff %g Hz must be positive", dynamo.ErrInvalidConfig, cutoffHz)
	}
	if nyquist := 0.5 / dt; cutoffHz >= nyquist {
		return fmt.Errorf("%w: cutoff %g Hz at or above Nyquist limit %g Hz",
			dynamo.ErrInvalidConfig, cutoffHz, nyquist)
	}
	return nil
}
