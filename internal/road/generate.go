package road

import "math"

// FromSeries wraps a raw displacement series onto the dt time grid.
func FromSeries(values []float64, dt float64) Profile {
	p := make(Profile, len(values))
	for i, v := range values {
		p[i] = Sample{T: float64(i) * dt, Displacement: v}
	}
	return p
}

// Flat is a constant-displacement road.
func Flat(n int, dt, level float64) Profile {
	p := make(Profile, n)
	for i := range p {
		p[i] = Sample{T: float64(i) * dt, Displacement: level}
	}
	return p
}

// StepInput rises from zero to height at time at and holds.
func StepInput(n int, dt, height, at float64) Profile {
	p := make(Profile, n)
	for i := range p {
		t := float64(i) * dt
		d := 0.0
		if t >= at {
			d = height
		}
		p[i] = Sample{T: t, Displacement: d}
	}
	return p
}

// Sine is a sinusoidal road of the given amplitude and frequency.
func Sine(n int, dt, amplitude, freqHz float64) Profile {
	p := make(Profile, n)
	for i := range p {
		t := float64(i) * dt
		p[i] = Sample{T: t, Displacement: amplitude * math.Sin(2*math.Pi*freqHz*t)}
	}
	return p
}

// Bump is a half-sine speed bump of the given height, starting at time at
// and lasting duration seconds; flat elsewhere.
func Bump(n int, dt, height, at, duration float64) Profile {
	p := make(Profile, n)
	for i := range p {
		t := float64(i) * dt
		d := 0.0
		if t >= at && t < at+duration {
			d = height * math.Sin(math.Pi*(t-at)/duration)
		}
		p[i] = Sample{T: t, Displacement: d}
	}
	return p
}
