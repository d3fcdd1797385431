// Package analysis provides frequency-domain diagnostics for traces.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform. Input length must be a
// power of two; PowerSpectrum pads for callers with arbitrary lengths.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude spectrum of data after Hann
// windowing, zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}

	padded := make([]float64, n)
	for i, v := range data {
		// Hann window keeps the step transients from smearing the band.
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(data)-1)))
		if len(data) == 1 {
			w = 1
		}
		padded[i] = v * w
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Frequencies returns the frequency axis (Hz) matching PowerSpectrum
// output for a trace of the given padded length and time step.
func Frequencies(n int, dt float64) []float64 {
	padded := 1
	for padded < n {
		padded *= 2
	}

	out := make([]float64, padded/2)
	for i := range out {
		out[i] = float64(i) / (float64(padded) * dt)
	}
	return out
}
