// Package frequency describes the shape of a one-sided amplitude spectrum.
//
// Every descriptor is evaluated on an explicit frequency axis, so spectra of
// odd-length blocks and non-unit sample intervals need no conversion. The DC
// bin is ignored: flow spectra are computed after mean removal and a residual
// DC term says nothing about the fluctuation.
package frequency

import (
	"errors"
	"fmt"
	"math"
)

// RolloffFraction is the energy fraction used by [Describe] for Rolloff.
const RolloffFraction = 0.85

// Errors returned for malformed spectra.
var (
	ErrTooShort       = errors.New("frequency: spectrum needs a DC and at least one further bin")
	ErrLengthMismatch = errors.New("frequency: axis and amplitude lengths differ")
)

// Shape holds spectral shape descriptors in the units of the frequency axis.
type Shape struct {
	Bins int

	Peak          float64 // frequency of the strongest bin
	PeakAmplitude float64

	Energy float64 // sum of squared amplitudes

	Centroid  float64 // amplitude-weighted mean frequency
	Spread    float64 // amplitude-weighted std around Centroid
	Flatness  float64 // geometric over arithmetic mean, 0..1
	Rolloff   float64 // frequency below which RolloffFraction of the energy lies
	Bandwidth float64 // 3 dB width around Peak
}

// Describe computes every Shape field from freq and amplitude, both starting
// at DC.
func Describe(freq, amplitude []float64) (Shape, error) {
	if len(freq) != len(amplitude) {
		return Shape{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(freq), len(amplitude))
	}
	if len(amplitude) < 2 {
		return Shape{}, fmt.Errorf("%w: have %d", ErrTooShort, len(amplitude))
	}

	f, a := freq[1:], amplitude[1:]
	s := Shape{Bins: len(a)}

	var sum float64
	peak := 0
	for i, v := range a {
		sum += v
		s.Energy += v * v
		if v > a[peak] {
			peak = i
		}
	}
	s.Peak, s.PeakAmplitude = f[peak], a[peak]

	s.Centroid = centroid(f, a, sum)
	s.Spread = spread(f, a, s.Centroid, sum)
	s.Flatness = Flatness(amplitude)
	s.Rolloff = rolloff(f, a, RolloffFraction, s.Energy)
	s.Bandwidth = bandwidth(f, a, peak)
	return s, nil
}

func centroid(f, a []float64, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	var weighted float64
	for i, v := range a {
		weighted += f[i] * v
	}
	return weighted / sum
}

func spread(f, a []float64, cent, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	var weighted float64
	for i, v := range a {
		d := f[i] - cent
		weighted += d * d * v
	}
	return math.Sqrt(weighted / sum)
}

// Flatness returns the spectral flatness (Wiener entropy) of amplitude in
// 0..1, skipping the DC bin. A zero bin makes the geometric mean, and so the
// flatness, zero.
//
//	flatness = exp(mean(log a_i)) / mean(a_i)
func Flatness(amplitude []float64) float64 {
	if len(amplitude) < 2 {
		return 0
	}
	a := amplitude[1:]

	var sumLin, sumLog float64
	for _, v := range a {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}
	n := float64(len(a))
	return math.Exp(sumLog/n) / (sumLin / n)
}

// Rolloff returns the frequency below which fraction of the non-DC energy
// lies.
func Rolloff(freq, amplitude []float64, fraction float64) float64 {
	if len(amplitude) < 2 || len(freq) != len(amplitude) {
		return 0
	}
	f, a := freq[1:], amplitude[1:]
	var energy float64
	for _, v := range a {
		energy += v * v
	}
	return rolloff(f, a, fraction, energy)
}

func rolloff(f, a []float64, fraction, energy float64) float64 {
	if energy == 0 {
		return 0
	}
	threshold := fraction * energy
	var cum float64
	for i, v := range a {
		cum += v * v
		if cum >= threshold {
			return f[i]
		}
	}
	return f[len(f)-1]
}

// bandwidth locates the points left and right of peak where the amplitude
// falls to peak/sqrt(2), interpolating linearly between bins.
func bandwidth(f, a []float64, peak int) float64 {
	if a[peak] == 0 {
		return 0
	}
	threshold := a[peak] / math.Sqrt2

	lower := f[0]
	for i := peak; i >= 1; i-- {
		if a[i-1] <= threshold && a[i] > threshold {
			lower = crossing(f[i-1], f[i], a[i-1], a[i], threshold)
			break
		}
	}

	upper := f[len(f)-1]
	for i := peak; i < len(a)-1; i++ {
		if a[i+1] <= threshold && a[i] > threshold {
			upper = crossing(f[i], f[i+1], a[i], a[i+1], threshold)
			break
		}
	}

	if upper < lower {
		return 0
	}
	return upper - lower
}

func crossing(f0, f1, a0, a1, threshold float64) float64 {
	d := a1 - a0
	if d == 0 {
		return (f0 + f1) / 2
	}
	return f0 + (threshold-a0)/d*(f1-f0)
}
