package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-flow/dsp/window"
)

// Errors returned by Periodogram.
var (
	ErrTooShort        = errors.New("spectrum: periodogram needs at least 2 samples")
	ErrInvalidInterval = errors.New("spectrum: sample interval must be positive")
)

// PeriodogramOption configures Periodogram.
type PeriodogramOption func(*periodogramConfig)

type periodogramConfig struct {
	window     window.Type
	keepMean   bool
	windowOpts []window.Option
}

// WithWindow selects the taper applied before the transform. Default Hann.
func WithWindow(t window.Type, opts ...window.Option) PeriodogramOption {
	return func(c *periodogramConfig) {
		c.window = t
		c.windowOpts = opts
	}
}

// WithMean keeps the sample mean instead of removing it before windowing.
func WithMean() PeriodogramOption {
	return func(c *periodogramConfig) {
		c.keepMean = true
	}
}

// PeriodogramResult is a single-sided spectrum estimate.
type PeriodogramResult struct {
	// Frequency in cycles per time unit of the sample interval.
	Frequency []float64
	// Amplitude is corrected for the window's coherent gain, so a sinusoid
	// centered on a bin reports its peak amplitude.
	Amplitude []float64
	// Density is the power spectral density per frequency unit.
	Density []float64
	Window  window.Type
}

// Periodogram estimates the spectrum of uniformly sampled values taken every
// interval time units. The mean is removed and a periodic window applied
// before the FFT.
func Periodogram(samples []float64, interval float64, opts ...PeriodogramOption) (*PeriodogramResult, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrTooShort, n)
	}
	if !(interval > 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidInterval, interval)
	}

	cfg := periodogramConfig{window: window.TypeHann}
	for _, opt := range opts {
		opt(&cfg)
	}

	x := make([]float64, n)
	copy(x, samples)
	if !cfg.keepMean {
		var mean float64
		for _, v := range x {
			mean += v
		}
		mean /= float64(n)
		for i := range x {
			x[i] -= mean
		}
	}

	w := window.Generate(cfg.window, n, append([]window.Option{window.WithPeriodic()}, cfg.windowOpts...)...)
	xw, err := window.ApplyCoefficients(x, w)
	if err != nil {
		return nil, err
	}
	var sumW, sumW2 float64
	for _, c := range w {
		sumW += c
		sumW2 += c * c
	}
	if sumW == 0 {
		return nil, window.ErrZeroCoherentGain
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}
	in := make([]complex128, n)
	for i, v := range xw {
		in[i] = complex(v, 0)
	}
	spec := make([]complex128, n)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	bins := n/2 + 1
	res := &PeriodogramResult{
		Frequency: make([]float64, bins),
		Amplitude: Magnitude(spec[:bins]),
		Density:   Power(spec[:bins]),
		Window:    cfg.window,
	}

	fs := 1 / interval
	for k := range bins {
		res.Frequency[k] = float64(k) * fs / float64(n)

		// DC and, for even n, Nyquist have no mirrored negative bin.
		single := k == 0 || (n%2 == 0 && k == bins-1)
		ampScale, psdScale := 2/sumW, 2/(fs*sumW2)
		if single {
			ampScale, psdScale = 1/sumW, 1/(fs*sumW2)
		}
		res.Amplitude[k] *= ampScale
		res.Density[k] *= psdScale
	}
	return res, nil
}

// MinDB is the floor applied by [PeriodogramResult.DensityDB].
const MinDB = -300.0

// DensityDB returns the power spectral density in decibels, floored at MinDB
// so that empty bins (the DC bin after mean removal) stay finite.
func (p *PeriodogramResult) DensityDB() []float64 {
	db := PowerToDB(p.Density)
	for k, v := range db {
		if v < MinDB {
			db[k] = MinDB
		}
	}
	return db
}

// Peak returns the frequency and amplitude of the strongest non-DC bin.
func (p *PeriodogramResult) Peak() (frequency, amplitude float64) {
	best := -1
	for k := 1; k < len(p.Amplitude); k++ {
		if best < 0 || p.Amplitude[k] > p.Amplitude[best] {
			best = k
		}
	}
	if best < 0 {
		return 0, 0
	}
	return p.Frequency[best], p.Amplitude[best]
}
