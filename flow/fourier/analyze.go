package fourier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-flow/dsp/spectrum"
	"github.com/cwbudde/algo-flow/flow/series"
)

// ErrInvalidConfig is returned for non-positive or oversized partition and
// harmonic counts.
var ErrInvalidConfig = errors.New("fourier: invalid configuration")

// Config selects the partition and harmonic counts.
type Config struct {
	Intervals int // number of partitions P
	Harmonics int // number of harmonics H per partition
}

// Validate checks cfg against a series of n samples. Every partition needs
// at least two samples so that its time span is defined.
func (c Config) Validate(n int) error {
	if n == 0 {
		return series.ErrEmpty
	}
	if c.Intervals <= 0 || c.Intervals > n {
		return fmt.Errorf("%w: intervals=%d for %d samples", ErrInvalidConfig, c.Intervals, n)
	}
	if c.Harmonics <= 0 || c.Harmonics > n {
		return fmt.Errorf("%w: harmonics=%d for %d samples", ErrInvalidConfig, c.Harmonics, n)
	}
	if n/c.Intervals < 2 {
		return fmt.Errorf("%w: %d samples cannot fill %d partitions of 2", series.ErrTooShort, n, c.Intervals)
	}
	return nil
}

// Matrix is a harmonic-major view of coefficients: row k holds harmonic k of
// every partition.
type Matrix [][]float64

// Rows returns the number of harmonics.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of partitions.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// RowMeans returns the mean of each row.
func (m Matrix) RowMeans() []float64 {
	out := make([]float64, len(m))
	for k, row := range m {
		out[k] = stat.Mean(row, nil)
	}
	return out
}

func transpose(coeffs []Coefficients, pick func(Coefficients) []float64) Matrix {
	h := coeffs[0].Len()
	m := make(Matrix, h)
	for k := range m {
		m[k] = make([]float64, len(coeffs))
		for p, c := range coeffs {
			m[k][p] = pick(c)[k]
		}
	}
	return m
}

// Result holds one partitioned harmonic analysis. Its slices are shared
// with the caller and must be treated as read-only.
type Result struct {
	cfg     Config
	parts   []*series.Series
	windows []window
	coeffs  []Coefficients
	cosT    Matrix
	sinT    Matrix
	approx  *series.Series

	pooledStd float64
	meanLevel float64

	meanCoeffs *Coefficients
	meanApprox *series.Series
}

// Analyze splits s into cfg.Intervals partitions, estimates cfg.Harmonics
// coefficient pairs for each, and reconstructs the approximated series.
func Analyze(s *series.Series, cfg Config) (*Result, error) {
	if err := cfg.Validate(s.Len()); err != nil {
		return nil, err
	}

	parts, err := series.Split(s, cfg.Intervals)
	if err != nil {
		return nil, err
	}

	r := &Result{
		cfg:     cfg,
		parts:   parts,
		windows: make([]window, len(parts)),
		coeffs:  make([]Coefficients, len(parts)),
	}

	approxParts := make([]*series.Series, len(parts))
	for p, part := range parts {
		w, err := frameOf(part)
		if err != nil {
			return nil, fmt.Errorf("fourier: partition %d: %w", p, err)
		}
		r.windows[p] = w
		r.coeffs[p] = estimate(part, w, cfg.Harmonics)
		approxParts[p] = reconstruct(part, w, r.coeffs[p])
	}

	r.approx = series.Concat(approxParts)
	r.approx.Name = s.Name
	r.cosT = transpose(r.coeffs, func(c Coefficients) []float64 { return c.Cos })
	r.sinT = transpose(r.coeffs, func(c Coefficients) []float64 { return c.Sin })

	// Half of the between-partition variance of each cos and sin row. The
	// sum is deliberately not divided by the partition count.
	var variance float64
	for k := range r.cosT {
		variance += 0.5*stat.PopVariance(r.cosT[k], nil) + 0.5*stat.PopVariance(r.sinT[k], nil)
	}
	r.pooledStd = math.Sqrt(variance)
	r.meanLevel = stat.Mean(r.cosT[0], nil)

	return r, nil
}

// Config returns the configuration the result was computed with.
func (r *Result) Config() Config { return r.cfg }

// Partitions returns the contiguous partitions of the input series.
func (r *Result) Partitions() []*series.Series { return r.parts }

// Coefficients returns the per-partition spectra (partition-major).
func (r *Result) Coefficients() []Coefficients { return r.coeffs }

// Transposed returns the harmonic-major cos and sin matrices (H x P).
func (r *Result) Transposed() (cos, sin Matrix) { return r.cosT, r.sinT }

// Approximate returns the concatenated per-partition reconstruction.
func (r *Result) Approximate() *series.Series { return r.approx }

// PooledStd returns the spectral variability between partitions.
func (r *Result) PooledStd() float64 { return r.pooledStd }

// MeanLevel returns the mean over partitions of the cos DC term.
func (r *Result) MeanLevel() float64 { return r.meanLevel }

// MeanCoefficients returns every harmonic averaged across partitions.
func (r *Result) MeanCoefficients() Coefficients {
	if r.meanCoeffs == nil {
		r.meanCoeffs = &Coefficients{
			Cos: r.cosT.RowMeans(),
			Sin: r.sinT.RowMeans(),
		}
	}
	return *r.meanCoeffs
}

// MeanApproximate reconstructs every partition from the shared
// MeanCoefficients, each evaluated on its own time frame.
func (r *Result) MeanApproximate() *series.Series {
	if r.meanApprox == nil {
		mean := r.MeanCoefficients()
		out := make([]*series.Series, len(r.parts))
		for p, part := range r.parts {
			out[p] = reconstruct(part, r.windows[p], mean)
		}
		r.meanApprox = series.Concat(out)
	}
	return r.meanApprox
}

// Amplitudes returns, for every harmonic, the amplitude sqrt(ck² + sk²)
// averaged across partitions.
func (r *Result) Amplitudes() []float64 {
	h := r.cfg.Harmonics
	out := make([]float64, h)
	mag := make([]float64, h)
	for _, c := range r.coeffs {
		spectrum.MagnitudeFromParts(mag, c.Cos, c.Sin)
		for k, v := range mag {
			out[k] += v
		}
	}
	n := float64(len(r.coeffs))
	for k := range out {
		out[k] /= n
	}
	return out
}
