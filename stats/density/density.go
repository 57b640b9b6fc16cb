// Package density estimates the probability density of a value collection
// by histogram and derives its cumulative probability.
//
// Bins span [min×0.999, max×1.001] so that both extremes fall strictly
// inside the range. For negative extremes the padding is applied on the
// magnitude, i.e. the range always grows outward.
//
// Reference densities for normal and uniform distributions are provided to
// overlay on histogram output.
package density

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Errors returned by the density estimators.
var (
	ErrEmpty              = errors.New("density: empty input")
	ErrInvalidIntervals   = errors.New("density: interval count must be positive")
	ErrDegenerate         = errors.New("density: value range is degenerate")
	ErrInvalidProbability = errors.New("density: probability must be in (0, 1]")
)

const padding = 0.001

// Result is a normalized histogram.
type Result struct {
	// Edges has len(Density)+1 entries.
	Edges   []float64
	Centers []float64
	Density []float64
	Counts  []int
	Width   float64
	Total   int
}

// Histogram counts values into intervals equal-width bins and returns the
// frequency density count/(width·total) of every bin.
func Histogram(values []float64, intervals int) (*Result, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	if intervals <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIntervals, intervals)
	}

	lo := floats.Min(values)
	hi := floats.Max(values)
	lo -= math.Abs(lo) * padding
	hi += math.Abs(hi) * padding
	if !(hi > lo) || math.IsInf(hi-lo, 0) {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrDegenerate, lo, hi)
	}

	width := (hi - lo) / float64(intervals)
	r := &Result{
		Edges:   make([]float64, intervals+1),
		Centers: make([]float64, intervals),
		Density: make([]float64, intervals),
		Counts:  make([]int, intervals),
		Width:   width,
		Total:   len(values),
	}
	for i := range r.Edges {
		r.Edges[i] = lo + float64(i)*width
	}
	for i := range r.Centers {
		r.Centers[i] = lo + (float64(i)+0.5)*width
	}

	for _, v := range values {
		b := int((v - lo) / width)
		if b >= intervals {
			b = intervals - 1
		}
		r.Counts[b]++
	}

	norm := 1 / (width * float64(len(values)))
	for i, c := range r.Counts {
		r.Density[i] = float64(c) * norm
	}
	return r, nil
}

// Probability returns the cumulative probability at the right edge of
// every bin. The sequence is non-decreasing and ends at 1 up to rounding.
func Probability(h *Result) []float64 {
	out := make([]float64, len(h.Density))
	var acc float64
	for i, d := range h.Density {
		acc += d * h.Width
		out[i] = acc
	}
	return out
}

// CriticalValue returns the center of the first bin whose cumulative
// probability reaches p.
func CriticalValue(h *Result, p float64) (float64, error) {
	if !(p > 0 && p <= 1) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidProbability, p)
	}
	prob := Probability(h)
	if len(prob) == 0 {
		return 0, ErrEmpty
	}
	i := sort.SearchFloat64s(prob, p)
	if i == len(prob) {
		// the total may round to just below 1
		i = len(prob) - 1
	}
	return h.Centers[i], nil
}

// NormalPDF evaluates the normal density with the given mean and standard
// deviation at x.
func NormalPDF(x, mean, std float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: std}.Prob(x)
}

// UniformPDF evaluates the density of the uniform distribution centered at
// mean with lower bound lower. Outside [lower, 2·mean-lower] it is zero.
func UniformPDF(x, mean, lower float64) float64 {
	delta := mean - lower
	if delta <= 0 {
		return 0
	}
	if x < mean-delta || x > mean+delta {
		return 0
	}
	return 1 / (2 * delta)
}

// Evaluate applies pdf to every x and returns the results.
func Evaluate(xs []float64, pdf func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = pdf(x)
	}
	return out
}
