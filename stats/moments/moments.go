// Package moments summarizes a value collection: central moments, extremes,
// quartiles and mean crossings.
//
// Moments are accumulated in a single pass with Welford's online update,
// which stays stable for long series with a large mean offset. Median and
// quartiles come from github.com/montanaflynn/stats.
package moments

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// ErrEmpty is returned when a summary of no values is requested.
var ErrEmpty = errors.New("moments: empty input")

// Summary holds descriptive statistics of a value collection.
type Summary struct {
	Count int
	Mean  float64
	// Variance is the population variance; Std is the sample (n-1) standard
	// deviation, zero for a single value.
	Variance float64
	Std      float64
	Skewness float64
	Kurtosis float64 // excess

	Min    float64
	MinPos int
	Max    float64
	MaxPos int
	Range  float64
	RMS    float64

	Median float64
	Q1     float64
	Q3     float64

	// MeanCrossings counts sign changes of values - Mean.
	MeanCrossings int
}

// Summarize computes every field of Summary.
func Summarize(values []float64) (Summary, error) {
	n := len(values)
	if n == 0 {
		return Summary{}, ErrEmpty
	}

	var (
		mean, m2, m3, m4 float64
		sumSq            float64
		maxVal           = values[0]
		maxPos           int
		minVal           = values[0]
		minPos           int
	)

	for i, x := range values {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 before M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}
		if x < minVal {
			minVal = x
			minPos = i
		}
	}

	nf := float64(n)
	s := Summary{
		Count:    n,
		Mean:     mean,
		Variance: m2 / nf,
		Min:      minVal,
		MinPos:   minPos,
		Max:      maxVal,
		MaxPos:   maxPos,
		Range:    maxVal - minVal,
		RMS:      math.Sqrt(sumSq / nf),
	}
	if n > 1 {
		s.Std = math.Sqrt(m2 / (nf - 1))
	}
	if s.Variance > 0 {
		s.Skewness = (m3 / nf) / (s.Variance * math.Sqrt(s.Variance))
		s.Kurtosis = (m4/nf)/(s.Variance*s.Variance) - 3
	}

	var err error
	if s.Median, s.Q1, s.Q3, err = Quartiles(values); err != nil {
		return Summary{}, err
	}
	s.MeanCrossings = crossings(values, mean)
	return s, nil
}

// Quartiles returns the median and the 25th and 75th percentiles. Fewer
// than four values have no separate quartiles; the median is returned for
// all three.
func Quartiles(values []float64) (median, q1, q3 float64, err error) {
	data := stats.Float64Data(values)
	if median, err = data.Median(); err != nil {
		return 0, 0, 0, fmt.Errorf("moments: median: %w", err)
	}
	if len(values) < 4 {
		return median, median, median, nil
	}
	if q1, err = data.Percentile(25); err != nil {
		return 0, 0, 0, fmt.Errorf("moments: 25th percentile: %w", err)
	}
	if q3, err = data.Percentile(75); err != nil {
		return 0, 0, 0, fmt.Errorf("moments: 75th percentile: %w", err)
	}
	return median, q1, q3, nil
}

// Moments returns the mean, population variance, skewness and excess
// kurtosis of values.
func Moments(values []float64) (mean, variance, skewness, kurtosis float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var m2, m3, m4 float64
	for i, x := range values {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}

	nf := float64(n)
	variance = m2 / nf
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}
	return mean, variance, skewness, kurtosis
}

// crossings counts sign changes of values-level, ignoring samples exactly
// at level.
func crossings(values []float64, level float64) int {
	var count int
	prev := 0.0
	for _, x := range values {
		d := x - level
		if d == 0 {
			continue
		}
		if prev != 0 && (prev < 0) != (d < 0) {
			count++
		}
		prev = d
	}
	return count
}
