package approx

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-flow/flow/series"
)

// ErrInvalidBins is returned when the fixed-interval variant is asked for a
// non-positive bin count.
var ErrInvalidBins = errors.New("approx: bin count must be positive")

// Approximation is a smoothed series together with its own flow statistics.
type Approximation struct {
	Series *series.Series
	Mean   float64
	Std    float64
}

func newApproximation(s *series.Series) (Approximation, error) {
	mean, std, err := s.MeanStd()
	if err != nil {
		return Approximation{}, err
	}
	return Approximation{Series: s, Mean: mean, Std: std}, nil
}

// TelegraphWave maps every sample to one of two levels: mean+std when the
// flow lies strictly above the global mean, mean-std otherwise.
func TelegraphWave(s *series.Series) (Approximation, error) {
	mean, std, err := s.MeanStd()
	if err != nil {
		return Approximation{}, err
	}

	hi, lo := mean+std, mean-std
	flow := make([]float64, s.Len())
	for i, v := range s.Flow {
		if v > mean {
			flow[i] = hi
		} else {
			flow[i] = lo
		}
	}

	out := s.Copy()
	out.Flow = flow
	return newApproximation(out)
}

// FixedIntervalTelegraphWave cuts the time range into bins of equal width
// and replaces every sample by the mean flow of its bin. Bins are closed on
// the right; the first bin also includes the minimum time.
func FixedIntervalTelegraphWave(s *series.Series, bins int) (Approximation, error) {
	if bins <= 0 {
		return Approximation{}, fmt.Errorf("%w: %d", ErrInvalidBins, bins)
	}
	if s.Len() == 0 {
		return Approximation{}, series.ErrEmpty
	}
	lo, _, err := s.TimeRange()
	if err != nil {
		return Approximation{}, err
	}
	span, err := s.Span()
	if err != nil {
		return Approximation{}, fmt.Errorf("approx: fixed interval bins: %w", err)
	}

	width := span / float64(bins)
	index := make([]int, s.Len())
	sums := make([]float64, bins)
	counts := make([]int, bins)
	for i, t := range s.Time {
		b := int(math.Ceil((t-lo)/width)) - 1
		if b < 0 {
			b = 0
		}
		if b >= bins {
			b = bins - 1
		}
		index[i] = b
		sums[b] += s.Flow[i]
		counts[b]++
	}

	out := s.Copy()
	for i, b := range index {
		out.Flow[i] = sums[b] / float64(counts[b])
	}
	return newApproximation(out)
}
