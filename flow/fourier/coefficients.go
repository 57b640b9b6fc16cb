package fourier

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-flow/flow/series"
)

// Coefficients holds one partition's truncated spectrum. Cos[0] is the mean
// level; Sin[0] is always zero.
type Coefficients struct {
	Cos []float64
	Sin []float64
}

// Len returns the number of harmonics.
func (c Coefficients) Len() int {
	return len(c.Cos)
}

// window describes the time frame of a partition.
type window struct {
	xMin float64
	span float64
}

func frameOf(s *series.Series) (window, error) {
	if s.Len() < 2 {
		return window{}, fmt.Errorf("%w: partition has %d samples", series.ErrTooShort, s.Len())
	}
	lo, _, err := s.TimeRange()
	if err != nil {
		return window{}, err
	}
	span, err := s.Span()
	if err != nil {
		return window{}, fmt.Errorf("fourier: partition starting at t=%g: %w", lo, err)
	}
	return window{xMin: lo, span: span}, nil
}

// Estimate computes the first harmonics coefficient pairs of s.
func Estimate(s *series.Series, harmonics int) (Coefficients, error) {
	if harmonics <= 0 {
		return Coefficients{}, fmt.Errorf("%w: harmonics=%d", ErrInvalidConfig, harmonics)
	}
	w, err := frameOf(s)
	if err != nil {
		return Coefficients{}, err
	}
	return estimate(s, w, harmonics), nil
}

func estimate(s *series.Series, w window, harmonics int) Coefficients {
	m := s.Len()
	dx := w.span / float64(m)
	z := 2 * math.Pi / w.span

	c := Coefficients{
		Cos: make([]float64, harmonics),
		Sin: make([]float64, harmonics),
	}

	var sum float64
	for _, y := range s.Flow {
		sum += y * dx
	}
	c.Cos[0] = sum / w.span

	for k := 1; k < harmonics; k++ {
		var cs, sn float64
		for i, y := range s.Flow {
			phase := z * float64(k) * (s.Time[i] - w.xMin)
			cs += y * math.Cos(phase) * dx
			sn += y * math.Sin(phase) * dx
		}
		c.Cos[k] = 2 * cs / w.span
		c.Sin[k] = 2 * sn / w.span
	}
	return c
}

// Reconstruct evaluates the truncated Fourier sum of c at every time of s
// and returns the result as a new series.
func Reconstruct(s *series.Series, c Coefficients) (*series.Series, error) {
	if len(c.Cos) != len(c.Sin) {
		return nil, fmt.Errorf("%w: cos=%d sin=%d", series.ErrLengthMismatch, len(c.Cos), len(c.Sin))
	}
	w, err := frameOf(s)
	if err != nil {
		return nil, err
	}
	return reconstruct(s, w, c), nil
}

func reconstruct(s *series.Series, w window, c Coefficients) *series.Series {
	z := 2 * math.Pi / w.span
	out := &series.Series{
		Time: append([]float64(nil), s.Time...),
		Flow: make([]float64, s.Len()),
		Name: s.Name,
	}
	for i, x := range s.Time {
		var v float64
		for k := range c.Cos {
			phase := z * float64(k) * (x - w.xMin)
			v += c.Cos[k]*math.Cos(phase) + c.Sin[k]*math.Sin(phase)
		}
		out.Flow[i] = v
	}
	return out
}
