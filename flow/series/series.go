package series

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Column names used for tabular input and output.
const (
	TimeColumn = "time"
	FlowColumn = "flow"
)

// Errors returned for malformed or undersized series.
var (
	ErrEmpty            = errors.New("series: empty series")
	ErrTooShort         = errors.New("series: series too short")
	ErrLengthMismatch   = errors.New("series: column length mismatch")
	ErrNonMonotonicTime = errors.New("series: time must be non-decreasing")
	ErrZeroSpan         = errors.New("series: time span is zero")
	ErrInvalidPartition = errors.New("series: invalid partition count")
)

// Series is an ordered table of (time, flow) samples.
type Series struct {
	Time []float64
	Flow []float64
	Name string
}

// New creates a validated series from copies of the given columns.
func New(time, flow []float64) (*Series, error) {
	s := &Series{
		Time: append([]float64(nil), time...),
		Flow: append([]float64(nil), flow...),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// literals known to be well formed.
func MustNew(time, flow []float64) *Series {
	s, err := New(time, flow)
	if err != nil {
		panic(err)
	}
	return s
}

// Uniform creates a series sampled at t0, t0+dt, ... for each flow value.
func Uniform(t0, dt float64, flow []float64) *Series {
	time := make([]float64, len(flow))
	for i := range time {
		time[i] = t0 + float64(i)*dt
	}
	return &Series{Time: time, Flow: append([]float64(nil), flow...)}
}

// Validate checks column lengths and time ordering.
func (s *Series) Validate() error {
	if len(s.Time) != len(s.Flow) {
		return fmt.Errorf("%w: time=%d flow=%d", ErrLengthMismatch, len(s.Time), len(s.Flow))
	}
	for i := 1; i < len(s.Time); i++ {
		if s.Time[i] < s.Time[i-1] {
			return fmt.Errorf("%w at index %d", ErrNonMonotonicTime, i)
		}
	}
	return nil
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Flow)
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	return &Series{
		Time: append([]float64(nil), s.Time...),
		Flow: append([]float64(nil), s.Flow...),
		Name: s.Name,
	}
}

// WithFlow returns a shallow copy that shares the time column and carries
// the given flow column.
func (s *Series) WithFlow(flow []float64) (*Series, error) {
	if len(flow) != len(s.Time) {
		return nil, fmt.Errorf("%w: time=%d flow=%d", ErrLengthMismatch, len(s.Time), len(flow))
	}
	return &Series{Time: s.Time, Flow: flow, Name: s.Name}, nil
}

// Slice returns a copy of samples [start, end).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > s.Len() {
		end = s.Len()
	}
	if start >= end {
		return &Series{Time: []float64{}, Flow: []float64{}, Name: s.Name}
	}
	return &Series{
		Time: append([]float64(nil), s.Time[start:end]...),
		Flow: append([]float64(nil), s.Flow[start:end]...),
		Name: s.Name,
	}
}

// Mean returns the arithmetic mean of the flow column.
func (s *Series) Mean() (float64, error) {
	if s.Len() == 0 {
		return 0, ErrEmpty
	}
	return stat.Mean(s.Flow, nil), nil
}

// Std returns the sample standard deviation (n-1) of the flow column.
func (s *Series) Std() (float64, error) {
	if s.Len() == 0 {
		return 0, ErrEmpty
	}
	if s.Len() < 2 {
		return 0, fmt.Errorf("%w: std needs 2 samples, have %d", ErrTooShort, s.Len())
	}
	return stat.StdDev(s.Flow, nil), nil
}

// PopStd returns the population standard deviation (n) of the flow column.
func (s *Series) PopStd() (float64, error) {
	if s.Len() == 0 {
		return 0, ErrEmpty
	}
	return stat.PopStdDev(s.Flow, nil), nil
}

// MeanStd returns mean and sample standard deviation of the flow column.
func (s *Series) MeanStd() (mean, std float64, err error) {
	if mean, err = s.Mean(); err != nil {
		return 0, 0, err
	}
	if std, err = s.Std(); err != nil {
		return 0, 0, err
	}
	return mean, std, nil
}

// TimeRange returns the minimum and maximum time values.
func (s *Series) TimeRange() (lo, hi float64, err error) {
	if len(s.Time) == 0 {
		return 0, 0, ErrEmpty
	}
	return floats.Min(s.Time), floats.Max(s.Time), nil
}

// Span returns max(time) - min(time). A zero span is reported as ErrZeroSpan.
func (s *Series) Span() (float64, error) {
	lo, hi, err := s.TimeRange()
	if err != nil {
		return 0, err
	}
	span := hi - lo
	if span == 0 || math.IsNaN(span) {
		return 0, ErrZeroSpan
	}
	return span, nil
}

// Step returns the sample spacing t[1] - t[0].
func (s *Series) Step() (float64, error) {
	if len(s.Time) < 2 {
		return 0, fmt.Errorf("%w: step needs 2 samples, have %d", ErrTooShort, len(s.Time))
	}
	return s.Time[1] - s.Time[0], nil
}

// Split cuts s into p contiguous partitions covering every sample exactly
// once. Each partition holds n/p samples; the last also takes the remainder.
func Split(s *Series, p int) ([]*Series, error) {
	n := s.Len()
	if n == 0 {
		return nil, ErrEmpty
	}
	if p <= 0 || p > n {
		return nil, fmt.Errorf("%w: %d for %d samples", ErrInvalidPartition, p, n)
	}

	size := n / p
	parts := make([]*Series, p)
	for i := range parts {
		start := i * size
		end := start + size
		if i == p-1 {
			end = n
		}
		parts[i] = s.Slice(start, end)
	}
	return parts, nil
}

// Concat joins series end to end into a new series.
func Concat(parts []*Series) *Series {
	total := 0
	for _, p := range parts {
		total += p.Len()
	}

	out := &Series{
		Time: make([]float64, 0, total),
		Flow: make([]float64, 0, total),
	}
	for _, p := range parts {
		out.Time = append(out.Time, p.Time...)
		out.Flow = append(out.Flow, p.Flow...)
	}
	if len(parts) > 0 {
		out.Name = parts[0].Name
	}
	return out
}
