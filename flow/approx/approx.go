package approx

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-flow/flow/fourier"
	"github.com/cwbudde/algo-flow/flow/series"
)

// Type names an approximation strategy.
type Type int

const (
	// None passes the series through unchanged.
	None Type = iota + 1
	// StochasticTelegraphWave is the global-threshold two-level wave.
	StochasticTelegraphWave
	// StochasticTelegraphWaveFixedSeparatedInterval is the binned-mean wave.
	StochasticTelegraphWaveFixedSeparatedInterval
	// SpectrumWithMoreRealization is the partitioned Fourier approximation.
	SpectrumWithMoreRealization
)

var typeNames = map[Type]string{
	None:                    "NONE",
	StochasticTelegraphWave: "STOCHASTIC_TELEGRAPH_WAVE",
	StochasticTelegraphWaveFixedSeparatedInterval: "STOCHASTIC_TELEGRAPH_WAVE_FIXED_SEPARATED_INTERVAL",
	SpectrumWithMoreRealization:                   "SPECTRUM_WITH_MORE_REALIZATION",
}

// ErrUnsupportedType is returned for unknown strategy names or values.
var ErrUnsupportedType = errors.New("approx: unsupported approximate type")

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a configuration name to a Type.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// Config selects the strategy. Intervals is the partition count for the
// spectral strategy and the bin count for the fixed-interval wave.
type Config struct {
	Type      Type
	Intervals int
	Harmonics int
}

// Result bundles every artifact of one approximation run.
type Result struct {
	Type        Type
	Approximate *series.Series
	Error       *series.Series
	Tau         []float64

	// Spectrum is set only for SpectrumWithMoreRealization.
	Spectrum *fourier.Result

	// Mean and Std describe the approximation. For the spectral strategy
	// they are the mean DC level and the pooled harmonic std.
	Mean float64
	Std  float64

	ErrorMean float64
	ErrorStd  float64
}

// Approximate runs the configured strategy on s and derives the error
// series and tau sequence from its output.
func Approximate(s *series.Series, cfg Config) (*Result, error) {
	res := &Result{Type: cfg.Type}

	switch cfg.Type {
	case None:
		a, err := newApproximation(s.Copy())
		if err != nil {
			return nil, err
		}
		res.Approximate, res.Mean, res.Std = a.Series, a.Mean, a.Std
	case StochasticTelegraphWave:
		a, err := TelegraphWave(s)
		if err != nil {
			return nil, err
		}
		res.Approximate, res.Mean, res.Std = a.Series, a.Mean, a.Std
	case StochasticTelegraphWaveFixedSeparatedInterval:
		a, err := FixedIntervalTelegraphWave(s, cfg.Intervals)
		if err != nil {
			return nil, err
		}
		res.Approximate, res.Mean, res.Std = a.Series, a.Mean, a.Std
	case SpectrumWithMoreRealization:
		spec, err := fourier.Analyze(s, fourier.Config{Intervals: cfg.Intervals, Harmonics: cfg.Harmonics})
		if err != nil {
			return nil, err
		}
		res.Spectrum = spec
		res.Approximate = spec.Approximate()
		res.Mean, res.Std = spec.MeanLevel(), spec.PooledStd()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, cfg.Type)
	}

	errSeries, err := ErrorSeries(res.Approximate, s)
	if err != nil {
		return nil, err
	}
	res.Error = errSeries
	if res.ErrorMean, res.ErrorStd, err = errSeries.MeanStd(); err != nil {
		return nil, err
	}

	res.Tau = TauSequence(res.Approximate)
	return res, nil
}

// ErrorSeries returns approx.flow - original.flow on approx's time axis.
// The result shares approx's time column.
func ErrorSeries(approx, original *series.Series) (*series.Series, error) {
	if approx.Len() != original.Len() {
		return nil, fmt.Errorf("%w: approximate=%d original=%d",
			series.ErrLengthMismatch, approx.Len(), original.Len())
	}
	flow := make([]float64, approx.Len())
	for i := range flow {
		flow[i] = approx.Flow[i] - original.Flow[i]
	}
	return approx.WithFlow(flow)
}

// TauSequence returns the durations between successive flow changes of a
// step signal. The first change point is anchored at the first time value,
// so the result has one entry fewer than there are plateaus.
func TauSequence(s *series.Series) []float64 {
	if s.Len() == 0 {
		return nil
	}
	tau := []float64{}
	anchor := s.Time[0]
	for i := 1; i < s.Len(); i++ {
		if s.Flow[i] != s.Flow[i-1] {
			tau = append(tau, s.Time[i]-anchor)
			anchor = s.Time[i]
		}
	}
	return tau
}
