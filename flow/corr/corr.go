package corr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-flow/flow/series"
)

// ValueColumn is the column name of correlation values in tabular output.
const ValueColumn = "correlation"

// Errors returned by the estimator.
var (
	ErrInvalidPeriod     = errors.New("corr: period must be positive")
	ErrConstantSignal    = errors.New("corr: flow has zero standard deviation")
	ErrUnsupportedMethod = errors.New("corr: unsupported method")
	ErrLengthMismatch    = errors.New("corr: function shorter than template")
	ErrNonPositiveStep   = errors.New("corr: sample step must be positive")
)

// Method selects how the lag sums are evaluated. Both methods compute the
// same estimator.
type Method int

const (
	// Direct evaluates every lag sum explicitly, O((n/period)·n).
	Direct Method = iota
	// FFT obtains all lag sums from one zero-padded power spectrum, O(n log n).
	FFT
)

func (m Method) String() string {
	switch m {
	case Direct:
		return "direct"
	case FFT:
		return "fft"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a configuration name to a Method. The empty string
// selects Direct.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "direct":
		return Direct, nil
	case "fft":
		return FFT, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
}

// Config holds estimator settings.
type Config struct {
	// Period is the lag stride; lag v corresponds to a shift of v·Period samples.
	Period int
	Method Method
}

// Reporter receives progress notifications while lags are evaluated.
type Reporter interface {
	Report(current, total int, label string)
}

// Option configures an estimation call.
type Option func(*options)

type options struct {
	progress Reporter
	label    string
}

// WithProgress reports one step per evaluated lag and a final completion
// step to r.
func WithProgress(r Reporter) Option {
	return func(o *options) {
		o.progress = r
	}
}

// WithLabel sets the label passed to the progress reporter.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Function is a sampled correlation function: Value[v] is the correlation at
// lag Tau[v].
type Function struct {
	Tau   []float64
	Value []float64
}

// Len returns the number of lags.
func (f *Function) Len() int {
	return len(f.Tau)
}

// Series returns f as a series with time = lag and flow = correlation.
func (f *Function) Series() *series.Series {
	return &series.Series{
		Time: append([]float64(nil), f.Tau...),
		Flow: append([]float64(nil), f.Value...),
		Name: ValueColumn,
	}
}

// Estimate computes the mean-removed, std-normalized lag correlation of s:
//
//	size  = floor(n / period / 2)
//	τ(v)  = v·period·Δt
//	c(v)  = Σ_{i<n-v·period} (f[i]-m)(f[i+v·period]-m)·Δt / (span·std²) · n/(n-v·period)
//
// Δt is t[1]-t[0] and must be positive, span is max(t)-min(t) and std is
// the sample standard deviation. For uniformly sampled, non-constant input c(0) is 1.
func Estimate(s *series.Series, cfg Config, opts ...Option) (*Function, error) {
	o := options{label: "correlation"}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Period <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPeriod, cfg.Period)
	}

	n := s.Len()
	if n == 0 {
		return nil, series.ErrEmpty
	}
	size := n / cfg.Period / 2
	if size == 0 {
		return nil, fmt.Errorf("%w: %d samples for period %d", series.ErrTooShort, n, cfg.Period)
	}

	dt, err := s.Step()
	if err != nil {
		return nil, err
	}
	span, err := s.Span()
	if err != nil {
		return nil, err
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: t[1]-t[0] = %g", ErrNonPositiveStep, dt)
	}
	mean, std, err := s.MeanStd()
	if err != nil {
		return nil, err
	}
	if std == 0 {
		return nil, ErrConstantSignal
	}

	centered := make([]float64, n)
	for i, v := range s.Flow {
		centered[i] = v - mean
	}

	var sums []float64
	switch cfg.Method {
	case Direct:
		sums = directSums(centered, size, cfg.Period, o)
	case FFT:
		if sums, err = fftSums(centered, size, cfg.Period, o); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMethod, cfg.Method)
	}

	f := &Function{
		Tau:   make([]float64, size),
		Value: make([]float64, size),
	}
	norm := dt / (span * std * std)
	for v := range size {
		shift := v * cfg.Period
		count := n - shift
		f.Tau[v] = float64(shift) * dt
		f.Value[v] = sums[v] * norm * float64(n) / float64(count)
	}

	if o.progress != nil {
		o.progress.Report(size, size, o.label)
	}
	return f, nil
}

// directSums returns Σ_{i<n-v·period} x[i]·x[i+v·period] for every lag v.
func directSums(x []float64, size, period int, o options) []float64 {
	n := len(x)
	sums := make([]float64, size)
	for v := range size {
		shift := v * period
		var acc float64
		for i := 0; i < n-shift; i++ {
			acc += x[i] * x[i+shift]
		}
		sums[v] = acc
		if o.progress != nil {
			o.progress.Report(v, size, o.label)
		}
	}
	return sums
}

// CutByTemplate returns a function on template's lag grid whose values are
// taken index-wise from f.
func CutByTemplate(template, f *Function) (*Function, error) {
	if f.Len() < template.Len() {
		return nil, fmt.Errorf("%w: template=%d function=%d", ErrLengthMismatch, template.Len(), f.Len())
	}
	return &Function{
		Tau:   append([]float64(nil), template.Tau...),
		Value: append([]float64(nil), f.Value[:template.Len()]...),
	}, nil
}
