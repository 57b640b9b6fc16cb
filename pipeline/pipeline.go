// Package pipeline runs a complete flow analysis: load, normalize,
// approximate, correlate, estimate densities and spectra, and store every
// artifact through package report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-flow/config"
	"github.com/cwbudde/algo-flow/dsp/spectrum"
	"github.com/cwbudde/algo-flow/flow/approx"
	"github.com/cwbudde/algo-flow/flow/corr"
	"github.com/cwbudde/algo-flow/flow/dimless"
	"github.com/cwbudde/algo-flow/flow/series"
	"github.com/cwbudde/algo-flow/report"
	"github.com/cwbudde/algo-flow/stats/density"
	"github.com/cwbudde/algo-flow/stats/frequency"
	"github.com/cwbudde/algo-flow/stats/moments"
)

// Artifact names. They double as CSV file names, workbook sheet names and
// plot_parameters keys.
const (
	ArtifactFlow              = "flow"
	ArtifactDimensionless     = "dimensionless"
	ArtifactApproximation     = "approximation"
	ArtifactError             = "error"
	ArtifactTau               = "tau"
	ArtifactCoefficients      = "coefficients"
	ArtifactMeanApproximation = "mean_approximation"
	ArtifactCorrelation       = "correlation"
	ArtifactErrorCorrelation  = "error_correlation"
	ArtifactDensity           = "density"
	ArtifactErrorDensity      = "error_density"
	ArtifactSpectrum          = "spectrum"
	ArtifactSpectrumShape     = "spectrum_shape"
	ArtifactSummary           = "summary"
)

// ErrNoInput is returned by Run when the configuration names no input file.
var ErrNoInput = errors.New("pipeline: no input path configured")

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger. Default slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithProgress reports correlation progress to p.
func WithProgress(p corr.Reporter) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// Runner executes the configured stages.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	progress corr.Reporter
	runID    string
}

// New returns a Runner for cfg. The run id defaults to cfg.Output.RunID and
// then to a random UUID.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, logger: slog.Default(), runID: cfg.Output.RunID}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.logger = r.logger.With("run", r.runID)
	return r
}

// RunID returns the id used for the output directory.
func (r *Runner) RunID() string {
	return r.runID
}

// Result collects the outputs of every stage. Optional stages leave their
// fields nil.
type Result struct {
	RunID string
	Dir   string

	Input *series.Series
	// Normalized is the dimensionless series, or Input when normalization
	// is disabled. All later stages operate on it.
	Normalized *series.Series

	Approximation *approx.Result

	Correlation      *corr.Function
	ErrorCorrelation *corr.Function

	Density       *density.Result
	ErrorDensity  *density.Result
	CriticalValue float64

	Summary      moments.Summary
	ErrorSummary moments.Summary

	Spectrum      *spectrum.PeriodogramResult
	SpectrumShape frequency.Shape
}

// Run loads the configured input, processes it and writes all artifacts.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.cfg.Input.Path == "" {
		return nil, ErrNoInput
	}
	s, err := r.Load()
	if err != nil {
		return nil, err
	}
	res, err := r.Process(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := r.Write(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Load reads the configured input table.
func (r *Runner) Load() (*series.Series, error) {
	opts, err := r.cfg.CSVOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	s, err := series.LoadCSV(r.cfg.Input.Path, opts)
	if err != nil {
		return nil, err
	}
	r.logger.Info("input loaded", "path", r.cfg.Input.Path, "samples", s.Len())
	return s, nil
}

// Process runs every enabled stage on s. The context is checked between
// stages.
func (r *Runner) Process(ctx context.Context, s *series.Series) (*Result, error) {
	res := &Result{RunID: r.runID, Input: s}
	start := time.Now()

	stages := []struct {
		name string
		run  func() error
	}{
		{"dimensionless", func() (err error) {
			res.Normalized, err = r.Normalize(s)
			return err
		}},
		{"approximate", func() (err error) {
			res.Approximation, err = r.Approximate(res.Normalized)
			return err
		}},
		{"correlation", func() (err error) {
			res.Correlation, res.ErrorCorrelation, err = r.correlations(res)
			return err
		}},
		{"probability", func() (err error) {
			return r.probability(res)
		}},
		{"summary", func() (err error) {
			if res.Summary, err = moments.Summarize(res.Normalized.Flow); err != nil {
				return err
			}
			res.ErrorSummary, err = moments.Summarize(res.Approximation.Error.Flow)
			return err
		}},
		{"spectrum", func() (err error) {
			if res.Spectrum, err = r.Spectrum(res.Normalized); err != nil || res.Spectrum == nil {
				return err
			}
			peak, amp := res.Spectrum.Peak()
			r.logger.Debug("spectrum", "window", res.Spectrum.Window.String(), "peak", peak, "peak_amplitude", amp)
			res.SpectrumShape, err = frequency.Describe(res.Spectrum.Frequency, res.Spectrum.Amplitude)
			return err
		}},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t0 := time.Now()
		if err := st.run(); err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", st.name, err)
		}
		r.logger.Debug("stage done", "stage", st.name, "elapsed", time.Since(t0))
	}

	r.logger.Info("analysis complete",
		"samples", s.Len(),
		"approximate_type", res.Approximation.Type.String(),
		"error_std", res.Approximation.ErrorStd,
		"elapsed", time.Since(start),
	)
	return res, nil
}

// Normalize applies the configured dimensionless transform, or returns s
// when none is configured.
func (r *Runner) Normalize(s *series.Series) (*series.Series, error) {
	cfg, enabled, err := r.cfg.DimlessConfig()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return s, nil
	}
	if r.cfg.Dimensionless.Centred {
		return dimless.Centered(s, cfg)
	}
	return dimless.Transform(s, cfg)
}

// Approximate runs the configured approximation strategy.
func (r *Runner) Approximate(s *series.Series) (*approx.Result, error) {
	cfg, err := r.cfg.ApproxConfig()
	if err != nil {
		return nil, err
	}
	res, err := approx.Approximate(s, cfg)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("approximation",
		"type", cfg.Type.String(),
		"mean", res.Mean,
		"std", res.Std,
		"changes", len(res.Tau),
	)
	return res, nil
}

// Correlate estimates the lag correlation of s. It returns nil when
// correlation is disabled.
func (r *Runner) Correlate(s *series.Series, label string) (*corr.Function, error) {
	cfg, enabled, err := r.cfg.CorrConfig()
	if err != nil || !enabled {
		return nil, err
	}
	return corr.Estimate(s, cfg, corr.WithProgress(r.progress), corr.WithLabel(label))
}

// correlations estimates the flow correlation and, for strategies other
// than None, the correlation of the approximation error.
func (r *Runner) correlations(res *Result) (flow, errFn *corr.Function, err error) {
	flow, err = r.Correlate(res.Normalized, ArtifactCorrelation)
	if err != nil || flow == nil {
		return nil, nil, err
	}
	if res.Approximation.Type == approx.None {
		return flow, nil, nil
	}
	errFn, err = r.Correlate(res.Approximation.Error, ArtifactErrorCorrelation)
	if errors.Is(err, corr.ErrConstantSignal) {
		r.logger.Warn("approximation error is constant, skipping its correlation")
		return flow, nil, nil
	}
	return flow, errFn, err
}

// Probability estimates the histogram density of values and the value below
// which the configured critical probability lies.
func (r *Runner) Probability(values []float64) (*density.Result, float64, error) {
	h, err := density.Histogram(values, r.cfg.Probability.Intervals)
	if err != nil {
		return nil, 0, err
	}
	cv, err := density.CriticalValue(h, r.cfg.Probability.CriticalValue)
	if err != nil {
		return nil, 0, err
	}
	return h, cv, nil
}

func (r *Runner) probability(res *Result) error {
	var err error
	if res.Density, res.CriticalValue, err = r.Probability(res.Normalized.Flow); err != nil {
		return err
	}
	if res.Approximation.Type == approx.None {
		return nil
	}
	res.ErrorDensity, err = density.Histogram(res.Approximation.Error.Flow, r.cfg.Probability.Intervals)
	if errors.Is(err, density.ErrDegenerate) {
		r.logger.Warn("approximation error has no spread, skipping its density")
		return nil
	}
	return err
}

// Spectrum returns the periodogram of s, or nil when no window is
// configured.
func (r *Runner) Spectrum(s *series.Series) (*spectrum.PeriodogramResult, error) {
	typ, enabled, err := r.cfg.WindowType()
	if err != nil || !enabled {
		return nil, err
	}
	dt, err := s.Step()
	if err != nil {
		return nil, err
	}
	return spectrum.Periodogram(s.Flow, dt, spectrum.WithWindow(typ))
}

// Write stores every artifact of res below <output dir>/<run id>.
func (r *Runner) Write(res *Result) error {
	dir := filepath.Join(r.cfg.Output.Dir, r.runID)
	opts := []report.WriterOption{report.WithLogger(r.logger)}
	if r.cfg.Output.XLSX {
		opts = append(opts, report.WithXLSX())
	}
	if r.cfg.PlotParameters != nil {
		opts = append(opts, report.WithStyles(r.cfg))
	}
	w, err := report.NewWriter(dir, opts...)
	if err != nil {
		return err
	}

	tables, err := Tables(res)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if err := w.Add(t); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	res.Dir = dir
	r.logger.Info("artifacts written", "dir", dir, "tables", len(tables))
	return nil
}

// Tables converts res into report tables in a stable order.
func Tables(res *Result) ([]report.Table, error) {
	var tables []report.Table
	add := func(t report.Table, err error) error {
		if err != nil {
			return err
		}
		tables = append(tables, t)
		return nil
	}

	tables = append(tables, report.FromSeries(ArtifactFlow, res.Input))
	if res.Normalized != res.Input {
		tables = append(tables, report.FromSeries(ArtifactDimensionless, res.Normalized))
	}

	if a := res.Approximation; a != nil {
		tables = append(tables,
			report.FromSeries(ArtifactApproximation, a.Approximate),
			report.FromSeries(ArtifactError, a.Error),
		)
		idx := make([]float64, len(a.Tau))
		for i := range idx {
			idx[i] = float64(i)
		}
		if err := add(report.FromColumns(ArtifactTau, []string{"index", "tau"}, idx, a.Tau)); err != nil {
			return nil, err
		}
		if a.Spectrum != nil {
			if err := add(coefficientTable(a)); err != nil {
				return nil, err
			}
			tables = append(tables, report.FromSeries(ArtifactMeanApproximation, a.Spectrum.MeanApproximate()))
		}
	}

	for _, c := range []struct {
		name string
		fn   *corr.Function
	}{
		{ArtifactCorrelation, res.Correlation},
		{ArtifactErrorCorrelation, res.ErrorCorrelation},
	} {
		if c.fn == nil {
			continue
		}
		if err := add(report.FromColumns(c.name, []string{"tau", corr.ValueColumn}, c.fn.Tau, c.fn.Value)); err != nil {
			return nil, err
		}
	}

	for _, d := range []struct {
		name string
		h    *density.Result
	}{
		{ArtifactDensity, res.Density},
		{ArtifactErrorDensity, res.ErrorDensity},
	} {
		if d.h == nil {
			continue
		}
		if err := add(DensityTable(d.name, d.h)); err != nil {
			return nil, err
		}
	}

	if p := res.Spectrum; p != nil {
		if err := add(report.FromColumns(ArtifactSpectrum,
			[]string{"frequency", "amplitude", "density", "density_db"},
			p.Frequency, p.Amplitude, p.Density, p.DensityDB(),
		)); err != nil {
			return nil, err
		}
		sh := res.SpectrumShape
		tables = append(tables, report.Table{
			Name:    ArtifactSpectrumShape,
			Columns: []string{"peak", "peak_amplitude", "energy", "centroid", "spread", "flatness", "rolloff", "bandwidth"},
			Rows:    [][]float64{{sh.Peak, sh.PeakAmplitude, sh.Energy, sh.Centroid, sh.Spread, sh.Flatness, sh.Rolloff, sh.Bandwidth}},
		})
	}

	if res.Approximation != nil {
		tables = append(tables, summaryTable(res))
	}
	return tables, nil
}

// coefficientTable lists the partition-mean harmonic coefficients and their
// amplitudes.
func coefficientTable(a *approx.Result) (report.Table, error) {
	mean := a.Spectrum.MeanCoefficients()
	amps := a.Spectrum.Amplitudes()
	k := make([]float64, len(amps))
	for i := range k {
		k[i] = float64(i)
	}
	return report.FromColumns(ArtifactCoefficients,
		[]string{"harmonic", "cos", "sin", "amplitude"},
		k, mean.Cos, mean.Sin, amps,
	)
}

// DensityTable pairs the histogram with the normal density of matching
// moments for comparison.
func DensityTable(name string, h *density.Result) (report.Table, error) {
	var mean, sumSq float64
	for i, c := range h.Centers {
		mean += c * h.Density[i] * h.Width
	}
	for i, c := range h.Centers {
		sumSq += (c - mean) * (c - mean) * h.Density[i] * h.Width
	}
	std := math.Sqrt(sumSq)

	normal := density.Evaluate(h.Centers, func(x float64) float64 {
		return density.NormalPDF(x, mean, std)
	})
	counts := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		counts[i] = float64(c)
	}
	return report.FromColumns(name,
		[]string{"center", "count", "density", "cumulative", "normal"},
		h.Centers, counts, h.Density, density.Probability(h), normal,
	)
}

// summaryTable holds one row per analysed signal: the normalized flow and
// the approximation error.
func summaryTable(res *Result) report.Table {
	row := func(s moments.Summary, extra ...float64) []float64 {
		return append([]float64{
			float64(s.Count), s.Mean, s.Std, s.Skewness, s.Kurtosis,
			s.Min, s.Max, s.Median, s.Q1, s.Q3, float64(s.MeanCrossings),
		}, extra...)
	}
	a := res.Approximation
	return report.Table{
		Name: ArtifactSummary,
		Columns: []string{
			"count", "mean", "std", "skewness", "kurtosis",
			"min", "max", "median", "q1", "q3", "mean_crossings",
			"approx_mean", "approx_std", "critical_value",
		},
		Rows: [][]float64{
			row(res.Summary, a.Mean, a.Std, res.CriticalValue),
			row(res.ErrorSummary, a.ErrorMean, a.ErrorStd, 0),
		},
	}
}
