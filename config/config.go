// Package config loads the YAML experiment configuration of a flow run.
//
// The configuration path is always passed explicitly. Option names follow
// the established keys (approximate_type, number_of_intervals,
// dimensionless_type, period, ...) so existing experiment files keep
// working:
//
//	input:
//	  path: flow.csv
//	dimensionless:
//	  dimensionless_type: STD_TIME_M1_1
//	approximate:
//	  approximate_type: SPECTRUM_WITH_MORE_REALIZATION
//	  number_of_intervals: 10
//	  number_of_harmonics: 8
//	correlation:
//	  period: 1
//
// Plot styles live under plot_parameters and are passed through untouched
// to the plot manifest.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-flow/dsp/window"
	"github.com/cwbudde/algo-flow/flow/approx"
	"github.com/cwbudde/algo-flow/flow/corr"
	"github.com/cwbudde/algo-flow/flow/dimless"
	"github.com/cwbudde/algo-flow/flow/series"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "FLOWTOOL_CONFIG"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root of an experiment file.
type Config struct {
	Input          Input          `yaml:"input"`
	Output         Output         `yaml:"output"`
	Dimensionless  Dimensionless  `yaml:"dimensionless"`
	Approximate    Approximate    `yaml:"approximate"`
	Correlation    Correlation    `yaml:"correlation"`
	Probability    Probability    `yaml:"probability"`
	Spectrum       Spectrum       `yaml:"spectrum"`
	PlotParameters map[string]any `yaml:"plot_parameters"`
}

// Input describes the source table.
type Input struct {
	Path       string `yaml:"path"`
	TimeColumn string `yaml:"time_column"`
	FlowColumn string `yaml:"flow_column"`
	Delimiter  string `yaml:"delimiter"`
	NoHeader   bool   `yaml:"no_header"`
	SkipRows   int    `yaml:"skip_rows"`
}

// Output describes where artifacts are written.
type Output struct {
	Dir   string `yaml:"dir"`
	XLSX  bool   `yaml:"xlsx"`
	RunID string `yaml:"run_id"`
}

// Dimensionless configures the normalizer. An empty type disables it.
type Dimensionless struct {
	Type               string   `yaml:"dimensionless_type"`
	Std                *float64 `yaml:"std"`
	CharacteristicFlow float64  `yaml:"characteristic_flow_value"`
	CharacteristicTime float64  `yaml:"characteristic_time_value"`
	MinTime            *float64 `yaml:"min_time"`
	MaxTime            *float64 `yaml:"max_time"`
	Centred            bool     `yaml:"centred"`
}

// Approximate configures the approximation facade.
type Approximate struct {
	Type      string `yaml:"approximate_type"`
	Intervals int    `yaml:"number_of_intervals"`
	Harmonics int    `yaml:"number_of_harmonics"`
}

// Correlation configures the lag-correlation estimator. Period 0 disables it.
type Correlation struct {
	Period int    `yaml:"period"`
	Method string `yaml:"method"`
}

// Probability configures histogram density and the critical value.
type Probability struct {
	Intervals     int     `yaml:"number_density_intervals"`
	CriticalValue float64 `yaml:"critical_prob_value"`
}

// Spectrum configures the periodogram. An empty window disables it.
type Spectrum struct {
	Window string `yaml:"window"`
}

// Default returns the configuration used for keys absent from a file.
func Default() *Config {
	return &Config{
		Input: Input{
			TimeColumn: series.TimeColumn,
			FlowColumn: series.FlowColumn,
			Delimiter:  ",",
		},
		Output: Output{Dir: "results"},
		Approximate: Approximate{
			Type:      approx.None.String(),
			Intervals: 10,
			Harmonics: 8,
		},
		Correlation: Correlation{Period: 1, Method: corr.Direct.String()},
		Probability: Probability{Intervals: 50, CriticalValue: 0.95},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// outside plot_parameters are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every strategy name and numeric option.
func (c *Config) Validate() error {
	if _, _, err := c.DimlessConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.ApproxConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, _, err := c.CorrConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, _, err := c.WindowType(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.CSVOptions(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Probability.Intervals <= 0 {
		return fmt.Errorf("%w: number_density_intervals must be positive, got %d", ErrInvalid, c.Probability.Intervals)
	}
	if p := c.Probability.CriticalValue; !(p > 0 && p <= 1) {
		return fmt.Errorf("%w: critical_prob_value must be in (0, 1], got %g", ErrInvalid, p)
	}
	return nil
}

// DimlessConfig returns the normalizer settings and whether normalization
// is enabled.
func (c *Config) DimlessConfig() (dimless.Config, bool, error) {
	d := c.Dimensionless
	if d.Type == "" {
		return dimless.Config{}, false, nil
	}
	typ, err := dimless.ParseType(d.Type)
	if err != nil {
		return dimless.Config{}, false, err
	}
	return dimless.Config{
		Type:               typ,
		Std:                d.Std,
		CharacteristicFlow: d.CharacteristicFlow,
		CharacteristicTime: d.CharacteristicTime,
		MinTime:            d.MinTime,
		MaxTime:            d.MaxTime,
	}, true, nil
}

// ApproxConfig returns the approximation settings.
func (c *Config) ApproxConfig() (approx.Config, error) {
	a := c.Approximate
	typ, err := approx.ParseType(a.Type)
	if err != nil {
		return approx.Config{}, err
	}
	cfg := approx.Config{Type: typ, Intervals: a.Intervals, Harmonics: a.Harmonics}
	switch typ {
	case approx.SpectrumWithMoreRealization:
		if a.Intervals <= 0 || a.Harmonics <= 0 {
			return approx.Config{}, fmt.Errorf("number_of_intervals and number_of_harmonics must be positive, got %d and %d", a.Intervals, a.Harmonics)
		}
	case approx.StochasticTelegraphWaveFixedSeparatedInterval:
		if a.Intervals <= 0 {
			return approx.Config{}, fmt.Errorf("number_of_intervals must be positive, got %d", a.Intervals)
		}
	}
	return cfg, nil
}

// CorrConfig returns the estimator settings and whether correlation is
// enabled.
func (c *Config) CorrConfig() (corr.Config, bool, error) {
	if c.Correlation.Period < 0 {
		return corr.Config{}, false, fmt.Errorf("period must not be negative, got %d", c.Correlation.Period)
	}
	m, err := corr.ParseMethod(c.Correlation.Method)
	if err != nil {
		return corr.Config{}, false, err
	}
	return corr.Config{Period: c.Correlation.Period, Method: m}, c.Correlation.Period > 0, nil
}

// WindowType returns the periodogram window and whether the periodogram is
// enabled.
func (c *Config) WindowType() (window.Type, bool, error) {
	if c.Spectrum.Window == "" {
		return 0, false, nil
	}
	t, err := window.Parse(c.Spectrum.Window)
	return t, err == nil, err
}

// CSVOptions returns the input table options.
func (c *Config) CSVOptions() (series.CSVOptions, error) {
	opts := series.DefaultCSVOptions()
	in := c.Input
	if in.TimeColumn != "" {
		opts.TimeColumn = in.TimeColumn
	}
	if in.FlowColumn != "" {
		opts.FlowColumn = in.FlowColumn
	}
	if in.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(in.Delimiter)
		if size != len(in.Delimiter) {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", in.Delimiter)
		}
		opts.Delimiter = r
	}
	opts.HasHeader = !in.NoHeader
	opts.SkipRows = in.SkipRows
	return opts, nil
}

// PlotStyle returns the style map of the named plot merged over the
// top-level scalar options (dpi, ...). The boolean reports whether the plot
// has its own entry.
func (c *Config) PlotStyle(name string) (map[string]any, bool) {
	own, ok := c.PlotParameters[name].(map[string]any)
	if !ok {
		return nil, false
	}
	style := make(map[string]any, len(own))
	for k, v := range c.PlotParameters {
		if _, nested := v.(map[string]any); !nested {
			style[k] = v
		}
	}
	for k, v := range own {
		style[k] = v
	}
	return style, true
}
