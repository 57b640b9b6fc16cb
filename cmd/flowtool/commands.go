package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-flow/config"
	"github.com/cwbudde/algo-flow/internal/progress"
	"github.com/cwbudde/algo-flow/pipeline"
	"github.com/cwbudde/algo-flow/report"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		runID  string
		outDir string
		xlsx   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the complete analysis and write all artifacts",
		Long: `Run every configured stage: dimensionless normalization, approximation,
correlation, density, descriptive statistics and periodogram.

Artifacts are written to <output.dir>/<run-id> as CSV files, plus an
artifacts.xlsx workbook when output.xlsx is set and a plots.json manifest
when plot_parameters are configured.

Example: flowtool run --config experiment.yaml --run-id baseline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}
			if xlsx {
				cfg.Output.XLSX = true
			}

			opts := []pipeline.Option{
				pipeline.WithLogger(g.logger(cmd.ErrOrStderr())),
				pipeline.WithProgress(progress.New(cmd.ErrOrStderr())),
			}
			if runID != "" {
				opts = append(opts, pipeline.WithRunID(runID))
			}

			res, err := pipeline.New(cfg, opts...).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run-id", "", "output subdirectory name (default random UUID)")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory, overrides output.dir")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "also write artifacts.xlsx")

	return cmd
}

func newDimlessCmd(g *globals) *cobra.Command {
	var (
		typ     string
		centred bool
	)

	cmd := &cobra.Command{
		Use:   "dimless",
		Short: "Write the dimensionless form of the input as CSV",
		Long: `Rescale flow by a characteristic value and map time onto the configured
interval. Types: MEAN_TIME_M1_1, STD_TIME_M1_1, CUSTOM_TIME_CUSTOM.

Example: flowtool dimless --input flow.csv --type MEAN_TIME_M1_1 > dimless.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if typ != "" {
				cfg.Dimensionless.Type = typ
			}
			if centred {
				cfg.Dimensionless.Centred = true
			}
			if cfg.Dimensionless.Type == "" {
				return fmt.Errorf("%w: no dimensionless_type configured", config.ErrInvalid)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			s, err := g.loadInput(cfg)
			if err != nil {
				return err
			}
			out, err := pipeline.New(cfg, pipeline.WithLogger(g.logger(cmd.ErrOrStderr()))).Normalize(s)
			if err != nil {
				return err
			}
			return report.WriteCSV(cmd.OutOrStdout(), report.FromSeries(pipeline.ArtifactDimensionless, out))
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "dimensionless type, overrides dimensionless_type")
	cmd.Flags().BoolVar(&centred, "centred", false, "remove the mean after rescaling")

	return cmd
}

func newApproximateCmd(g *globals) *cobra.Command {
	var (
		typ       string
		intervals int
		harmonics int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "approximate",
		Short: "Approximate the (normalized) input and write the chosen series as CSV",
		Long: `Run one approximation strategy on the input after optional normalization.
Types: NONE, STOCHASTIC_TELEGRAPH_WAVE,
STOCHASTIC_TELEGRAPH_WAVE_FIXED_SEPARATED_INTERVAL, SPECTRUM_WITH_MORE_REALIZATION.

--output selects approximation (default), error or tau.

Example: flowtool approximate -i flow.csv -t SPECTRUM_WITH_MORE_REALIZATION --intervals 10 --harmonics 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if typ != "" {
				cfg.Approximate.Type = typ
			}
			if cmd.Flags().Changed("intervals") {
				cfg.Approximate.Intervals = intervals
			}
			if cmd.Flags().Changed("harmonics") {
				cfg.Approximate.Harmonics = harmonics
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			s, err := g.loadInput(cfg)
			if err != nil {
				return err
			}
			logger := g.logger(cmd.ErrOrStderr())
			r := pipeline.New(cfg, pipeline.WithLogger(logger))
			if s, err = r.Normalize(s); err != nil {
				return err
			}
			res, err := r.Approximate(s)
			if err != nil {
				return err
			}
			logger.Info("approximation",
				"type", res.Type.String(),
				"mean", res.Mean,
				"std", res.Std,
				"error_mean", res.ErrorMean,
				"error_std", res.ErrorStd,
			)

			var tbl report.Table
			switch output {
			case "", pipeline.ArtifactApproximation:
				tbl = report.FromSeries(pipeline.ArtifactApproximation, res.Approximate)
			case pipeline.ArtifactError:
				tbl = report.FromSeries(pipeline.ArtifactError, res.Error)
			case pipeline.ArtifactTau:
				tbl = report.Table{Name: pipeline.ArtifactTau, Columns: []string{"tau"}}
				for _, v := range res.Tau {
					tbl.Rows = append(tbl.Rows, []float64{v})
				}
			default:
				return fmt.Errorf("unknown output %q (approximation, error, tau)", output)
			}
			return report.WriteCSV(cmd.OutOrStdout(), tbl)
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "approximate type, overrides approximate_type")
	cmd.Flags().IntVar(&intervals, "intervals", 0, "partition or bin count, overrides number_of_intervals")
	cmd.Flags().IntVar(&harmonics, "harmonics", 0, "harmonic count, overrides number_of_harmonics")
	cmd.Flags().StringVar(&output, "output", pipeline.ArtifactApproximation, "series to print: approximation, error or tau")

	return cmd
}

func newCorrelateCmd(g *globals) *cobra.Command {
	var (
		period int
		method string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Estimate the lag correlation function of the (normalized) input",
		Long: `Estimate the normalized lag correlation of the input on the lag grid
0, period·Δt, 2·period·Δt, ... and write tau,correlation as CSV. A progress
bar is drawn on stderr unless --quiet is given.

Example: flowtool correlate -i flow.csv --period 2 --method fft`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("period") {
				cfg.Correlation.Period = period
			}
			if method != "" {
				cfg.Correlation.Method = method
			}
			if cfg.Correlation.Period <= 0 {
				return fmt.Errorf("%w: period must be positive, got %d", config.ErrInvalid, cfg.Correlation.Period)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			s, err := g.loadInput(cfg)
			if err != nil {
				return err
			}
			opts := []pipeline.Option{pipeline.WithLogger(g.logger(cmd.ErrOrStderr()))}
			if !quiet {
				opts = append(opts, pipeline.WithProgress(progress.New(cmd.ErrOrStderr())))
			}
			r := pipeline.New(cfg, opts...)
			if s, err = r.Normalize(s); err != nil {
				return err
			}
			fn, err := r.Correlate(s, pipeline.ArtifactCorrelation)
			if err != nil {
				return err
			}
			tbl, err := report.FromColumns(pipeline.ArtifactCorrelation, []string{"tau", "correlation"}, fn.Tau, fn.Value)
			if err != nil {
				return err
			}
			return report.WriteCSV(cmd.OutOrStdout(), tbl)
		},
	}

	cmd.Flags().IntVarP(&period, "period", "p", 1, "lag step in samples, overrides correlation.period")
	cmd.Flags().StringVarP(&method, "method", "m", "", "direct or fft, overrides correlation.method")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")

	return cmd
}

func newDensityCmd(g *globals) *cobra.Command {
	var (
		intervals int
		critical  float64
	)

	cmd := &cobra.Command{
		Use:   "density",
		Short: "Histogram density of the (normalized) input flow",
		Long: `Count flow values into equal-width bins and write center, count, density,
cumulative probability and the moment-matched normal density as CSV. The
critical value, the bin center below which the configured probability lies,
is logged.

Example: flowtool density -i flow.csv --intervals 30 --critical 0.99`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("intervals") {
				cfg.Probability.Intervals = intervals
			}
			if cmd.Flags().Changed("critical") {
				cfg.Probability.CriticalValue = critical
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			s, err := g.loadInput(cfg)
			if err != nil {
				return err
			}
			logger := g.logger(cmd.ErrOrStderr())
			r := pipeline.New(cfg, pipeline.WithLogger(logger))
			if s, err = r.Normalize(s); err != nil {
				return err
			}
			h, cv, err := r.Probability(s.Flow)
			if err != nil {
				return err
			}
			logger.Info("density", "intervals", len(h.Density), "width", h.Width,
				"critical_prob", cfg.Probability.CriticalValue, "critical_value", cv)

			tbl, err := pipeline.DensityTable(pipeline.ArtifactDensity, h)
			if err != nil {
				return err
			}
			return report.WriteCSV(cmd.OutOrStdout(), tbl)
		},
	}

	cmd.Flags().IntVarP(&intervals, "intervals", "n", 50, "bin count, overrides number_density_intervals")
	cmd.Flags().Float64Var(&critical, "critical", 0.95, "critical probability, overrides critical_prob_value")

	return cmd
}
