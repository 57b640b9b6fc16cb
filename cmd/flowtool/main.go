// Command flowtool analyses flow time series.
//
// Usage:
//
//	flowtool [--config experiment.yaml] [--verbose] <command>
//
// The configuration path defaults to $FLOWTOOL_CONFIG; a .env file in the
// working directory is loaded first. Without any configuration the built-in
// defaults apply.
//
// Examples:
//
//	flowtool run --config experiment.yaml
//	flowtool dimless --input flow.csv --type STD_TIME_M1_1
//	flowtool approximate --input flow.csv --type SPECTRUM_WITH_MORE_REALIZATION
//	flowtool correlate --input flow.csv --period 2 --method fft
//	flowtool density --input flow.csv --intervals 30
//	flowtool windows --size 4096 hann kaiser
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-flow/config"
	"github.com/cwbudde/algo-flow/flow/series"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	input      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "flowtool",
		Short:         "Flow time series normalization, approximation and correlation analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "experiment YAML file (default $"+config.EnvPath+")")
	rootCmd.PersistentFlags().StringVarP(&g.input, "input", "i", "", "input CSV, overrides input.path")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(g),
		newDimlessCmd(g),
		newApproximateCmd(g),
		newCorrelateCmd(g),
		newDensityCmd(g),
		newWindowsCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration named by --config or $FLOWTOOL_CONFIG
// and applies the --input override.
func (g *globals) loadConfig() (*config.Config, error) {
	path := g.configPath
	if path == "" {
		path = os.Getenv(config.EnvPath)
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if g.input != "" {
		cfg.Input.Path = g.input
	}
	return cfg, nil
}

// loadInput reads the configured input series.
func (g *globals) loadInput(cfg *config.Config) (*series.Series, error) {
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("no input file: pass --input or set input.path")
	}
	opts, err := cfg.CSVOptions()
	if err != nil {
		return nil, err
	}
	return series.LoadCSV(cfg.Input.Path, opts)
}

func (g *globals) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
