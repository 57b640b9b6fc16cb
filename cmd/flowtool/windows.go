package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-flow/dsp/window"
)

type windowEntry struct {
	name     string
	typ      window.Type
	hasAlpha bool
	defAlpha float64
}

var registry = []windowEntry{
	{"rectangular", window.TypeRectangular, false, 0},
	{"hann", window.TypeHann, false, 0},
	{"hamming", window.TypeHamming, false, 0},
	{"blackman", window.TypeBlackman, false, 0},
	{"welch", window.TypeWelch, false, 0},
	{"tukey", window.TypeTukey, true, 0.5},
	{"kaiser", window.TypeKaiser, true, 8.6},
}

func newWindowsCmd() *cobra.Command {
	var (
		size     int
		alpha    float64
		list     bool
		periodic bool
	)

	cmd := &cobra.Command{
		Use:   "windows [window-name ...]",
		Short: "Print gain properties of the periodogram windows",
		Long: `Print coherent gain and equivalent noise bandwidth of the windows usable
as spectrum.window. Without arguments every window is shown.

Example: flowtool windows --size 4096 --alpha 8 kaiser`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				printList(cmd.OutOrStdout())
				return nil
			}

			names := args
			if len(names) == 0 {
				for _, e := range registry {
					names = append(names, e.name)
				}
			}
			if !cmd.Flags().Changed("alpha") {
				alpha = math.NaN()
			}

			entries, err := resolveEntries(names, alpha)
			if err != nil {
				return err
			}

			var opts []window.Option
			if periodic {
				opts = append(opts, window.WithPeriodic())
			}
			return printAnalysis(cmd.OutOrStdout(), entries, size, opts)
		},
	}

	cmd.Flags().IntVar(&size, "size", 1024, "window length in samples")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "alpha/beta parameter for parametric windows (kaiser, tukey)")
	cmd.Flags().BoolVar(&list, "list", false, "list available window names")
	cmd.Flags().BoolVar(&periodic, "periodic", false, "use periodic (FFT) form instead of symmetric")

	return cmd
}

func printList(w io.Writer) {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}

type resolvedEntry struct {
	windowEntry
	alphaOverride float64
}

func resolveEntries(names []string, alphaFlag float64) ([]resolvedEntry, error) {
	byName := make(map[string]windowEntry, len(registry))
	for _, e := range registry {
		byName[e.name] = e
	}

	var result []resolvedEntry
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		e, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (use --list to see available)", window.ErrUnknownType, name)
		}
		a := e.defAlpha
		if e.hasAlpha && !math.IsNaN(alphaFlag) {
			a = alphaFlag
		}
		result = append(result, resolvedEntry{e, a})
	}
	return result, nil
}

func printAnalysis(w io.Writer, entries []resolvedEntry, size int, baseOpts []window.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\n")

	for _, e := range entries {
		opts := append([]window.Option(nil), baseOpts...)
		if e.hasAlpha {
			opts = append(opts, window.WithAlpha(e.alphaOverride))
		}

		coeffs := window.Generate(e.typ, size, opts...)
		gain, err := window.CoherentGain(coeffs)
		if err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}

		label := e.name
		if e.hasAlpha {
			label = fmt.Sprintf("%s (a=%.2f)", e.name, e.alphaOverride)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\n", label, size, gain, enbw)
	}
	return tw.Flush()
}
