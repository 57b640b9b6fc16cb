package approx

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-flow/flow/series"
	"github.com/cwbudde/algo-flow/internal/testutil"
)

func TestTelegraphWaveTwoLevels(t *testing.T) {
	s := testutil.NoisyFlow(11, 3, 2, 0.1, 200)
	mean, std, _ := s.MeanStd()

	a, err := TelegraphWave(s)
	if err != nil {
		t.Fatalf("TelegraphWave error: %v", err)
	}

	levels := map[float64]int{}
	for i, v := range a.Series.Flow {
		levels[v]++
		want := mean - std
		if s.Flow[i] > mean {
			want = mean + std
		}
		if v != want {
			t.Fatalf("index %d: got %v want %v", i, v, want)
		}
	}
	if len(levels) != 2 {
		t.Fatalf("distinct levels=%d want=2", len(levels))
	}
	testutil.RequireSliceNearlyEqual(t, a.Series.Time, s.Time, 0)

	gotMean, gotStd, _ := a.Series.MeanStd()
	if a.Mean != gotMean || a.Std != gotStd {
		t.Fatalf("reported mean/std %v/%v, series has %v/%v", a.Mean, a.Std, gotMean, gotStd)
	}
}

func TestTelegraphWaveAtMeanGoesLow(t *testing.T) {
	s := series.MustNew([]float64{0, 1, 2}, []float64{1, 2, 3})

	a, err := TelegraphWave(s)
	if err != nil {
		t.Fatalf("TelegraphWave error: %v", err)
	}
	// mean 2, sample std 1
	testutil.RequireSliceNearlyEqual(t, a.Series.Flow, []float64{1, 1, 3}, 1e-12)
}

func TestFixedIntervalTelegraphWave(t *testing.T) {
	s := series.MustNew(
		[]float64{0, 1, 2, 3, 4, 5, 6},
		[]float64{1, 2, 3, 10, 20, 6, 8},
	)

	// width 2: (-, 2] -> {0,1,2}, (2, 4] -> {3,4}, (4, 6] -> {5,6}
	a, err := FixedIntervalTelegraphWave(s, 3)
	if err != nil {
		t.Fatalf("FixedIntervalTelegraphWave error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, a.Series.Flow, []float64{2, 2, 2, 15, 15, 7, 7}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, a.Series.Time, s.Time, 0)

	if s.Flow[3] != 10 {
		t.Fatal("input flow was modified")
	}

	one, err := FixedIntervalTelegraphWave(s, 1)
	if err != nil {
		t.Fatalf("single bin error: %v", err)
	}
	mean, _ := s.Mean()
	for i, v := range one.Series.Flow {
		if !testutil.AlmostEqual(v, mean, 1e-12) {
			t.Fatalf("index %d: got %v want global mean %v", i, v, mean)
		}
	}
}

func TestFixedIntervalTelegraphWaveErrors(t *testing.T) {
	s := series.MustNew([]float64{0, 1}, []float64{1, 2})
	if _, err := FixedIntervalTelegraphWave(s, 0); !errors.Is(err, ErrInvalidBins) {
		t.Fatalf("expected ErrInvalidBins, got %v", err)
	}
	flat := series.MustNew([]float64{3, 3}, []float64{1, 2})
	if _, err := FixedIntervalTelegraphWave(flat, 2); !errors.Is(err, series.ErrZeroSpan) {
		t.Fatalf("expected ErrZeroSpan, got %v", err)
	}
}

func TestErrorSeries(t *testing.T) {
	original := testutil.NoisyFlow(5, 1, 1, 1, 50)
	approx := testutil.SineFlow(1, 0.5, 10, 1, 50)

	e, err := ErrorSeries(approx, original)
	if err != nil {
		t.Fatalf("ErrorSeries error: %v", err)
	}
	for i := range e.Flow {
		if e.Flow[i] != approx.Flow[i]-original.Flow[i] {
			t.Fatalf("index %d: error=%v want=%v", i, e.Flow[i], approx.Flow[i]-original.Flow[i])
		}
	}
	if &e.Time[0] != &approx.Time[0] {
		t.Fatal("error series should share the approximation time column")
	}

	if _, err := ErrorSeries(approx, original.Slice(0, 10)); !errors.Is(err, series.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestTauSequence(t *testing.T) {
	s := series.MustNew(
		[]float64{10, 11, 12, 13, 14, 15, 16},
		[]float64{1, 1, 2, 2, 2, 1, 1},
	)
	// change points at 12 and 15, anchored at 10
	testutil.RequireSliceNearlyEqual(t, TauSequence(s), []float64{2, 3}, 0)

	flat := series.MustNew([]float64{0, 1, 2}, []float64{5, 5, 5})
	if got := TauSequence(flat); len(got) != 0 {
		t.Fatalf("constant series tau=%v want empty", got)
	}

	steps := testutil.Steps([]float64{1, 2, 3, 4}, []int{2, 3, 1, 4})
	testutil.RequireSliceNearlyEqual(t, TauSequence(steps), []float64{2, 3, 1}, 0)
}

func TestApproximateStrategies(t *testing.T) {
	s := testutil.NoisyFlow(21, 2, 1, 0.5, 120)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"none", Config{Type: None}},
		{"telegraph", Config{Type: StochasticTelegraphWave}},
		{"fixed interval", Config{Type: StochasticTelegraphWaveFixedSeparatedInterval, Intervals: 12}},
		{"spectrum", Config{Type: SpectrumWithMoreRealization, Intervals: 6, Harmonics: 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Approximate(s, tc.cfg)
			if err != nil {
				t.Fatalf("Approximate error: %v", err)
			}
			if res.Approximate.Len() != s.Len() || res.Error.Len() != s.Len() {
				t.Fatalf("lengths approx=%d error=%d want=%d", res.Approximate.Len(), res.Error.Len(), s.Len())
			}
			for i := range s.Flow {
				if res.Error.Flow[i] != res.Approximate.Flow[i]-s.Flow[i] {
					t.Fatalf("index %d: error != approx - original", i)
				}
			}
			testutil.RequireFinite(t, res.Tau)
			if (res.Spectrum != nil) != (tc.cfg.Type == SpectrumWithMoreRealization) {
				t.Fatalf("spectrum presence mismatch for %v", tc.cfg.Type)
			}
		})
	}
}

func TestApproximateNoneHasZeroError(t *testing.T) {
	s := testutil.SineFlow(0, 1, 8, 1, 32)

	res, err := Approximate(s, Config{Type: None})
	if err != nil {
		t.Fatalf("Approximate error: %v", err)
	}
	if res.ErrorMean != 0 || res.ErrorStd != 0 {
		t.Fatalf("error mean/std=%v/%v want 0/0", res.ErrorMean, res.ErrorStd)
	}
	mean, std, _ := s.MeanStd()
	if res.Mean != mean || res.Std != std {
		t.Fatalf("mean/std=%v/%v want %v/%v", res.Mean, res.Std, mean, std)
	}
	if len(res.Tau) != s.Len()-1 {
		t.Fatalf("tau len=%d want %d", len(res.Tau), s.Len()-1)
	}
}

func TestApproximateSpectrumReportsPooledStats(t *testing.T) {
	s := testutil.Steps([]float64{1, 3}, []int{4, 4})

	res, err := Approximate(s, Config{Type: SpectrumWithMoreRealization, Intervals: 2, Harmonics: 1})
	if err != nil {
		t.Fatalf("Approximate error: %v", err)
	}
	if !testutil.AlmostEqual(res.Mean, 2, 1e-12) || !testutil.AlmostEqual(res.Std, math.Sqrt(0.5), 1e-12) {
		t.Fatalf("mean/std=%v/%v want 2/%v", res.Mean, res.Std, math.Sqrt(0.5))
	}
}

func TestApproximateErrors(t *testing.T) {
	s := testutil.SineFlow(0, 1, 8, 1, 32)

	if _, err := Approximate(s, Config{Type: Type(42)}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := Approximate(&series.Series{}, Config{Type: StochasticTelegraphWave}); !errors.Is(err, series.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := ParseType("SPLINE"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	for _, typ := range []Type{None, StochasticTelegraphWave, StochasticTelegraphWaveFixedSeparatedInterval, SpectrumWithMoreRealization} {
		if got, err := ParseType(typ.String()); err != nil || got != typ {
			t.Fatalf("ParseType(%q)=%v err=%v", typ.String(), got, err)
		}
	}
}
