package density

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestHistogramSmall(t *testing.T) {
	h, err := Histogram([]float64{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatalf("Histogram error: %v", err)
	}

	width := (4.004 - 0.999) / 2
	if !almostEqual(h.Width, width, 1e-12) {
		t.Fatalf("width=%f want=%f", h.Width, width)
	}
	if h.Counts[0] != 2 || h.Counts[1] != 2 {
		t.Fatalf("counts=%v want=[2 2]", h.Counts)
	}
	want := 2 / (width * 4)
	for i, d := range h.Density {
		if !almostEqual(d, want, 1e-12) {
			t.Fatalf("density[%d]=%f want=%f", i, d, want)
		}
	}
	if !almostEqual(h.Edges[0], 0.999, 1e-12) || !almostEqual(h.Edges[2], 4.004, 1e-12) {
		t.Fatalf("edges=%v", h.Edges)
	}
}

func TestHistogramNormalization(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := make([]float64, 5000)
	for i := range values {
		values[i] = rng.NormFloat64()*3 - 1
	}

	for _, intervals := range []int{1, 7, 50, 200} {
		h, err := Histogram(values, intervals)
		if err != nil {
			t.Fatalf("intervals=%d: %v", intervals, err)
		}
		var total float64
		counted := 0
		for i, d := range h.Density {
			total += d * h.Width
			counted += h.Counts[i]
		}
		if !almostEqual(total, 1, 1e-9) {
			t.Fatalf("intervals=%d: Σ density·width=%f want=1", intervals, total)
		}
		if counted != len(values) {
			t.Fatalf("intervals=%d: counted %d of %d values", intervals, counted, len(values))
		}
	}
}

func TestHistogramNegativeExtremes(t *testing.T) {
	h, err := Histogram([]float64{-2, -1.5, -1}, 4)
	if err != nil {
		t.Fatalf("Histogram error: %v", err)
	}
	if !(h.Edges[0] < -2) || !(h.Edges[4] > -1) {
		t.Fatalf("extremes not inside range: %v", h.Edges)
	}
	if h.Counts[0] != 1 || h.Counts[3] != 1 {
		t.Fatalf("counts=%v", h.Counts)
	}
}

func TestHistogramErrors(t *testing.T) {
	if _, err := Histogram(nil, 5); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Histogram([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidIntervals) {
		t.Fatalf("expected ErrInvalidIntervals, got %v", err)
	}
	if _, err := Histogram([]float64{0, 0, 0}, 3); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("expected ErrDegenerate, got %v", err)
	}
	if _, err := Histogram([]float64{5, 5}, 3); err != nil {
		t.Fatalf("constant non-zero values should be padded, got %v", err)
	}
}

func TestProbability(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	h, err := Histogram(values, 10)
	if err != nil {
		t.Fatalf("Histogram error: %v", err)
	}

	prob := Probability(h)
	prev := 0.0
	for i, p := range prob {
		if p < prev {
			t.Fatalf("probability decreases at %d: %f < %f", i, p, prev)
		}
		if !almostEqual(p, float64(i+1)/10, 1e-9) {
			t.Fatalf("prob[%d]=%f want=%f", i, p, float64(i+1)/10)
		}
		prev = p
	}

	v, err := CriticalValue(h, 0.55)
	if err != nil {
		t.Fatalf("CriticalValue error: %v", err)
	}
	if !almostEqual(v, h.Centers[5], 1e-12) {
		t.Fatalf("critical value=%f want=%f", v, h.Centers[5])
	}

	v, err = CriticalValue(h, 1)
	if err != nil {
		t.Fatalf("CriticalValue(1) error: %v", err)
	}
	if v != h.Centers[9] {
		t.Fatalf("critical value at 1=%f want last center %f", v, h.Centers[9])
	}

	if _, err := CriticalValue(h, 0); !errors.Is(err, ErrInvalidProbability) {
		t.Fatalf("expected ErrInvalidProbability, got %v", err)
	}
}

func TestReferenceDensities(t *testing.T) {
	if got, want := NormalPDF(0, 0, 1), 1/math.Sqrt(2*math.Pi); !almostEqual(got, want, 1e-12) {
		t.Fatalf("NormalPDF(0)=%f want=%f", got, want)
	}
	if got, want := NormalPDF(3, 1, 2), math.Exp(-0.5)/(2*math.Sqrt(2*math.Pi)); !almostEqual(got, want, 1e-12) {
		t.Fatalf("NormalPDF(3;1,2)=%f want=%f", got, want)
	}

	tests := []struct {
		x, mean, lower, want float64
	}{
		{0, 0, -2, 0.25},
		{2, 0, -2, 0.25},
		{2.1, 0, -2, 0},
		{-3, 0, -2, 0},
		{1, 1, 1, 0},
	}
	for _, tc := range tests {
		if got := UniformPDF(tc.x, tc.mean, tc.lower); got != tc.want {
			t.Fatalf("UniformPDF(%v, %v, %v)=%v want=%v", tc.x, tc.mean, tc.lower, got, tc.want)
		}
	}

	got := Evaluate([]float64{-1, 0, 1}, func(x float64) float64 { return UniformPDF(x, 0, -1) })
	for i, v := range got {
		if v != 0.5 {
			t.Fatalf("Evaluate[%d]=%v want=0.5", i, v)
		}
	}
}
