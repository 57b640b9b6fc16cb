package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestAlmostEqual(t *testing.T) {
	if !AlmostEqual(1, 1+1e-12, 1e-10) {
		t.Fatal("expected values within tolerance to be equal")
	}
	if AlmostEqual(1, 1.1, 1e-3) {
		t.Fatal("expected values outside tolerance to differ")
	}
	if !AlmostEqual(math.Inf(-1), math.Inf(-1), 0) {
		t.Fatal("expected matching infinities to be equal")
	}
	if !AlmostEqual(math.NaN(), math.NaN(), 0) {
		t.Fatal("expected NaNs to be treated as equal")
	}
}
