package series

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewValidates(t *testing.T) {
	if _, err := New([]float64{0, 1}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := New([]float64{0, 2, 1}, []float64{1, 2, 3}); !errors.Is(err, ErrNonMonotonicTime) {
		t.Fatalf("expected ErrNonMonotonicTime, got %v", err)
	}

	time := []float64{0, 1, 2}
	s, err := New(time, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	time[0] = 42
	if s.Time[0] != 0 {
		t.Fatalf("New must copy its input, got Time[0]=%f", s.Time[0])
	}
}

func TestStatistics(t *testing.T) {
	s := MustNew([]float64{0, 1, 2, 3}, []float64{1, 3, 1, 3})

	mean, err := s.Mean()
	if err != nil || mean != 2 {
		t.Fatalf("Mean=%f err=%v want=2", mean, err)
	}

	std, err := s.Std()
	want := math.Sqrt(4.0 / 3.0)
	if err != nil || math.Abs(std-want) > 1e-12 {
		t.Fatalf("Std=%f err=%v want=%f", std, err, want)
	}

	pop, err := s.PopStd()
	if err != nil || math.Abs(pop-1) > 1e-12 {
		t.Fatalf("PopStd=%f err=%v want=1", pop, err)
	}

	span, err := s.Span()
	if err != nil || span != 3 {
		t.Fatalf("Span=%f err=%v want=3", span, err)
	}

	step, err := s.Step()
	if err != nil || step != 1 {
		t.Fatalf("Step=%f err=%v want=1", step, err)
	}
}

func TestStatisticsFailFast(t *testing.T) {
	empty := &Series{}
	if _, err := empty.Mean(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Mean on empty: expected ErrEmpty, got %v", err)
	}
	if _, err := empty.Std(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Std on empty: expected ErrEmpty, got %v", err)
	}

	one := MustNew([]float64{0}, []float64{5})
	if _, err := one.Std(); !errors.Is(err, ErrTooShort) {
		t.Fatalf("Std on one sample: expected ErrTooShort, got %v", err)
	}
	if _, err := one.Span(); !errors.Is(err, ErrZeroSpan) {
		t.Fatalf("Span on one sample: expected ErrZeroSpan, got %v", err)
	}
}

func TestSplitCoversSeries(t *testing.T) {
	tests := []struct {
		n, p      int
		wantSizes []int
	}{
		{n: 12, p: 4, wantSizes: []int{3, 3, 3, 3}},
		{n: 10, p: 3, wantSizes: []int{3, 3, 4}},
		{n: 5, p: 5, wantSizes: []int{1, 1, 1, 1, 1}},
		{n: 7, p: 1, wantSizes: []int{7}},
	}

	for _, tc := range tests {
		flow := make([]float64, tc.n)
		for i := range flow {
			flow[i] = float64(i * i)
		}
		s := Uniform(0, 0.5, flow)

		parts, err := Split(s, tc.p)
		if err != nil {
			t.Fatalf("Split(%d,%d) error: %v", tc.n, tc.p, err)
		}
		if len(parts) != tc.p {
			t.Fatalf("Split(%d,%d) parts=%d", tc.n, tc.p, len(parts))
		}
		for i, part := range parts {
			if part.Len() != tc.wantSizes[i] {
				t.Fatalf("Split(%d,%d) part %d size=%d want=%d", tc.n, tc.p, i, part.Len(), tc.wantSizes[i])
			}
		}

		joined := Concat(parts)
		if joined.Len() != s.Len() {
			t.Fatalf("Concat length=%d want=%d", joined.Len(), s.Len())
		}
		for i := range s.Time {
			if joined.Time[i] != s.Time[i] || joined.Flow[i] != s.Flow[i] {
				t.Fatalf("sample %d differs after split/concat", i)
			}
		}
	}
}

func TestSplitInvalid(t *testing.T) {
	s := Uniform(0, 1, []float64{1, 2, 3})
	for _, p := range []int{0, -1, 4} {
		if _, err := Split(s, p); !errors.Is(err, ErrInvalidPartition) {
			t.Fatalf("Split p=%d: expected ErrInvalidPartition, got %v", p, err)
		}
	}
	if _, err := Split(&Series{}, 1); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Split empty: expected ErrEmpty, got %v", err)
	}
}

func TestWithFlowSharesTime(t *testing.T) {
	s := Uniform(0, 1, []float64{1, 2, 3})
	w, err := s.WithFlow([]float64{9, 9, 9})
	if err != nil {
		t.Fatalf("WithFlow error: %v", err)
	}
	if &w.Time[0] != &s.Time[0] {
		t.Fatal("WithFlow must share the time column")
	}
	if s.Flow[0] != 1 {
		t.Fatal("WithFlow must not touch the source flow column")
	}
	if _, err := s.WithFlow([]float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	in := `flow,time,label
1.5,0,a
NA,1,b
2.5,2,c
3.5,3,d`

	s, err := ReadCSV(strings.NewReader(in), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 rows (NA skipped), got %d", s.Len())
	}
	if s.Time[1] != 2 || s.Flow[1] != 2.5 {
		t.Fatalf("unexpected row 1: time=%f flow=%f", s.Time[1], s.Flow[1])
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	back, err := ReadCSV(&buf, DefaultCSVOptions())
	if err != nil {
		t.Fatalf("ReadCSV of written table error: %v", err)
	}
	for i := range s.Flow {
		if back.Time[i] != s.Time[i] || back.Flow[i] != s.Flow[i] {
			t.Fatalf("row %d changed after write/read", i)
		}
	}
}

func TestCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("t,y\n0,1\n"), DefaultCSVOptions())
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestCSVWithoutHeader(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.HasHeader = false
	opts.Delimiter = ';'

	s, err := ReadCSV(strings.NewReader("0;10\n1;20\n"), opts)
	if err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if s.Len() != 2 || s.Flow[1] != 20 {
		t.Fatalf("unexpected series: %+v", s)
	}
}
