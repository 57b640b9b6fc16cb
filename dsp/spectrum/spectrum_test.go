package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-flow/dsp/window"
)

func TestMagnitudePower(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}
	if math.Abs(mag[0]-5) > 1e-12 || math.Abs(mag[1]-math.Sqrt2) > 1e-12 || mag[2] != 0 {
		t.Fatalf("Magnitude=%v", mag)
	}

	pow := Power(bins)
	if math.Abs(pow[0]-25) > 1e-12 || math.Abs(pow[1]-2) > 1e-12 {
		t.Fatalf("Power=%v", pow)
	}

	if Magnitude(nil) != nil || Power(nil) != nil {
		t.Fatal("empty input should yield nil")
	}
}

func TestMagnitudeFromParts(t *testing.T) {
	re := []float64{3, 0, -2}
	im := []float64{4, 1, 0}

	mag := make([]float64, 3)
	MagnitudeFromParts(mag, re, im)

	want := []float64{5, 1, 2}
	for i := range want {
		if math.Abs(mag[i]-want[i]) > 1e-12 {
			t.Fatalf("mag[%d]=%f want=%f", i, mag[i], want[i])
		}
	}
}

func TestPowerToDB(t *testing.T) {
	db := PowerToDB([]float64{1, 100, 0})
	if db[0] != 0 || math.Abs(db[1]-20) > 1e-12 || !math.IsInf(db[2], -1) {
		t.Fatalf("PowerToDB=%v", db)
	}
}

func TestPeriodogramSinePeak(t *testing.T) {
	const (
		n        = 1000
		interval = 0.5
		freq     = 0.2 // 100 cycles over n·interval
		amp      = 3.0
	)
	x := make([]float64, n)
	for i := range x {
		x[i] = 7 + amp*math.Sin(2*math.Pi*freq*float64(i)*interval)
	}

	for _, typ := range []window.Type{window.TypeHann, window.TypeRectangular, window.TypeHamming} {
		t.Run(typ.String(), func(t *testing.T) {
			p, err := Periodogram(x, interval, WithWindow(typ))
			if err != nil {
				t.Fatalf("Periodogram error: %v", err)
			}
			if len(p.Frequency) != n/2+1 {
				t.Fatalf("bins=%d want=%d", len(p.Frequency), n/2+1)
			}
			if math.Abs(p.Frequency[len(p.Frequency)-1]-1/(2*interval)) > 1e-12 {
				t.Fatalf("nyquist=%f want=%f", p.Frequency[len(p.Frequency)-1], 1/(2*interval))
			}

			f, a := p.Peak()
			if math.Abs(f-freq) > 1e-12 {
				t.Fatalf("peak frequency=%f want=%f", f, freq)
			}
			if math.Abs(a-amp) > 1e-6 {
				t.Fatalf("peak amplitude=%f want=%f", a, amp)
			}
			if p.Amplitude[0] > 1e-9 {
				t.Fatalf("DC amplitude=%g after mean removal", p.Amplitude[0])
			}
		})
	}
}

func TestPeriodogramParseval(t *testing.T) {
	// With a rectangular window the integrated density equals the variance.
	x := []float64{1, -2, 3, 0.5, -1, 2, -0.25, 1.5}
	interval := 0.25

	p, err := Periodogram(x, interval, WithWindow(window.TypeRectangular))
	if err != nil {
		t.Fatalf("Periodogram error: %v", err)
	}

	var mean, variance float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	for _, v := range x {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(x))

	df := 1 / (float64(len(x)) * interval)
	var total float64
	for _, d := range p.Density {
		total += d * df
	}
	if math.Abs(total-variance) > 1e-9 {
		t.Fatalf("∫PSD=%f want variance %f", total, variance)
	}
}

func TestPeriodogramOddLength(t *testing.T) {
	// 45 samples, 5 cycles: the peak sits on bin 5 and there is no Nyquist bin.
	const n = 45
	x := make([]float64, n)
	for i := range x {
		x[i] = 2 * math.Cos(2*math.Pi*5*float64(i)/n)
	}

	p, err := Periodogram(x, 1, WithWindow(window.TypeRectangular))
	if err != nil {
		t.Fatalf("Periodogram error: %v", err)
	}
	if len(p.Frequency) != n/2+1 {
		t.Fatalf("bins=%d want=%d", len(p.Frequency), n/2+1)
	}
	f, a := p.Peak()
	if math.Abs(f-5.0/n) > 1e-12 || math.Abs(a-2) > 1e-9 {
		t.Fatalf("peak=(%f, %f) want=(%f, 2)", f, a, 5.0/n)
	}

	db := p.DensityDB()
	peakDB := 10 * math.Log10(p.Density[5])
	if math.Abs(db[5]-peakDB) > 1e-12 {
		t.Fatalf("DensityDB[5]=%f want=%f", db[5], peakDB)
	}
	for k, v := range db {
		if math.IsInf(v, 0) || v < MinDB {
			t.Fatalf("DensityDB[%d]=%f below floor", k, v)
		}
	}
}

func TestPeriodogramErrors(t *testing.T) {
	if _, err := Periodogram([]float64{1}, 1); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if _, err := Periodogram([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}
