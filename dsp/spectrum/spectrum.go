package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// parts splits bins into real and imaginary columns sharing one allocation.
func parts(bins []complex128) (re, im []float64) {
	buf := make([]float64, 2*len(bins))
	re, im = buf[:len(bins)], buf[len(bins):]
	for k, c := range bins {
		re[k], im[k] = real(c), imag(c)
	}
	return re, im
}

// Magnitude returns |X[k]| for every bin.
func Magnitude(bins []complex128) []float64 {
	if len(bins) == 0 {
		return nil
	}
	out := make([]float64, len(bins))
	re, im := parts(bins)
	vecmath.Magnitude(out, re, im)
	return out
}

// MagnitudeFromParts writes sqrt(re[k]^2 + im[k]^2) into dst. All three
// slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Power returns |X[k]|^2 for every bin.
func Power(bins []complex128) []float64 {
	if len(bins) == 0 {
		return nil
	}
	out := make([]float64, len(bins))
	re, im := parts(bins)
	vecmath.Power(out, re, im)
	return out
}

// PowerToDB converts power values to 10·log10(p). Non-positive values map
// to -Inf.
func PowerToDB(power []float64) []float64 {
	out := make([]float64, len(power))
	for k, p := range power {
		if p <= 0 {
			out[k] = math.Inf(-1)
			continue
		}
		out[k] = 10 * math.Log10(p)
	}
	return out
}
