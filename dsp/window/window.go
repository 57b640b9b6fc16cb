// Package window generates tapering windows applied to a series before
// spectral estimation.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window shape.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeWelch
	TypeTukey
	TypeKaiser
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeWelch:       "welch",
	TypeTukey:       "tukey",
	TypeKaiser:      "kaiser",
}

// Cosine-sum coefficients a0, a1, ... for w(x) = Σ a_k cos(2πkx).
var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Parse maps a window name (case-insensitive) to a Type. The empty string
// selects Hann.
func Parse(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return TypeHann, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: 0.5}
}

// WithAlpha sets the taper fraction for Tukey and beta for Kaiser.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic selects the periodic form (denominator N instead of N-1),
// which suits DFT framing.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length. A non-positive
// length yields nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic), cfg)
	}
	return out
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, fmt.Errorf("%w: samples=%d coeffs=%d", ErrMismatchedLength, len(samples), len(coeffs))
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)
	return out, nil
}

// CoherentGain returns Σw/N, the DC gain of the window.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, ErrEmptyCoeffs
	}
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs)), nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins, N·Σw²/(Σw)².
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, ErrEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0
	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}
	if sum == 0 {
		return 0, ErrZeroCoherentGain
	}
	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

func evalWindow(t Type, x float64, cfg config) float64 {
	x = math.Max(0, math.Min(1, x))

	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeWelch:
		d := x - 0.5
		return 1 - 4*d*d
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	case TypeKaiser:
		return kaiserAt(x, cfg.alpha)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}
	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}
	return float64(n) / den
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}
	if alpha >= 1 {
		return cosineFromCoeffs(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	term := math.Sqrt(math.Max(0, 1-r*r))
	return besselI0(beta*term) / besselI0(beta)
}

// besselI0 returns a polynomial approximation of the modified Bessel
// function I0.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y

		return 1.0 + y*(3.5156229+y*(3.0899424+y*(1.2067492+y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}

	y := 3.75 / ax

	return (math.Exp(ax) / math.Sqrt(ax)) *
		(0.39894228 + y*(0.01328592+y*(0.00225319+y*(-0.00157565+y*(0.00916281+y*(-0.02057706+y*(0.02635537+y*(-0.01647633+y*0.00392377))))))))
}
