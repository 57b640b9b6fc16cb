package corr

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// fftSums computes the linear autocorrelation sums of x as IFFT(|FFT(x)|²)
// with enough zero padding to rule out circular wrap-around, then picks
// every period-th lag.
func fftSums(x []float64, size, period int, o options) ([]float64, error) {
	n := len(x)
	fftSize := nextPowerOf2(2 * n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("corr: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range x {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("corr: forward FFT failed: %w", err)
	}
	for i, c := range freq {
		freq[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}

	acf := make([]complex128, fftSize)
	if err := plan.Inverse(acf, freq); err != nil {
		return nil, fmt.Errorf("corr: inverse FFT failed: %w", err)
	}

	sums := make([]float64, size)
	for v := range size {
		sums[v] = real(acf[v*period])
		if o.progress != nil {
			o.progress.Report(v, size, o.label)
		}
	}
	return sums, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
