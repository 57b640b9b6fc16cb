// Package fourier approximates a flow series by truncated Fourier sums fitted
// independently over contiguous partitions.
//
// For a partition with m samples spanning L = max(x) - min(x), coefficients
// are estimated by rectangle-rule quadrature with Δx = L/m:
//
//	c0 = (1/L) Σ y·Δx
//	ck = (2/L) Σ y·cos(2πk(x - xmin)/L)·Δx
//	sk = (2/L) Σ y·sin(2πk(x - xmin)/L)·Δx
//
// c0 is the partition mean and s0 is always zero. Reconstruction evaluates
// Σ ck·cos(...) + sk·sin(...) at every original time point, so the
// approximated series has the same row count and time values as the input.
//
// [Analyze] performs the whole computation once. The returned [Result]
// exposes the reconstruction, the harmonic-major (transposed) coefficient
// matrices and the derived statistics:
//
//	res, err := fourier.Analyze(s, fourier.Config{Intervals: 10, Harmonics: 8})
//	approx := res.Approximate()
//	sigma := res.PooledStd()
//	smooth := res.MeanApproximate()
package fourier
