// Package approx smooths a flow series with one of several strategies and
// derives the residual and plateau statistics of the result.
//
// # Strategies
//
//   - [None] returns a copy of the input.
//   - [StochasticTelegraphWave] replaces every sample by mean±std depending on
//     which side of the global mean it lies.
//   - [StochasticTelegraphWaveFixedSeparatedInterval] cuts the time range into
//     equal-width bins and replaces every sample by its bin mean.
//   - [SpectrumWithMoreRealization] delegates to the partitioned Fourier
//     approximation in package fourier.
//
// # Derived artifacts
//
// [Approximate] always computes the error series approximate-original and
// the tau sequence, the time between consecutive value changes of the
// approximated flow. The tau sequence is only meaningful for step outputs;
// for a smooth approximation nearly every sample is a change point.
package approx
