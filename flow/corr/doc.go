// Package corr estimates the lag autocorrelation function of a flow series.
//
// The estimator removes the mean, normalizes by the sample variance and the
// total time span, and rescales each lag by n/(n-shift) to compensate for
// the shrinking overlap. Lags are taken every Period samples up to half the
// series length, which bounds the cost of the [Direct] method at
// O((n/period)·n). The [FFT] method evaluates the identical sums through a
// zero-padded power spectrum.
//
// Long runs can report progress through [WithProgress]; see
// internal/progress for a console implementation.
//
// [CutByTemplate] aligns a function to the lag grid of another one so that
// results computed with different periods can share an axis.
package corr
