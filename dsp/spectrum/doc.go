// Package spectrum provides bin helpers and a windowed periodogram.
//
// Magnitude and power helpers take complex bins; MagnitudeFromParts also fits
// the cosine/sine coefficient pairs of a Fourier series. [Periodogram] runs
// an FFT (github.com/MeKo-Christian/algo-fft, any block length) over a
// mean-removed, windowed sample block and returns single-sided amplitude and
// power density estimates on a physical frequency axis.
package spectrum
