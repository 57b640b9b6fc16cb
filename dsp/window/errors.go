package window

import "errors"

// Errors returned by window helpers.
var (
	ErrUnknownType      = errors.New("window: unknown window type")
	ErrEmptyCoeffs      = errors.New("window: coefficients must not be empty")
	ErrZeroCoherentGain = errors.New("window: coherent gain is zero")
	ErrMismatchedLength = errors.New("window: samples and coefficients must have same length")
)
