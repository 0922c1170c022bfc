package spectrum

import "errors"

var (
	// ErrLengthMismatch is returned when the X and Y sequences differ in length.
	ErrLengthMismatch = errors.New("spectrum: x and y lengths differ")
	// ErrEmpty is returned for spectra without samples.
	ErrEmpty = errors.New("spectrum: no samples")
)
