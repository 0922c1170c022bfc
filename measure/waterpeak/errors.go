package waterpeak

import "errors"

var (
	// ErrFittingPointsNotFound is returned when no valid peak window can be
	// found, even after the background-compensated retry.
	ErrFittingPointsNotFound = errors.New("waterpeak: fitting points not found")
	// ErrEmptyWindow is returned when a crop window contains no samples.
	ErrEmptyWindow = errors.New("waterpeak: no samples in window")
	// ErrNoConvergence is returned when refinement exceeds MaxIterations.
	ErrNoConvergence = errors.New("waterpeak: window refinement did not converge")
	// ErrNoPrecedingSamples is returned by Classify when nothing precedes the peak.
	ErrNoPrecedingSamples = errors.New("waterpeak: no samples precede the peak")

	errNilSpectrum = errors.New("waterpeak: nil spectrum")
)
