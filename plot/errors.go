package plot

import "errors"

var (
	// ErrUnknownElement is returned for IDs that are not (or no longer) in the tree.
	ErrUnknownElement = errors.New("plot: unknown element")
	// ErrIncompatibleSubplot is returned when a series is added to a subplot
	// of a kind it does not support.
	ErrIncompatibleSubplot = errors.New("plot: incompatible subplot")
	// ErrInvalidParent is returned when an element is attached below the
	// wrong kind of element.
	ErrInvalidParent = errors.New("plot: invalid parent")
	// ErrAlreadyAttached is returned when a series is added to a tree twice.
	ErrAlreadyAttached = errors.New("plot: series already attached")
	// ErrInvalidChoice is returned by control setters for values outside
	// the allowed set.
	ErrInvalidChoice = errors.New("plot: invalid choice")
	// ErrLengthMismatch is returned for series with unequal X and Y lengths.
	ErrLengthMismatch = errors.New("plot: x and y length mismatch")
)
