package waterpeak

import (
	"fmt"

	"github.com/cwbudde/avoplot/dsp/poly"
	"github.com/cwbudde/avoplot/spectrum"
)

// Class is the coarse spectrum category reported by Classify.
type Class int

const (
	ClassUnknown Class = iota
	ClassWellBehaved
	ClassLowH2O
)

func (c Class) String() string {
	switch c {
	case ClassWellBehaved:
		return "Well behaved"
	case ClassLowH2O:
		return "Low H2O"
	default:
		return "Unknown"
	}
}

// Classify extrapolates a line fitted to the samples right of the peak's
// right minimum back to the lowest sample before the peak. A spectrum whose
// line passes below that sample is well behaved; otherwise it is low in
// water.
//
// The test is a heuristic and not validated against labelled spectra.
func Classify(s *spectrum.Spectrum, opts ...Option) (Class, error) {
	if s == nil {
		return ClassUnknown, errNilSpectrum
	}
	cfg := ApplyOptions(opts...)
	asc, _ := s.Ascending()

	c := asc.Crop(cfg.Window)
	if c.Empty() {
		return ClassUnknown, fmt.Errorf("%w %v", ErrEmptyWindow, cfg.Window)
	}
	peak := c.ArgMax()
	global := c.Index[peak]

	minIdx := asc.ArgMin(global)
	if minIdx < 0 {
		return ClassUnknown, ErrNoPrecedingSamples
	}
	rmin := c.ArgMinRange(peak, c.Len())

	line, err := poly.Fit(c.X[rmin:], c.Y[rmin:], 1)
	if err != nil {
		return ClassUnknown, fmt.Errorf("waterpeak: classify: %w", err)
	}

	x, y := asc.At(minIdx)
	if line.Eval(x) < y {
		return ClassWellBehaved, nil
	}
	return ClassLowH2O, nil
}
