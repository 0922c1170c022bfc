package waterpeak

import (
	"fmt"

	"github.com/cwbudde/avoplot/dsp/poly"
	"github.com/cwbudde/avoplot/spectrum"
)

// Peak is a water-peak height measurement.
type Peak struct {
	// Index is the peak position in the spectrum as passed in.
	Index      int
	Wavenumber float64
	Absorbance float64
	Background float64
	Height     float64
}

// PeakHeight returns the absorbance at the maximum inside the configured
// window minus bg evaluated there.
func PeakHeight(s *spectrum.Spectrum, bg *poly.Polynomial, opts ...Option) (Peak, error) {
	if s == nil {
		return Peak{}, errNilSpectrum
	}
	cfg := ApplyOptions(opts...)
	return peakHeight(s, bg, cfg)
}

func peakHeight(s *spectrum.Spectrum, bg *poly.Polynomial, cfg Config) (Peak, error) {
	c := s.Crop(cfg.Window)
	if c.Empty() {
		return Peak{}, fmt.Errorf("%w %v", ErrEmptyWindow, cfg.Window)
	}
	if bg == nil {
		bg = poly.Zero()
	}

	idx := c.Index[c.ArgMax()]
	x, y := s.At(idx)
	b := bg.Eval(x)
	return Peak{
		Index:      idx,
		Wavenumber: x,
		Absorbance: y,
		Background: b,
		Height:     y - b,
	}, nil
}
