package waterpeak

import (
	"github.com/cwbudde/avoplot/dsp/poly"
	"github.com/cwbudde/avoplot/spectrum"
)

// Location holds indices into a cropped spectrum.
type Location struct {
	Peak     int
	LeftMin  int
	RightMin int
	// LeftEmpty is set when no sample precedes the peak. LeftMin is then 0
	// and refinement stops.
	LeftEmpty bool
}

// Locate finds the absorbance maximum of c and the minima on either side.
// The left minimum is searched in [0, peak), on Y - bg(X) when bg is not nil;
// the right minimum in [peak, len).
func Locate(c spectrum.Cropped, bg *poly.Polynomial) (Location, error) {
	if c.Empty() {
		return Location{}, ErrEmptyWindow
	}

	loc := Location{Peak: c.ArgMax()}
	loc.RightMin = c.ArgMinRange(loc.Peak, c.Len())

	if loc.Peak == 0 {
		loc.LeftEmpty = true
		return loc, nil
	}

	if bg == nil {
		loc.LeftMin = c.ArgMinRange(0, loc.Peak)
		return loc, nil
	}

	left := spectrum.Cropped{X: c.X[:loc.Peak], Y: c.Y[:loc.Peak]}
	residual := spectrum.Cropped{Y: left.Subtract(bg.Eval)}
	loc.LeftMin = residual.ArgMinRange(0, loc.Peak)
	return loc, nil
}
