package waterpeak

import (
	"fmt"

	"github.com/cwbudde/avoplot/dsp/poly"
	"github.com/cwbudde/avoplot/spectrum"
)

// FitBackground fits the background polynomial to the fitting points.
// Errors from the least-squares fit, such as poly.ErrInsufficientSamples,
// are wrapped unchanged.
func FitBackground(x, y []float64, degree int) (*poly.Polynomial, error) {
	p, err := poly.Fit(x, y, degree)
	if err != nil {
		return nil, fmt.Errorf("waterpeak: background fit: %w", err)
	}
	return p, nil
}

// GlobalBackground estimates a coarse linear background for c: the line from
// the first rising sample after the peak to the last sample. A falling line,
// or a tail that never rises, gives the zero background.
func GlobalBackground(c spectrum.Cropped) *poly.Polynomial {
	if c.Len() < 2 {
		return poly.Zero()
	}

	peak := c.ArgMax()
	grad := poly.Gradient(c.Y[peak:])
	first := -1
	for i, g := range grad {
		if g > 0 {
			first = peak + i
			break
		}
	}
	if first < 0 {
		return poly.Zero()
	}

	last := c.Len() - 1
	line, err := poly.Line(c.X[first], c.Y[first], c.X[last], c.Y[last])
	if err != nil || line.Slope(c.X[first]) < 0 {
		return poly.Zero()
	}
	return line
}
