package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is an ordered pair of equal-length sample sequences.
// It is never mutated after construction.
type Spectrum struct {
	x []float64
	y []float64
}

// New copies x and y into a new Spectrum.
func New(x, y []float64) (*Spectrum, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, ErrEmpty
	}

	s := &Spectrum{
		x: make([]float64, len(x)),
		y: make([]float64, len(y)),
	}
	copy(s.x, x)
	copy(s.y, y)

	return s, nil
}

// Len returns the number of samples.
func (s *Spectrum) Len() int { return len(s.x) }

// X returns a copy of the independent variable.
func (s *Spectrum) X() []float64 { return append([]float64(nil), s.x...) }

// Y returns a copy of the dependent variable.
func (s *Spectrum) Y() []float64 { return append([]float64(nil), s.y...) }

// At returns sample i.
func (s *Spectrum) At(i int) (x, y float64) { return s.x[i], s.y[i] }

// Crop returns the samples that fall inside w, in their original order.
func (s *Spectrum) Crop(w Window) Cropped {
	c := Cropped{Window: w}
	for i, x := range s.x {
		if w.Contains(x) {
			c.X = append(c.X, x)
			c.Y = append(c.Y, s.y[i])
			c.Index = append(c.Index, i)
		}
	}
	return c
}

// ArgMin returns the index of the smallest Y value in [0, end).
// It returns -1 when the range is empty.
func (s *Spectrum) ArgMin(end int) int {
	if end > len(s.y) {
		end = len(s.y)
	}
	if end <= 0 {
		return -1
	}
	return floats.MinIdx(s.y[:end])
}

// Subtract returns Y - f(X) as a new slice.
func (s *Spectrum) Subtract(f func(float64) float64) []float64 {
	return subtract(s.x, s.y, f)
}

func subtract(x, y []float64, f func(float64) float64) []float64 {
	bg := make([]float64, len(x))
	for i, v := range x {
		bg[i] = f(v)
	}
	out := make([]float64, len(y))
	vecmath.ScaleBlock(out, bg, -1)
	vecmath.AddBlockInPlace(out, y)
	return out
}

// Ascending returns s ordered by increasing X. When s is stored descending a
// reversed copy is returned and reversed is true; index i of the copy then
// maps to Len()-1-i of s. Otherwise s itself is returned.
func (s *Spectrum) Ascending() (asc *Spectrum, reversed bool) {
	n := len(s.x)
	if n < 2 || s.x[0] <= s.x[n-1] {
		return s, false
	}
	asc = &Spectrum{x: make([]float64, n), y: make([]float64, n)}
	for i := range n {
		asc.x[i] = s.x[n-1-i]
		asc.y[i] = s.y[n-1-i]
	}
	return asc, true
}
