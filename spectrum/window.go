package spectrum

import "fmt"

// Window selects samples with Left < x <= Right.
type Window struct {
	Left  float64
	Right float64
}

// Contains reports whether x lies inside the window.
func (w Window) Contains(x float64) bool {
	return x > w.Left && x <= w.Right
}

// Width returns Right - Left.
func (w Window) Width() float64 { return w.Right - w.Left }

// Validate reports an error for empty or inverted windows.
func (w Window) Validate() error {
	if !(w.Left < w.Right) {
		return fmt.Errorf("spectrum: window left %g must be below right %g", w.Left, w.Right)
	}
	return nil
}

func (w Window) String() string {
	return fmt.Sprintf("(%g, %g]", w.Left, w.Right)
}

// Cropped is the part of a spectrum inside a window.
// Index[i] is the position of sample i in the untrimmed spectrum.
type Cropped struct {
	Window Window
	X      []float64
	Y      []float64
	Index  []int
}

// Len returns the number of cropped samples.
func (c Cropped) Len() int { return len(c.X) }

// Empty reports whether no sample fell inside the window.
func (c Cropped) Empty() bool { return len(c.X) == 0 }

// ArgMax returns the index of the first maximum of Y, or -1 when empty.
func (c Cropped) ArgMax() int {
	if len(c.Y) == 0 {
		return -1
	}
	return argMax(c.Y)
}

// ArgMinRange returns the index of the first minimum of Y within [from, to),
// or -1 if the range is empty.
func (c Cropped) ArgMinRange(from, to int) int {
	return argMinRange(c.Y, from, to)
}

// Subtract returns Y - f(X) for the cropped samples.
func (c Cropped) Subtract(f func(float64) float64) []float64 {
	return subtract(c.X, c.Y, f)
}
