package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Gaussian returns a unit-sum Gaussian kernel with the given standard
// deviation in samples. The kernel spans +-4 sigma.
func Gaussian(sigma float64) ([]float64, error) {
	if !(sigma > 0) {
		return nil, fmt.Errorf("smooth: gaussian sigma must be > 0: %f", sigma)
	}

	half := int(math.Ceil(4 * sigma))
	k := make([]float64, 2*half+1)
	var sum float64
	for i := range k {
		d := float64(i - half)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}

	out := make([]float64, len(k))
	vecmath.ScaleBlock(out, k, 1/sum)
	return out, nil
}

// Boxcar returns a unit-sum moving-average kernel of odd width.
func Boxcar(width int) ([]float64, error) {
	if width <= 0 || width%2 == 0 {
		return nil, fmt.Errorf("smooth: boxcar width must be odd and > 0: %d", width)
	}
	k := make([]float64, width)
	for i := range k {
		k[i] = 1 / float64(width)
	}
	return k, nil
}

// Smooth convolves y with a Gaussian kernel and renormalises the edges so a
// constant signal stays constant. sigma <= 0 returns a copy of y.
func Smooth(y []float64, sigma float64) ([]float64, error) {
	if len(y) == 0 {
		return nil, ErrEmptyInput
	}
	if sigma <= 0 {
		return append([]float64(nil), y...), nil
	}

	k, err := Gaussian(sigma)
	if err != nil {
		return nil, err
	}
	return WithKernel(y, k)
}

// WithKernel convolves y with a unit-sum kernel, renormalising the edges.
func WithKernel(y, kernel []float64) ([]float64, error) {
	out, err := Convolve(y, kernel, ModeSame)
	if err != nil {
		return nil, err
	}

	ones := make([]float64, len(y))
	for i := range ones {
		ones[i] = 1
	}
	weight, err := Convolve(ones, kernel, ModeSame)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if weight[i] != 0 {
			out[i] /= weight[i]
		}
	}
	return out, nil
}

// Preprocessor returns a series preprocessing step that smooths the
// dependent variable. Errors leave the data unchanged.
func Preprocessor(sigma float64) func(x, y []float64) ([]float64, []float64) {
	return func(x, y []float64) ([]float64, []float64) {
		if len(y) == 0 {
			return x, y
		}
		ys, err := Smooth(y, sigma)
		if err != nil {
			return x, y
		}
		return x, ys
	}
}
