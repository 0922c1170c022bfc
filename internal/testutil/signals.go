package testutil

import (
	"math"
	"math/rand"
)

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Gaussian evaluates height*exp(-(x-center)^2 / (2*width^2)) at every x.
func Gaussian(x []float64, center, height, width float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		d := v - center
		out[i] = height * math.Exp(-d*d/(2*width*width))
	}
	return out
}

// QuadraticBaseline is a gently curved baseline a + b*(x-x0)^2.
func QuadraticBaseline(a, b, x0 float64) func(float64) float64 {
	return func(x float64) float64 {
		d := x - x0
		return a + b*d*d
	}
}

// LinearBaseline is the baseline a + slope*(x-x0).
func LinearBaseline(a, slope, x0 float64) func(float64) float64 {
	return func(x float64) float64 {
		return a + slope*(x-x0)
	}
}

// WaterSpectrum builds a synthetic FTIR-like spectrum: baseline plus a Gaussian
// absorption peak.
func WaterSpectrum(x []float64, baseline func(float64) float64, center, height, width float64) []float64 {
	y := Gaussian(x, center, height, width)
	for i, v := range x {
		y[i] += baseline(v)
	}
	return y
}

// Ramp returns a strictly increasing signal over x.
func Ramp(x []float64, offset, slope float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = offset + slope*v
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Reverse returns a reversed copy of v.
func Reverse(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}
