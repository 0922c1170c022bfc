package smooth

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput  = errors.New("smooth: empty input")
	ErrEmptyKernel = errors.New("smooth: empty kernel")
)

// Mode specifies the output mode for convolution.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the signal, centred.
	ModeSame
)

const directThreshold = 64

// Convolve performs linear convolution of signal with kernel, choosing the
// direct or FFT path by kernel length.
func Convolve(signal, kernel []float64, mode Mode) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	var (
		full []float64
		err  error
	)
	if len(kernel) <= directThreshold {
		full = Direct(signal, kernel)
	} else {
		full, err = FFT(signal, kernel)
		if err != nil {
			return nil, err
		}
	}

	if mode == ModeSame {
		start := (len(kernel) - 1) / 2
		return full[start : start+len(signal)], nil
	}
	return full, nil
}

// Direct performs time-domain linear convolution.
// The result has length len(a) + len(b) - 1.
func Direct(a, b []float64) []float64 {
	dst := make([]float64, len(a)+len(b)-1)
	temp := make([]float64, len(b))
	for i, v := range a {
		vecmath.ScaleBlock(temp, b, v)
		vecmath.AddBlockInPlace(dst[i:i+len(b)], temp)
	}
	return dst
}

// FFT performs linear convolution by multiplying zero-padded spectra.
func FFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	outLen := len(a) + len(b) - 1
	size := nextPowerOf2(outLen)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	fa := make([]complex128, size)
	fb := make([]complex128, size)
	for i, v := range a {
		fa[i] = complex(v, 0)
	}
	for i, v := range b {
		fb[i] = complex(v, 0)
	}

	if err := plan.Forward(fa, fa); err != nil {
		return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
	}
	if err := plan.Forward(fb, fb); err != nil {
		return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
	}
	for i := range fa {
		fa[i] *= fb[i]
	}
	if err := plan.Inverse(fa, fa); err != nil {
		return nil, fmt.Errorf("smooth: inverse FFT failed: %w", err)
	}

	out := make([]float64, outLen)
	for i := range out {
		out[i] = real(fa[i])
	}
	return out, nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
