// Package smooth provides convolution-based smoothing for spectra.
//
// Noisy spectra make the argmax/argmin searches of the water-peak fit jump
// between neighbouring samples. Smoothing the absorbance with a Gaussian
// kernel before plotting or fitting stabilises them.
//
// Convolution strategy:
//
//   - Direct: O(N*M) time-domain convolution for short kernels (<= 64 taps)
//   - FFT:    single-block FFT convolution for longer kernels
//
// # Usage
//
//	ys, err := smooth.Smooth(absorbance, 2.5) // sigma in samples
package smooth
