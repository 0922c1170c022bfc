// Package spectrum holds the immutable two-column spectrum model used by the
// fitting and plotting packages.
//
// A [Spectrum] pairs an independent variable (wavenumber) with a dependent
// variable (absorbance). Samples keep their file order; nothing here sorts
// them. Cropping to a [Window] selects the samples with Left < x <= Right and
// records where each one came from, so results computed on a crop can be
// mapped back onto the untrimmed data.
//
// # Usage
//
//	s, err := spectrum.New(wavenumber, absorbance)
//	c := s.Crop(spectrum.Window{Left: 2200, Right: 4000})
//	peak := c.ArgMax()
//	global := c.Index[peak]
package spectrum
