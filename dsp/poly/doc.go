// Package poly provides least-squares polynomial fitting and evaluation.
//
// Fits are computed on a normalized variable u = (x - Offset) / Scale that
// maps the sample range onto [-1, 1], which keeps the Vandermonde system well
// conditioned for wavenumber-sized inputs. [Polynomial.Eval] applies the same
// mapping, so callers always work in the original units.
//
// # Usage
//
//	p, err := poly.Fit(x, y, 3)
//	baseline := p.Eval(3500)
package poly
