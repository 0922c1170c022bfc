// Package render draws plot elements and water-peak fits with gonum/plot.
//
// Rendering never feeds back into the numerical result: a failed render is
// logged and reported, never turned into a failed fit.
//
// # Usage
//
//	r := render.New()
//	res, err := waterpeak.Fit(s, waterpeak.WithObserver(r.Observer(s, "fit.png")))
package render
