// Package waterpeak measures the height of the water absorption band of an
// FTIR spectrum above a fitted polynomial background.
//
// The measurement runs in five steps:
//
//   - Region selection: crop the spectrum to the standard window (2200, 4000].
//   - Peak location: the absorbance maximum in the window and the minima on
//     either side of it.
//   - Window refinement: move the crop bounds until each minimum sits
//     TargetOffset wavenumbers inside its bound, within Tolerance.
//   - Background fit: a least-squares cubic through the samples outside the
//     two minima.
//   - Height: observed absorbance at the peak minus the background there.
//
// If refinement settles on a left minimum below MinLeftBound the fit is
// retried once with a coarse linear background removed before the minima
// are searched again. A second failure yields [ErrFittingPointsNotFound].
//
// [Classify] is a separate heuristic that labels spectra as well behaved or
// low in water.
//
// # Usage
//
//	res, err := waterpeak.Fit(s)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("peak height %.4f at %.1f cm-1\n", res.Peak.Height, res.Peak.Wavenumber)
package waterpeak
