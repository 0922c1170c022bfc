package waterpeak

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/dsp/poly"
	"github.com/cwbudde/avoplot/spectrum"
)

// Points are the background training samples: everything in the final crop
// window left of the left minimum and from the right minimum onwards.
type Points struct {
	X []float64
	Y []float64

	// Window is the crop window refinement settled on.
	Window    spectrum.Window
	LeftMinX  float64
	RightMinX float64
	// Iterations counts refinement steps over all attempts.
	Iterations int
	// Compensated reports whether the global-background retry was needed.
	Compensated bool
}

// FittingPoints refines the crop window around the water peak and returns
// the samples to fit the background to.
func FittingPoints(s *spectrum.Spectrum, opts ...Option) (Points, error) {
	if s == nil {
		return Points{}, errNilSpectrum
	}
	cfg := ApplyOptions(opts...)
	asc, _ := s.Ascending()
	return fittingPoints(asc, cfg)
}

func fittingPoints(s *spectrum.Spectrum, cfg Config) (Points, error) {
	pts, c, err := refine(s, cfg, nil)
	if err != nil {
		return Points{}, err
	}
	if pts.LeftMinX >= cfg.MinLeftBound {
		return pts, nil
	}

	bg := GlobalBackground(c)
	cfg.Logger.Debug("left minimum out of range, retrying with global background",
		zap.Float64("left_min", pts.LeftMinX),
		zap.Float64("threshold", cfg.MinLeftBound),
		zap.Stringer("background", bg),
	)

	retry, _, err := refine(s, cfg, bg)
	if err != nil {
		return Points{}, err
	}
	retry.Iterations += pts.Iterations
	retry.Compensated = true
	if retry.LeftMinX < cfg.MinLeftBound {
		return Points{}, fmt.Errorf("%w: left minimum %g below %g after background compensation",
			ErrFittingPointsNotFound, retry.LeftMinX, cfg.MinLeftBound)
	}
	return retry, nil
}

// refine runs the window refinement loop once. The first location never
// uses bg; later ones search the left minimum on the residual Y - bg(X).
func refine(s *spectrum.Spectrum, cfg Config, bg *poly.Polynomial) (Points, spectrum.Cropped, error) {
	w := cfg.Window
	c := s.Crop(w)
	loc, err := Locate(c, nil)
	if err != nil {
		return Points{}, c, fmt.Errorf("%w: %w %v", ErrFittingPointsNotFound, err, w)
	}

	iter := 0
	for !loc.LeftEmpty && !converged(c, loc, w, cfg) {
		if cfg.MaxIterations > 0 && iter >= cfg.MaxIterations {
			return Points{}, c, fmt.Errorf("%w: %w after %d iterations",
				ErrFittingPointsNotFound, ErrNoConvergence, iter)
		}
		iter++

		w.Left -= cfg.TargetOffset - (c.X[loc.LeftMin] - w.Left)
		w.Right -= (w.Right - c.X[loc.RightMin]) - cfg.TargetOffset

		c = s.Crop(w)
		loc, err = Locate(c, bg)
		if err != nil {
			return Points{}, c, fmt.Errorf("%w: %w %v", ErrFittingPointsNotFound, err, w)
		}

		cfg.Logger.Debug("refine window",
			zap.Int("iteration", iter),
			zap.Stringer("window", w),
			zap.Float64("left_min", c.X[loc.LeftMin]),
			zap.Float64("right_min", c.X[loc.RightMin]),
			zap.Bool("left_empty", loc.LeftEmpty),
		)
	}

	pts := Points{
		Window:     w,
		LeftMinX:   c.X[loc.LeftMin],
		RightMinX:  c.X[loc.RightMin],
		Iterations: iter,
	}
	pts.X = append(append(pts.X, c.X[:loc.LeftMin]...), c.X[loc.RightMin:]...)
	pts.Y = append(append(pts.Y, c.Y[:loc.LeftMin]...), c.Y[loc.RightMin:]...)
	return pts, c, nil
}

func converged(c spectrum.Cropped, loc Location, w spectrum.Window, cfg Config) bool {
	left := c.X[loc.LeftMin] - w.Left - cfg.TargetOffset
	right := w.Right - c.X[loc.RightMin] - cfg.TargetOffset
	return math.Abs(left) <= cfg.Tolerance && math.Abs(right) <= cfg.Tolerance
}
