package waterpeak

import (
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/dsp/poly"
	"github.com/cwbudde/avoplot/spectrum"
)

// Result is the full outcome of Fit.
type Result struct {
	Points     Points
	Background *poly.Polynomial
	Peak       Peak
}

// BackgroundCurve samples the background at unit steps from the first to the
// last fitting point, for plotting.
func (r *Result) BackgroundCurve() (x, y []float64) {
	n := len(r.Points.X)
	if n == 0 || r.Background == nil {
		return nil, nil
	}
	lo, hi := r.Points.X[0], r.Points.X[n-1]
	steps := int(math.Ceil(hi - lo))
	if steps < 1 {
		return nil, nil
	}
	x = make([]float64, steps)
	for i := range steps {
		x[i] = lo + float64(i)
	}
	return x, r.Background.EvalSlice(x)
}

// Fit runs the whole measurement: fitting points, background polynomial and
// peak height. Descending spectra are handled; Peak.Index always refers to s
// as given.
func Fit(s *spectrum.Spectrum, opts ...Option) (*Result, error) {
	if s == nil {
		return nil, errNilSpectrum
	}
	cfg := ApplyOptions(opts...)
	asc, reversed := s.Ascending()

	pts, err := fittingPoints(asc, cfg)
	if err != nil {
		return nil, err
	}

	bg, err := FitBackground(pts.X, pts.Y, cfg.Degree)
	if err != nil {
		return nil, err
	}

	peak, err := peakHeight(asc, bg, cfg)
	if err != nil {
		return nil, err
	}
	if reversed {
		peak.Index = s.Len() - 1 - peak.Index
	}

	res := &Result{Points: pts, Background: bg, Peak: peak}
	cfg.Logger.Debug("water peak fitted",
		zap.Float64("height", peak.Height),
		zap.Float64("wavenumber", peak.Wavenumber),
		zap.Int("fit_points", len(pts.X)),
		zap.Int("iterations", pts.Iterations),
		zap.Bool("compensated", pts.Compensated),
	)
	if cfg.Observer != nil {
		cfg.Observer(res)
	}
	return res, nil
}
