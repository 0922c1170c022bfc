package waterpeak

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cwbudde/avoplot/dsp/poly"
	"github.com/cwbudde/avoplot/internal/testutil"
	"github.com/cwbudde/avoplot/spectrum"
)

const (
	peakCenter = 3500.0
	wantHeight = 5.0
	peakWidth  = 50.0
)

func waterSpectrum(t testing.TB, baseline func(float64) float64) *spectrum.Spectrum {
	t.Helper()
	x := testutil.Linspace(1000, 4500, 1000)
	y := testutil.WaterSpectrum(x, baseline, peakCenter, wantHeight, peakWidth)
	s, err := spectrum.New(x, y)
	if err != nil {
		t.Fatalf("spectrum.New: %v", err)
	}
	return s
}

func curvedBaseline() func(float64) float64 {
	return testutil.QuadraticBaseline(0.3, 2e-8, 2500)
}

func TestFitCurvedBaseline(t *testing.T) {
	s := waterSpectrum(t, curvedBaseline())

	res, err := Fit(s)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if res.Peak.Index < 713 || res.Peak.Index > 715 {
		t.Fatalf("peak index = %d, want 714±1", res.Peak.Index)
	}
	testutil.RequireNearlyEqual(t, "height", res.Peak.Height, wantHeight, 0.05)
	testutil.RequireRelativeError(t, "background", res.Peak.Background,
		curvedBaseline()(res.Peak.Wavenumber), 1e-3)

	if res.Points.Iterations >= 100 {
		t.Fatalf("iterations = %d, want < 100", res.Points.Iterations)
	}
	if res.Points.Compensated {
		t.Fatal("curved baseline should not need background compensation")
	}
	if len(res.Points.X) != len(res.Points.Y) || len(res.Points.X) < 4 {
		t.Fatalf("fit points = %d/%d", len(res.Points.X), len(res.Points.Y))
	}
	if res.Points.LeftMinX < 2000 {
		t.Fatalf("left minimum %g below 2000", res.Points.LeftMinX)
	}
	if res.Background.Degree() != 3 {
		t.Fatalf("background degree = %d, want 3", res.Background.Degree())
	}
}

func TestFitDescendingInput(t *testing.T) {
	asc := waterSpectrum(t, curvedBaseline())
	desc, err := spectrum.New(testutil.Reverse(asc.X()), testutil.Reverse(asc.Y()))
	if err != nil {
		t.Fatalf("spectrum.New: %v", err)
	}

	want, err := Fit(asc)
	if err != nil {
		t.Fatalf("Fit ascending: %v", err)
	}
	got, err := Fit(desc)
	if err != nil {
		t.Fatalf("Fit descending: %v", err)
	}

	testutil.RequireNearlyEqual(t, "height", got.Peak.Height, want.Peak.Height, 1e-9)
	if got.Peak.Index != asc.Len()-1-want.Peak.Index {
		t.Fatalf("descending peak index = %d, want %d", got.Peak.Index, asc.Len()-1-want.Peak.Index)
	}
	if x, _ := desc.At(got.Peak.Index); x != got.Peak.Wavenumber {
		t.Fatalf("peak index %d does not address wavenumber %g", got.Peak.Index, got.Peak.Wavenumber)
	}
}

func TestFitFallingBaseline(t *testing.T) {
	s := waterSpectrum(t, testutil.LinearBaseline(0.5, -5e-5, 1000))

	res, err := Fit(s)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	testutil.RequireNearlyEqual(t, "height", res.Peak.Height, wantHeight, 0.05)
	// The peak tails still reach the minima at ±4 widths, which biases a
	// sloped background by a few parts per thousand.
	testutil.RequireRelativeError(t, "background", res.Peak.Background,
		testutil.LinearBaseline(0.5, -5e-5, 1000)(res.Peak.Wavenumber), 5e-3)
	if res.Points.Iterations == 0 {
		t.Fatal("falling baseline should require refinement")
	}
}

// steepTailBaseline is flat left of the peak apart from a shallow dip at
// 1800 cm-1 and rises steeply beyond 3500 cm-1. Without compensation the
// window walks left onto the dip.
func steepTailBaseline(x float64) float64 {
	d := x - 1800
	y := 0.3 - 0.05*math.Exp(-d*d/(2*50*50))
	if x > 3500 {
		y += 1e-3 * (x - 3500)
	}
	return y
}

func TestFittingPointsCompensated(t *testing.T) {
	s := waterSpectrum(t, steepTailBaseline)

	plain, err := FittingPoints(s, WithMinLeftBound(0))
	if err != nil {
		t.Fatalf("FittingPoints without bound: %v", err)
	}
	if plain.Compensated || plain.LeftMinX >= 2000 {
		t.Fatalf("uncompensated left minimum = %g, want below 2000", plain.LeftMinX)
	}
	testutil.RequireNearlyEqual(t, "dip", plain.LeftMinX, 1800, 5)

	core, logs := observer.New(zap.DebugLevel)
	pts, err := FittingPoints(s, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("FittingPoints: %v", err)
	}
	if !pts.Compensated {
		t.Fatal("expected global background compensation")
	}
	if pts.LeftMinX < 2000 {
		t.Fatalf("compensated left minimum = %g, want >= 2000", pts.LeftMinX)
	}
	if pts.Iterations <= plain.Iterations {
		t.Fatalf("iterations = %d, want more than the first attempt's %d", pts.Iterations, plain.Iterations)
	}
	if n := logs.FilterMessage("refine window").Len(); n != pts.Iterations {
		t.Fatalf("logged %d refinement steps over both attempts, want %d", n, pts.Iterations)
	}
	if logs.FilterMessage("left minimum out of range, retrying with global background").Len() != 1 {
		t.Fatal("missing retry log")
	}

	res, err := Fit(s)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !res.Points.Compensated || res.Points.Iterations != pts.Iterations {
		t.Fatalf("Fit points = %+v", res.Points)
	}
}

func TestFitRampFails(t *testing.T) {
	x := testutil.Linspace(1000, 4500, 1000)
	s, _ := spectrum.New(x, testutil.Ramp(x, 0.1, 1e-4))

	_, err := Fit(s)
	if !errors.Is(err, ErrFittingPointsNotFound) {
		t.Fatalf("err = %v, want ErrFittingPointsNotFound", err)
	}

	_, again := Fit(s)
	if again == nil || again.Error() != err.Error() {
		t.Fatalf("repeated fit error %v differs from %v", again, err)
	}
}

func TestFitEmptyWindow(t *testing.T) {
	x := testutil.Linspace(100, 500, 50)
	s, _ := spectrum.New(x, testutil.Ramp(x, 0, 1))

	_, err := Fit(s)
	if !errors.Is(err, ErrFittingPointsNotFound) || !errors.Is(err, ErrEmptyWindow) {
		t.Fatalf("err = %v, want ErrFittingPointsNotFound and ErrEmptyWindow", err)
	}
}

func TestFitMaxIterations(t *testing.T) {
	s := waterSpectrum(t, testutil.LinearBaseline(0.5, -5e-5, 1000))

	_, err := Fit(s, WithMaxIterations(2))
	if !errors.Is(err, ErrNoConvergence) || !errors.Is(err, ErrFittingPointsNotFound) {
		t.Fatalf("err = %v, want ErrNoConvergence", err)
	}
}

func TestFitNilSpectrum(t *testing.T) {
	if _, err := Fit(nil); err == nil {
		t.Fatal("expected error for nil spectrum")
	}
}

func TestFitObserver(t *testing.T) {
	s := waterSpectrum(t, curvedBaseline())

	var seen []*Result
	res, err := Fit(s, WithObserver(func(r *Result) { seen = append(seen, r) }))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(seen) != 1 || seen[0] != res {
		t.Fatalf("observer called %d times", len(seen))
	}

	x, y := res.BackgroundCurve()
	if len(x) == 0 || len(x) != len(y) {
		t.Fatalf("background curve lengths %d/%d", len(x), len(y))
	}
	if x[0] != res.Points.X[0] || x[1]-x[0] != 1 {
		t.Fatalf("background curve starts at %g step %g", x[0], x[1]-x[0])
	}
}

func TestFitObserverNotCalledOnFailure(t *testing.T) {
	x := testutil.Linspace(1000, 4500, 1000)
	s, _ := spectrum.New(x, testutil.Ramp(x, 0.1, 1e-4))

	called := false
	if _, err := Fit(s, WithObserver(func(*Result) { called = true })); err == nil {
		t.Fatal("expected failure")
	}
	if called {
		t.Fatal("observer called for failed fit")
	}
}

func TestFitLogsIterations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := waterSpectrum(t, testutil.LinearBaseline(0.5, -5e-5, 1000))

	res, err := Fit(s, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if n := logs.FilterMessage("refine window").Len(); n != res.Points.Iterations {
		t.Fatalf("logged %d refinement steps, want %d", n, res.Points.Iterations)
	}
	if logs.FilterMessage("water peak fitted").Len() != 1 {
		t.Fatal("missing fit summary log")
	}
}

func TestFitBackgroundInsufficientSamples(t *testing.T) {
	_, err := FitBackground([]float64{1, 2, 3}, []float64{1, 2, 3}, 3)
	if !errors.Is(err, poly.ErrInsufficientSamples) {
		t.Fatalf("err = %v, want poly.ErrInsufficientSamples", err)
	}
}

func TestPeakHeightWithoutBackground(t *testing.T) {
	s := waterSpectrum(t, curvedBaseline())

	p, err := PeakHeight(s, nil)
	if err != nil {
		t.Fatalf("PeakHeight: %v", err)
	}
	if p.Height != p.Absorbance || p.Background != 0 {
		t.Fatalf("nil background: %+v", p)
	}
}

func TestPeakHeightCustomWindow(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{0, 9, 1, 2, 5, 1}
	s, _ := spectrum.New(x, y)

	p, err := PeakHeight(s, poly.Zero(), WithWindow(spectrum.Window{Left: 2, Right: 6}))
	if err != nil {
		t.Fatalf("PeakHeight: %v", err)
	}
	if p.Index != 4 || p.Height != 5 {
		t.Fatalf("peak = %+v, want index 4 height 5", p)
	}
}

func TestPeakHeightIndexBelowWindowEdge(t *testing.T) {
	// 2199.5 and 2200.5 are equally close to the window's left bound; only
	// the latter is inside the window.
	s, _ := spectrum.New([]float64{2199.5, 2200.5, 2300, 2400}, []float64{9, 1, 5, 2})

	p, err := PeakHeight(s, poly.Zero())
	if err != nil {
		t.Fatalf("PeakHeight: %v", err)
	}
	if p.Index != 2 || p.Wavenumber != 2300 || p.Height != 5 {
		t.Fatalf("peak = %+v, want index 2 at 2300 height 5", p)
	}
	if x, y := s.At(p.Index); x != p.Wavenumber || y != p.Absorbance {
		t.Fatalf("index %d addresses (%g, %g), not the measured sample", p.Index, x, y)
	}
}
