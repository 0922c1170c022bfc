package ftir

import (
	"fmt"
	"sync"

	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/plot"
	"github.com/cwbudde/avoplot/spectrum"
)

// BackgroundFit is the per-series water-peak control panel.
type BackgroundFit struct {
	series plot.Plottable
	opts   []waterpeak.Option

	mu     sync.Mutex
	result *waterpeak.Result
}

// NewBackgroundFit binds a panel to series. opts are passed to every fit.
func NewBackgroundFit(series plot.Plottable, opts ...waterpeak.Option) *BackgroundFit {
	return &BackgroundFit{series: series, opts: opts}
}

// Title implements plot.ControlPanel.
func (b *BackgroundFit) Title() string { return "Background Fit" }

func (b *BackgroundFit) spectrum() (*spectrum.Spectrum, error) {
	x, y := b.series.Data()
	return spectrum.New(x, y)
}

// SpecType classifies the series' current data.
func (b *BackgroundFit) SpecType() (waterpeak.Class, error) {
	s, err := b.spectrum()
	if err != nil {
		return waterpeak.ClassUnknown, err
	}
	return waterpeak.Classify(s, b.opts...)
}

// SpecTypeText is the label shown in the panel.
func (b *BackgroundFit) SpecTypeText() string {
	class, err := b.SpecType()
	if err != nil {
		return "Spec Type:\n" + waterpeak.ClassUnknown.String()
	}
	return "Spec Type:\n" + class.String()
}

// FitH2O fits the water peak of the series' current data. extra options are
// applied after the panel's own. A failed fit keeps the previous result.
func (b *BackgroundFit) FitH2O(extra ...waterpeak.Option) (*waterpeak.Result, error) {
	s, err := b.spectrum()
	if err != nil {
		return nil, fmt.Errorf("ftir: %s: %w", b.series.Name(), err)
	}

	opts := append(append([]waterpeak.Option(nil), b.opts...), extra...)
	res, err := waterpeak.Fit(s, opts...)
	if err != nil {
		return nil, fmt.Errorf("ftir: %s: %w", b.series.Name(), err)
	}

	b.mu.Lock()
	b.result = res
	b.mu.Unlock()
	return res, nil
}

// Result returns the last successful fit, or nil.
func (b *BackgroundFit) Result() *waterpeak.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

// PeakHeightText is the peak height label shown in the panel.
func (b *BackgroundFit) PeakHeightText() string {
	res := b.Result()
	if res == nil {
		return "Peak Height:\n"
	}
	return fmt.Sprintf("Peak Height:\n%f", res.Peak.Height)
}
