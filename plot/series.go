package plot

import (
	"fmt"
	"sync"
)

// Preprocessor transforms series data before it is drawn or analysed.
// Implementations must not modify their inputs.
type Preprocessor func(x, y []float64) ([]float64, []float64)

// XYSeries is a named pair of x and y samples. Raw data is kept unchanged;
// Data applies the preprocessing chain on every call.
type XYSeries struct {
	node

	supported SubplotKind

	mu     sync.RWMutex
	x, y   []float64
	chain  []Preprocessor
	panels []ControlPanel
}

// NewXYSeries copies x and y into a detached series drawable in subplots of
// the given kind. An empty kind means SubplotXY. Every series starts with a
// SeriesControls panel.
func NewXYSeries(name string, x, y []float64, kind SubplotKind) (*XYSeries, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if kind == "" {
		kind = SubplotXY
	}

	s := &XYSeries{supported: kind}
	s.init(KindSeries, name)
	s.x = append([]float64(nil), x...)
	s.y = append([]float64(nil), y...)
	s.panels = []ControlPanel{NewSeriesControls()}
	return s, nil
}

// SupportedSubplot returns the subplot family the series can be drawn in.
func (s *XYSeries) SupportedSubplot() SubplotKind { return s.supported }

// RawData returns copies of the samples without preprocessing.
func (s *XYSeries) RawData() (x, y []float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.x...), append([]float64(nil), s.y...)
}

// Data returns the samples with the preprocessing chain applied in order.
func (s *XYSeries) Data() (x, y []float64) {
	s.mu.RLock()
	chain := append([]Preprocessor(nil), s.chain...)
	s.mu.RUnlock()

	x, y = s.RawData()
	for _, p := range chain {
		x, y = p(x, y)
	}
	return x, y
}

// SetData replaces the raw samples.
func (s *XYSeries) SetData(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x = append(s.x[:0:0], x...)
	s.y = append(s.y[:0:0], y...)
	return nil
}

// AddPreprocessor appends p to the chain. Nil is ignored.
func (s *XYSeries) AddPreprocessor(p Preprocessor) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.chain = append(s.chain, p)
	s.mu.Unlock()
}

// AddControlPanel attaches an extra panel.
func (s *XYSeries) AddControlPanel(p ControlPanel) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.panels = append(s.panels, p)
	s.mu.Unlock()
}

// ControlPanels returns the attached panels in insertion order.
func (s *XYSeries) ControlPanels() []ControlPanel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ControlPanel(nil), s.panels...)
}

// Controls returns the series' SeriesControls panel.
func (s *XYSeries) Controls() *SeriesControls {
	for _, p := range s.ControlPanels() {
		if c, ok := p.(*SeriesControls); ok {
			return c
		}
	}
	return nil
}
