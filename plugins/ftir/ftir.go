package ftir

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/dsp/smooth"
	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/plot"
	"github.com/cwbudde/avoplot/spectrum/specio"
)

const (
	// Name is the registry name of the plugin.
	Name = "FTIR"
	// SubplotKind is the subplot family FTIR series are drawn in.
	SubplotKind plot.SubplotKind = "ftir"

	XLabel = "Wavenumber (cm-1)"
	YLabel = "Absorbance"
)

// Option configures the plugin.
type Option func(*Plugin)

// WithFitOptions sets the options every background fit runs with.
func WithFitOptions(opts ...waterpeak.Option) Option {
	return func(p *Plugin) {
		p.fitOpts = append(p.fitOpts, opts...)
	}
}

// WithSmoothing adds a Gaussian smoothing preprocessor of width sigma
// (in samples) to every loaded series. sigma <= 0 disables it.
func WithSmoothing(sigma float64) Option {
	return func(p *Plugin) {
		p.sigma = sigma
	}
}

// WithLogger sets the plugin logger. It is also passed to every fit.
func WithLogger(l *zap.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// Plugin implements plugin.Plugin for FTIR spectra.
type Plugin struct {
	fitOpts []waterpeak.Option
	sigma   float64
	logger  *zap.Logger
}

// New creates the FTIR plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Plugin) Name() string                  { return Name }
func (p *Plugin) MenuEntry() []string           { return []string{"FTIR", "New Spectrum"} }
func (p *Plugin) Description() string           { return "Plot an FTIR spectrum" }
func (p *Plugin) SubplotKind() plot.SubplotKind { return SubplotKind }

// InitSubplot labels the axes and puts high wavenumbers on the left.
func (p *Plugin) InitSubplot(s *plot.Subplot) {
	s.XLabel = XLabel
	s.YLabel = YLabel
	s.InvertX = true
}

// PlotInto loads the spectrum file at source into a new series of subplot.
func (p *Plugin) PlotInto(tree *plot.Tree, subplot plot.ID, source string) error {
	s, err := specio.Load(source)
	if err != nil {
		return err
	}

	series, err := NewSeries(filepath.Base(source), s.X(), s.Y(), p.fitOptions()...)
	if err != nil {
		return err
	}
	if p.sigma > 0 {
		series.AddPreprocessor(smooth.Preprocessor(p.sigma))
	}

	p.logger.Debug("loaded spectrum",
		zap.String("source", source),
		zap.Int("samples", s.Len()),
		zap.Float64("smoothing", p.sigma),
	)
	return tree.AddSeries(subplot, series)
}

func (p *Plugin) fitOptions() []waterpeak.Option {
	return append([]waterpeak.Option{waterpeak.WithLogger(p.logger)}, p.fitOpts...)
}

// NewSeries creates an FTIR series with a BackgroundFit panel.
func NewSeries(name string, x, y []float64, opts ...waterpeak.Option) (*plot.XYSeries, error) {
	series, err := plot.NewXYSeries(name, x, y, SubplotKind)
	if err != nil {
		return nil, err
	}
	series.AddControlPanel(NewBackgroundFit(series, opts...))
	return series, nil
}

// PanelOf returns the BackgroundFit panel of series, or nil.
func PanelOf(series plot.ControlPanelHost) *BackgroundFit {
	for _, p := range series.ControlPanels() {
		if bf, ok := p.(*BackgroundFit); ok {
			return bf
		}
	}
	return nil
}
