package render

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/plot"
	"github.com/cwbudde/avoplot/spectrum"
)

// ErrUnsupportedFormat is returned by Save for unknown file extensions.
var ErrUnsupportedFormat = errors.New("render: unsupported image format")

var (
	fitColour        = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	backgroundColour = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// Renderer holds output dimensions and a logger.
type Renderer struct {
	width  vg.Length
	height vg.Length
	logger *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the output size.
func WithSize(w, h vg.Length) Option {
	return func(r *Renderer) {
		if w > 0 && h > 0 {
			r.width, r.height = w, h
		}
	}
}

// WithLogger sets the logger for observer failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a renderer producing 8x5 inch images.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: 8 * vg.Inch, height: 5 * vg.Inch, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Size returns the output size.
func (r *Renderer) Size() (w, h vg.Length) { return r.width, r.height }

// NewSpectrumPlot creates a plot with FTIR axis labels and an inverted
// wavenumber axis.
func NewSpectrumPlot(title string) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Wavenumber (cm-1)"
	p.Y.Label.Text = "Absorbance"
	p.X.Scale = gplot.InvertedScale{Normalizer: gplot.LinearScale{}}
	return p
}

// AddSeries draws x/y with the appearance in ctl. A nil ctl draws a solid
// line in the default colour.
func AddSeries(p *gplot.Plot, name string, x, y []float64, ctl *plot.SeriesControls) error {
	if ctl == nil {
		ctl = plot.NewSeriesControls()
	}
	xys := toXYs(x, y)
	if len(xys) == 0 {
		return nil
	}

	var thumbs []gplot.Thumbnailer
	if style := ctl.LineStyle(); style != "None" {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("render: %s: %w", name, err)
		}
		line.Color = ctl.LineColour()
		line.Dashes = dashes(style)
		p.Add(line)
		thumbs = append(thumbs, line)
	}
	if shape, ok := glyph(ctl.Marker()); ok {
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("render: %s: %w", name, err)
		}
		sc.GlyphStyle.Shape = shape
		sc.GlyphStyle.Color = ctl.MarkerColour()
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		thumbs = append(thumbs, sc)
	}
	if name != "" && len(thumbs) > 0 {
		p.Legend.Add(name, thumbs...)
	}
	return nil
}

// AddFit overlays a water-peak fit: the fitting samples as '+', the
// background curve over the fitted range and a peak-height label.
func AddFit(p *gplot.Plot, res *waterpeak.Result) error {
	if res == nil {
		return nil
	}

	pts, err := plotter.NewScatter(toXYs(res.Points.X, res.Points.Y))
	if err != nil {
		return fmt.Errorf("render: fit points: %w", err)
	}
	pts.GlyphStyle.Shape = draw.PlusGlyph{}
	pts.GlyphStyle.Color = fitColour
	pts.GlyphStyle.Radius = vg.Points(3)
	p.Add(pts)

	bx, by := res.BackgroundCurve()
	if len(bx) > 1 {
		bg, err := plotter.NewLine(toXYs(bx, by))
		if err != nil {
			return fmt.Errorf("render: background: %w", err)
		}
		bg.Color = backgroundColour
		bg.Width = vg.Points(1.5)
		p.Add(bg)
		p.Legend.Add("background", bg)
	}

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: res.Peak.Wavenumber, Y: res.Peak.Absorbance}},
		Labels: []string{fmt.Sprintf("h = %.4f", res.Peak.Height)},
	})
	if err != nil {
		return fmt.Errorf("render: label: %w", err)
	}
	p.Add(label)
	return nil
}

// SpectrumFit builds a complete plot of s with an optional fit overlay.
func SpectrumFit(title string, s *spectrum.Spectrum, res *waterpeak.Result) (*gplot.Plot, error) {
	p := NewSpectrumPlot(title)
	if err := AddSeries(p, "", s.X(), s.Y(), nil); err != nil {
		return nil, err
	}
	if err := AddFit(p, res); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes p to path. The format follows the extension.
func (r *Renderer) Save(p *gplot.Plot, path string) error {
	if _, err := Format(path); err != nil {
		return err
	}
	if err := p.Save(r.width, r.height, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// Format returns the image format implied by path's extension.
func Format(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff":
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Observer returns a waterpeak observer that renders s with each fit to
// path. Render failures are logged only.
func (r *Renderer) Observer(s *spectrum.Spectrum, path string) waterpeak.Observer {
	return func(res *waterpeak.Result) {
		p, err := SpectrumFit(filepath.Base(path), s, res)
		if err == nil {
			err = r.Save(p, path)
		}
		if err != nil {
			r.logger.Warn("render fit", zap.String("path", path), zap.Error(err))
			return
		}
		r.logger.Debug("rendered fit", zap.String("path", path))
	}
}

func toXYs(x, y []float64) plotter.XYs {
	n := min(len(x), len(y))
	xys := make(plotter.XYs, n)
	for i := range n {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}
	return xys
}

func dashes(style string) []vg.Length {
	switch style {
	case "--":
		return []vg.Length{vg.Points(6), vg.Points(3)}
	case "-.":
		return []vg.Length{vg.Points(6), vg.Points(3), vg.Points(1), vg.Points(3)}
	case ":":
		return []vg.Length{vg.Points(1), vg.Points(3)}
	default:
		return nil
	}
}

func glyph(marker string) (draw.GlyphDrawer, bool) {
	switch marker {
	case ".":
		return draw.CircleGlyph{}, true
	case "+":
		return draw.PlusGlyph{}, true
	case "x":
		return draw.CrossGlyph{}, true
	default:
		return nil, false
	}
}
