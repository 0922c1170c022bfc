package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/plot"
	"github.com/cwbudde/avoplot/plot/toolbar"
)

// fitResulter is implemented by control panels that hold a water-peak fit,
// such as the FTIR background-fit panel.
type fitResulter interface {
	Result() *waterpeak.Result
}

// Range is an axis range.
type Range struct{ Min, Max float64 }

type view struct {
	x, y *Range
	mode toolbar.Mode
}

// Figures renders figures of a plot tree and implements
// toolbar.FigureHandler.
type Figures struct {
	tree *plot.Tree
	r    *Renderer
	dir  string
	ext  string

	mu    sync.Mutex
	views map[plot.ID]*view
}

// NewFigures renders figures of tree into dir as files of the given
// extension, e.g. ".png".
func NewFigures(tree *plot.Tree, r *Renderer, dir, ext string) (*Figures, error) {
	if _, err := Format("x" + ext); err != nil {
		return nil, err
	}
	return &Figures{tree: tree, r: r, dir: dir, ext: ext, views: make(map[plot.ID]*view)}, nil
}

func (f *Figures) view(id plot.ID) *view {
	v, ok := f.views[id]
	if !ok {
		v = &view{}
		f.views[id] = v
	}
	return v
}

// Zoom restricts the x range of every subplot of fig.
func (f *Figures) Zoom(fig plot.ID, x Range) error {
	if _, ok := f.tree.Lookup(fig); !ok {
		return fmt.Errorf("%w: %v", plot.ErrUnknownElement, fig)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view(fig).x = &x
	return nil
}

// Home implements toolbar.FigureHandler by clearing any zoom on fig.
func (f *Figures) Home(fig plot.ID) error {
	if _, ok := f.tree.Lookup(fig); !ok {
		return fmt.Errorf("%w: %v", plot.ErrUnknownElement, fig)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.view(fig)
	v.x, v.y = nil, nil
	return nil
}

// SetMode implements toolbar.FigureHandler.
func (f *Figures) SetMode(fig plot.ID, m toolbar.Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view(fig).mode = m
	return nil
}

// Mode returns the interaction mode last set for fig.
func (f *Figures) Mode(fig plot.ID) toolbar.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.views[fig]; ok {
		return v.mode
	}
	return toolbar.ModeNone
}

// Save implements toolbar.FigureHandler by writing fig to the output
// directory, named after the figure.
func (f *Figures) Save(fig plot.ID) error {
	_, err := f.SaveAs(fig, "")
	return err
}

// SaveAs renders fig to path, or to the default location when path is
// empty, and returns the path written.
func (f *Figures) SaveAs(fig plot.ID, path string) (string, error) {
	el, ok := f.tree.Lookup(fig)
	if !ok || el.Kind() != plot.KindFigure {
		return "", fmt.Errorf("%w: figure %v", plot.ErrUnknownElement, fig)
	}
	if path == "" {
		path = filepath.Join(f.dir, el.Name()+f.ext)
	}
	format, err := Format(path)
	if err != nil {
		return "", err
	}

	plots, err := f.Plots(fig)
	if err != nil {
		return "", err
	}
	if len(plots) == 0 {
		return "", fmt.Errorf("render: figure %q has no subplots", el.Name())
	}

	w, h := f.r.Size()
	c, err := draw.NewFormattedCanvas(w, h*vg.Length(len(plots)), format)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	grid := make([][]*gplot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*gplot.Plot{p}
	}
	canvases := gplot.Align(grid, draw.Tiles{Rows: len(plots), Cols: 1}, draw.New(c))
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := c.WriteTo(out); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("render: write %s: %w", path, err)
	}
	return path, out.Close()
}

// Plots builds one gonum plot per subplot of fig, in tree order.
func (f *Figures) Plots(fig plot.ID) ([]*gplot.Plot, error) {
	subs, err := f.tree.Children(fig)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	var xr *Range
	if v, ok := f.views[fig]; ok && v.x != nil {
		r := *v.x
		xr = &r
	}
	f.mu.Unlock()

	var plots []*gplot.Plot
	for _, id := range subs {
		el, ok := f.tree.Lookup(id)
		if !ok {
			continue
		}
		sub, ok := el.(*plot.Subplot)
		if !ok {
			continue
		}
		p, err := f.subplot(sub)
		if err != nil {
			return nil, err
		}
		if xr != nil {
			p.X.Min, p.X.Max = xr.Min, xr.Max
		}
		plots = append(plots, p)
	}
	return plots, nil
}

func (f *Figures) subplot(sub *plot.Subplot) (*gplot.Plot, error) {
	p := gplot.New()
	p.Title.Text = sub.Name()
	p.X.Label.Text = sub.XLabel
	p.Y.Label.Text = sub.YLabel
	if sub.InvertX {
		p.X.Scale = gplot.InvertedScale{Normalizer: gplot.LinearScale{}}
	}

	ids, err := f.tree.Children(sub.ID())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		el, ok := f.tree.Lookup(id)
		if !ok {
			continue
		}
		series, ok := el.(*plot.XYSeries)
		if !ok {
			continue
		}
		x, y := series.Data()
		if err := AddSeries(p, series.Name(), x, y, series.Controls()); err != nil {
			return nil, err
		}
		for _, panel := range series.ControlPanels() {
			if fr, ok := panel.(fitResulter); ok {
				if err := AddFit(p, fr.Result()); err != nil {
					return nil, err
				}
			}
		}
	}
	return p, nil
}
