// Package toolbar models the main plot toolbar: which tools are enabled,
// which figure is active and which interaction mode is engaged.
package toolbar

import (
	"errors"
	"sync"

	"github.com/cwbudde/avoplot/plot"
)

// ErrNoActiveFigure is returned by figure actions before any figure has
// been selected.
var ErrNoActiveFigure = errors.New("toolbar: no active figure")

// Mode is the pointer interaction mode shared by all figures.
type Mode int

const (
	ModeNone Mode = iota
	ModeZoom
	ModePan
)

func (m Mode) String() string {
	switch m {
	case ModeZoom:
		return "zoom"
	case ModePan:
		return "pan"
	default:
		return "none"
	}
}

// FigureHandler performs figure-level actions on behalf of the toolbar.
type FigureHandler interface {
	Home(fig plot.ID) error
	Save(fig plot.ID) error
	SetMode(fig plot.ID, m Mode) error
}

// Toolbar tracks figures through tree events. Plot tools are enabled while
// at least one figure exists.
type Toolbar struct {
	handler FigureHandler

	mu      sync.RWMutex
	figures map[plot.ID]struct{}
	order   []plot.ID
	active  plot.ID
	mode    Mode

	unsubscribe func()
}

// New subscribes a toolbar to tree. Figures already in the tree are picked
// up immediately.
func New(tree *plot.Tree, handler FigureHandler) *Toolbar {
	tb := &Toolbar{
		handler: handler,
		figures: make(map[plot.ID]struct{}),
	}
	children, _ := tree.Children(tree.Session().ID())
	for _, id := range children {
		if el, ok := tree.Lookup(id); ok && el.Kind() == plot.KindFigure {
			tb.addFigure(id)
		}
	}
	tb.unsubscribe = tree.Bus().Subscribe(tb.handle)
	return tb
}

// Close detaches the toolbar from the bus.
func (tb *Toolbar) Close() { tb.unsubscribe() }

func (tb *Toolbar) handle(e plot.Event) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	switch ev := e.(type) {
	case plot.Added:
		if ev.Kind == plot.KindFigure {
			tb.addFigure(ev.ID)
		}
	case plot.Deleted:
		if ev.Kind != plot.KindFigure {
			return
		}
		if _, ok := tb.figures[ev.ID]; !ok {
			return
		}
		delete(tb.figures, ev.ID)
		for i, id := range tb.order {
			if id == ev.ID {
				tb.order = append(tb.order[:i:i], tb.order[i+1:]...)
				break
			}
		}
		if tb.active == ev.ID {
			tb.active = 0
		}
		if len(tb.figures) == 0 {
			tb.mode = ModeNone
		}
	case plot.Selected:
		if ev.Kind == plot.KindFigure {
			tb.active = ev.ID
		}
	}
}

func (tb *Toolbar) addFigure(id plot.ID) {
	if _, ok := tb.figures[id]; ok {
		return
	}
	tb.figures[id] = struct{}{}
	tb.order = append(tb.order, id)
}

// PlotToolsEnabled reports whether save, home, zoom and pan are available.
func (tb *Toolbar) PlotToolsEnabled() bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return len(tb.figures) > 0
}

// Active returns the figure that Home and Save act on.
func (tb *Toolbar) Active() (plot.ID, bool) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.active, tb.active != 0
}

// Mode returns the current interaction mode.
func (tb *Toolbar) Mode() Mode {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.mode
}

// Home resets the view of the active figure.
func (tb *Toolbar) Home() error {
	id, ok := tb.Active()
	if !ok {
		return ErrNoActiveFigure
	}
	return tb.handler.Home(id)
}

// Save exports the active figure.
func (tb *Toolbar) Save() error {
	id, ok := tb.Active()
	if !ok {
		return ErrNoActiveFigure
	}
	return tb.handler.Save(id)
}

// ToggleZoom switches zoom mode on or off for every figure. Zoom and pan are
// mutually exclusive.
func (tb *Toolbar) ToggleZoom() error { return tb.toggle(ModeZoom) }

// TogglePan switches pan mode on or off for every figure.
func (tb *Toolbar) TogglePan() error { return tb.toggle(ModePan) }

func (tb *Toolbar) toggle(m Mode) error {
	tb.mu.Lock()
	if len(tb.figures) == 0 {
		tb.mu.Unlock()
		return ErrNoActiveFigure
	}
	if tb.mode == m {
		m = ModeNone
	}
	tb.mode = m
	figures := append([]plot.ID(nil), tb.order...)
	tb.mu.Unlock()

	var errs []error
	for _, id := range figures {
		errs = append(errs, tb.handler.SetMode(id, m))
	}
	return errors.Join(errs...)
}
