// Package plugin defines data-source plugins and the explicit registry the
// front ends populate at startup.
package plugin

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cwbudde/avoplot/plot"
)

var (
	// ErrDuplicatePlugin is returned when a name is registered twice.
	ErrDuplicatePlugin = errors.New("plugin: duplicate plugin")
	// ErrUnknownPlugin is returned by Plot for unregistered names.
	ErrUnknownPlugin = errors.New("plugin: unknown plugin")
)

// Plugin loads data from a source and plots it into a subplot.
type Plugin interface {
	Name() string
	// MenuEntry is the menu path, e.g. ["FTIR", "New Spectrum"].
	MenuEntry() []string
	Description() string
	// SubplotKind is the subplot family the plugin's series require.
	SubplotKind() plot.SubplotKind
	// PlotInto loads source and adds its series to subplot.
	PlotInto(tree *plot.Tree, subplot plot.ID, source string) error
}

// SubplotInitializer is implemented by plugins that customise freshly
// created subplots, for example with axis labels.
type SubplotInitializer interface {
	InitSubplot(s *plot.Subplot)
}

// Registry maps plugin names to plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p under p.Name().
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return errors.New("plugin: nil plugin")
	}
	name := p.Name()
	if name == "" {
		return errors.New("plugin: empty plugin name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}
	r.plugins[name] = p
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(p Plugin) {
	if err := r.Register(p); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the plugin registered under name, or nil.
func (r *Registry) Lookup(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins[name]
}

// Plugins returns all registered plugins sorted by name.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Plugin) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// Plot opens a new figure named after source with one subplot of the
// plugin's kind and plots source into it. On failure the figure is removed
// again.
func (r *Registry) Plot(tree *plot.Tree, name, source string) (*plot.Figure, error) {
	p := r.Lookup(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}
	return Plot(tree, p, source)
}

// Plot runs p against source in a new figure.
func Plot(tree *plot.Tree, p Plugin, source string) (*plot.Figure, error) {
	fig, err := tree.NewFigure(filepath.Base(source))
	if err != nil {
		return nil, err
	}

	sub, err := tree.AddSubplot(fig.ID(), "Subplot", p.SubplotKind())
	if err != nil {
		_ = tree.Delete(fig.ID())
		return nil, err
	}
	if si, ok := p.(SubplotInitializer); ok {
		si.InitSubplot(sub)
	}

	if err := p.PlotInto(tree, sub.ID(), source); err != nil {
		_ = tree.Delete(fig.ID())
		return nil, fmt.Errorf("plugin %s: %w", p.Name(), err)
	}
	return fig, nil
}
