// Package nav is the navigation-tree view model: a mirror of a plot.Tree
// kept current from bus events, with the current selection and the user
// actions (select, rename, delete) that are forwarded back to the tree.
package nav

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/plot"
)

// Item is one visible row of the navigation tree.
type Item struct {
	ID    plot.ID
	Kind  plot.Kind
	Name  string
	Depth int
}

type navNode struct {
	id       plot.ID
	kind     plot.Kind
	name     string
	parent   plot.ID
	children []plot.ID
}

// Panel mirrors a tree. The session is the hidden root; only its
// descendants are listed.
type Panel struct {
	tree   *plot.Tree
	logger *zap.Logger

	mu       sync.RWMutex
	nodes    map[plot.ID]*navNode
	root     plot.ID
	selected plot.ID

	unsubscribe func()
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger logs events for elements the panel does not know about.
func WithLogger(l *zap.Logger) Option {
	return func(p *Panel) {
		if l != nil {
			p.logger = l
		}
	}
}

// New builds a panel for tree, copies its current contents and subscribes
// to its bus.
func New(tree *plot.Tree, opts ...Option) *Panel {
	p := &Panel{
		tree:   tree,
		logger: zap.NewNop(),
		nodes:  make(map[plot.ID]*navNode),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	session := tree.Session()
	p.root = session.ID()
	p.nodes[p.root] = &navNode{id: p.root, kind: plot.KindSession, name: session.Name()}
	children, _ := tree.Children(p.root)
	for _, c := range children {
		p.addSubtree(p.root, c)
	}

	p.unsubscribe = tree.Bus().Subscribe(p.handle)
	return p
}

// Close detaches the panel from the bus.
func (p *Panel) Close() { p.unsubscribe() }

func (p *Panel) handle(e plot.Event) {
	switch ev := e.(type) {
	case plot.Added:
		p.onAdded(ev)
	case plot.Deleted:
		p.onDeleted(ev)
	case plot.Renamed:
		p.onRenamed(ev)
	case plot.Selected:
		p.onSelected(ev)
	}
}

func (p *Panel) onAdded(ev plot.Added) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.nodes[ev.Parent]; !ok {
		return
	}
	p.addSubtree(ev.Parent, ev.ID)
}

// addSubtree inserts id and its current descendants below parent. Nodes that
// are already mirrored are skipped. The caller holds p.mu or owns p.
func (p *Panel) addSubtree(parent, id plot.ID) {
	if _, ok := p.nodes[id]; ok {
		return
	}
	el, ok := p.tree.Lookup(id)
	if !ok {
		return
	}
	p.nodes[id] = &navNode{id: id, kind: el.Kind(), name: el.Name(), parent: parent}
	pn := p.nodes[parent]
	pn.children = append(pn.children, id)

	children, _ := p.tree.Children(id)
	for _, c := range children {
		p.addSubtree(id, c)
	}
}

func (p *Panel) onDeleted(ev plot.Deleted) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[ev.ID]
	if !ok {
		return
	}
	if pn, ok := p.nodes[n.parent]; ok {
		for i, c := range pn.children {
			if c == ev.ID {
				pn.children = append(pn.children[:i:i], pn.children[i+1:]...)
				break
			}
		}
	}
	delete(p.nodes, ev.ID)
	if p.selected == ev.ID {
		p.selected = 0
	}
}

func (p *Panel) onRenamed(ev plot.Renamed) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.nodes[ev.ID]; ok {
		n.name = ev.Name
	}
}

func (p *Panel) onSelected(ev plot.Selected) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.ID == p.selected {
		return
	}
	if _, ok := p.nodes[ev.ID]; !ok {
		p.logger.Warn("selected element not in navigation tree", zap.Stringer("id", ev.ID))
		return
	}
	p.selected = ev.ID
}

// Selected returns the highlighted element.
func (p *Panel) Selected() (plot.ID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected, p.selected != 0
}

// Select selects id in the tree. The panel's highlight follows through the
// resulting event.
func (p *Panel) Select(id plot.ID) error {
	return p.tree.Select(id)
}

// RenameSelected renames the current selection. Blank or unchanged names are
// ignored by the tree.
func (p *Panel) RenameSelected(name string) error {
	id, ok := p.Selected()
	if !ok {
		return fmt.Errorf("nav: nothing selected: %w", plot.ErrUnknownElement)
	}
	return p.tree.Rename(id, name)
}

// DeleteSelected deletes the current selection and its descendants.
func (p *Panel) DeleteSelected() error {
	id, ok := p.Selected()
	if !ok {
		return fmt.Errorf("nav: nothing selected: %w", plot.ErrUnknownElement)
	}
	return p.tree.Delete(id)
}

// Items lists the visible rows depth first. Depth 0 is a figure.
func (p *Panel) Items() []Item {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var items []Item
	var visit func(id plot.ID, depth int)
	visit = func(id plot.ID, depth int) {
		n := p.nodes[id]
		if id != p.root {
			items = append(items, Item{ID: id, Kind: n.kind, Name: n.name, Depth: depth})
			depth++
		}
		for _, c := range n.children {
			visit(c, depth)
		}
	}
	visit(p.root, 0)
	return items
}

// Contains reports whether id is mirrored.
func (p *Panel) Contains(id plot.ID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.nodes[id]
	return ok
}

// Render writes an indented outline, marking the selection with '>'.
func (p *Panel) Render(w io.Writer) error {
	sel, _ := p.Selected()
	for _, it := range p.Items() {
		mark := " "
		if it.ID == sel {
			mark = ">"
		}
		if _, err := fmt.Fprintf(w, "%s %s%s\n", mark, strings.Repeat("  ", it.Depth), it.Name); err != nil {
			return err
		}
	}
	return nil
}
