package plot

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Option configures a Tree.
type Option func(*Tree)

// WithLogger routes debug traces of tree mutations to l.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithBus publishes tree events on b instead of a private bus.
func WithBus(b *Bus) Option {
	return func(t *Tree) {
		if b != nil {
			t.bus = b
		}
	}
}

type entry struct {
	el       Element
	parent   ID
	children []ID
}

// Tree owns every element of a session. All structural changes go through
// it and are announced on its Bus once the change is complete.
type Tree struct {
	mu       sync.RWMutex
	next     ID
	entries  map[ID]*entry
	session  *Session
	selected ID

	bus    *Bus
	logger *zap.Logger
}

// NewTree creates a tree holding only a session named name.
func NewTree(name string, opts ...Option) *Tree {
	t := &Tree{
		entries: make(map[ID]*entry),
		bus:     NewBus(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	t.session = &Session{}
	t.session.init(KindSession, name)
	t.session.id = t.allocID()
	t.entries[t.session.id] = &entry{el: t.session}
	return t
}

// Bus returns the event bus.
func (t *Tree) Bus() *Bus { return t.bus }

// Session returns the root element.
func (t *Tree) Session() *Session { return t.session }

func (t *Tree) allocID() ID {
	t.next++
	return t.next
}

// attach links el below parent. The caller holds t.mu.
func (t *Tree) attach(el Element, parent ID) Added {
	t.entries[el.ID()] = &entry{el: el, parent: parent}
	pe := t.entries[parent]
	pe.children = append(pe.children, el.ID())

	t.logger.Debug("element added",
		zap.Stringer("id", el.ID()),
		zap.Stringer("kind", el.Kind()),
		zap.Stringer("parent", parent),
		zap.String("name", el.Name()),
	)
	return Added{ID: el.ID(), Parent: parent, Kind: el.Kind(), Name: el.Name()}
}

func (t *Tree) parentOfKind(id ID, kind Kind) error {
	e, ok := t.entries[id]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownElement, id)
	}
	if e.el.Kind() != kind {
		return fmt.Errorf("%w: %v is a %v, want %v", ErrInvalidParent, id, e.el.Kind(), kind)
	}
	return nil
}

// NewFigure adds an empty figure to the session.
func (t *Tree) NewFigure(name string) (*Figure, error) {
	f := &Figure{}
	f.init(KindFigure, name)

	t.mu.Lock()
	f.id = t.allocID()
	ev := t.attach(f, t.session.id)
	t.mu.Unlock()

	t.bus.Publish(ev)
	return f, nil
}

// AddSubplot adds a subplot of the given kind to a figure. An empty kind
// means SubplotXY.
func (t *Tree) AddSubplot(figure ID, name string, kind SubplotKind) (*Subplot, error) {
	if kind == "" {
		kind = SubplotXY
	}
	s := &Subplot{subplotKind: kind}
	s.init(KindSubplot, name)

	t.mu.Lock()
	if err := t.parentOfKind(figure, KindFigure); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	s.id = t.allocID()
	ev := t.attach(s, figure)
	t.mu.Unlock()

	t.bus.Publish(ev)
	return s, nil
}

// AddSeries attaches a detached series to a subplot. The subplot's kind must
// match the series' supported kind.
func (t *Tree) AddSeries(subplot ID, s *XYSeries) error {
	if s == nil {
		return fmt.Errorf("%w: nil series", ErrUnknownElement)
	}

	t.mu.Lock()
	if s.id != 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %q is %v", ErrAlreadyAttached, s.Name(), s.id)
	}
	if err := t.parentOfKind(subplot, KindSubplot); err != nil {
		t.mu.Unlock()
		return err
	}
	sub := t.entries[subplot].el.(*Subplot)
	if sub.SubplotKind() != s.SupportedSubplot() {
		t.mu.Unlock()
		return fmt.Errorf("%w: series %q needs %q, subplot is %q",
			ErrIncompatibleSubplot, s.Name(), s.SupportedSubplot(), sub.SubplotKind())
	}
	s.id = t.allocID()
	ev := t.attach(s, subplot)
	t.mu.Unlock()

	t.bus.Publish(ev)
	return nil
}

// Select makes id the current selection.
func (t *Tree) Select(id ID) error {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrUnknownElement, id)
	}
	t.selected = id
	ev := Selected{ID: id, Kind: e.el.Kind()}
	t.mu.Unlock()

	t.logger.Debug("element selected", zap.Stringer("id", id))
	t.bus.Publish(ev)
	return nil
}

// Selected returns the current selection, if any.
func (t *Tree) Selected() (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selected, t.selected != 0
}

// Rename changes the name of id. Blank names and names equal to the current
// one are ignored without error or event.
func (t *Tree) Rename(id ID, name string) error {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrUnknownElement, id)
	}
	n, ok := e.el.(interface{ setName(string) })
	if !ok || strings.TrimSpace(name) == "" || name == e.el.Name() {
		t.mu.Unlock()
		return nil
	}
	old := e.el.Name()
	n.setName(name)
	t.mu.Unlock()

	t.logger.Debug("element renamed",
		zap.Stringer("id", id),
		zap.String("from", old),
		zap.String("to", name),
	)
	t.bus.Publish(Renamed{ID: id, Name: name})
	return nil
}

// Delete removes id and all of its descendants. A Deleted event is published
// for each removed element, children first. The session cannot be deleted.
func (t *Tree) Delete(id ID) error {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrUnknownElement, id)
	}
	if id == t.session.id {
		t.mu.Unlock()
		return fmt.Errorf("%w: cannot delete the session", ErrInvalidParent)
	}

	var events []Event
	t.remove(id, &events)

	pe := t.entries[e.parent]
	for i, c := range pe.children {
		if c == id {
			pe.children = append(pe.children[:i:i], pe.children[i+1:]...)
			break
		}
	}
	t.mu.Unlock()

	t.logger.Debug("element deleted", zap.Stringer("id", id), zap.Int("removed", len(events)))
	for _, ev := range events {
		t.bus.Publish(ev)
	}
	return nil
}

// remove drops id's subtree from the index, children first. The caller
// holds t.mu.
func (t *Tree) remove(id ID, events *[]Event) {
	e := t.entries[id]
	for _, c := range e.children {
		t.remove(c, events)
	}
	delete(t.entries, id)
	if t.selected == id {
		t.selected = 0
	}
	if s, ok := e.el.(*XYSeries); ok {
		s.id = 0
	}
	*events = append(*events, Deleted{ID: id, Parent: e.parent, Kind: e.el.Kind()})
}

// Lookup returns the element for id.
func (t *Tree) Lookup(id ID) (Element, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	if !ok {
		return nil, false
	}
	return e.el, true
}

// Children returns the IDs directly below id, in insertion order.
func (t *Tree) Children(id ID) ([]ID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownElement, id)
	}
	return append([]ID(nil), e.children...), nil
}

// Parent returns the parent of id. The session has no parent.
func (t *Tree) Parent(id ID) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	if !ok || e.parent == 0 {
		return 0, false
	}
	return e.parent, true
}

// FigureOf returns the figure that id belongs to, or id itself for figures.
func (t *Tree) FigureOf(id ID) (*Figure, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for {
		e, ok := t.entries[id]
		if !ok {
			return nil, false
		}
		if f, ok := e.el.(*Figure); ok {
			return f, true
		}
		id = e.parent
	}
}

// Len returns the number of elements including the session.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Walk visits the tree depth first from the session. fn receives each
// element and its depth (0 for the session). A non-nil error stops the walk
// and is returned. The tree is snapshotted before the first call, so fn may
// mutate it.
func (t *Tree) Walk(fn func(el Element, depth int) error) error {
	type item struct {
		el    Element
		depth int
	}

	t.mu.RLock()
	var order []item
	var visit func(id ID, depth int)
	visit = func(id ID, depth int) {
		e := t.entries[id]
		order = append(order, item{e.el, depth})
		for _, c := range e.children {
			visit(c, depth+1)
		}
	}
	visit(t.session.id, 0)
	t.mu.RUnlock()

	for _, it := range order {
		if err := fn(it.el, it.depth); err != nil {
			return err
		}
	}
	return nil
}
