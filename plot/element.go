package plot

import (
	"strconv"
	"sync/atomic"
)

// ID identifies an element for the lifetime of its tree. Zero is never
// assigned.
type ID uint64

func (id ID) String() string { return "#" + strconv.FormatUint(uint64(id), 10) }

// Kind is the structural role of an element.
type Kind int

const (
	KindSession Kind = iota
	KindFigure
	KindSubplot
	KindSeries
)

func (k Kind) String() string {
	switch k {
	case KindSession:
		return "session"
	case KindFigure:
		return "figure"
	case KindSubplot:
		return "subplot"
	case KindSeries:
		return "series"
	default:
		return "unknown"
	}
}

// SubplotKind names a family of subplots. Series declare which family they
// can be drawn into.
type SubplotKind string

// SubplotXY is the generic x/y axes subplot.
const SubplotXY SubplotKind = "xy"

// Nameable is implemented by every element.
type Nameable interface {
	Name() string
}

// Element is the common view of any node in the tree.
type Element interface {
	Nameable
	ID() ID
	Kind() Kind
}

// Plottable is implemented by elements that carry drawable data.
type Plottable interface {
	Element
	SupportedSubplot() SubplotKind
	Data() (x, y []float64)
}

// ControlPanel is a titled group of per-element settings.
type ControlPanel interface {
	Title() string
}

// ControlPanelHost is implemented by elements that expose control panels.
type ControlPanelHost interface {
	ControlPanels() []ControlPanel
}

// node carries identity and name. Structure (parent and children) lives in
// the Tree.
type node struct {
	id   ID
	kind Kind
	name atomic.Pointer[string]
}

func (n *node) init(kind Kind, name string) {
	n.kind = kind
	n.name.Store(&name)
}

func (n *node) ID() ID     { return n.id }
func (n *node) Kind() Kind { return n.kind }

func (n *node) Name() string {
	if p := n.name.Load(); p != nil {
		return *p
	}
	return ""
}

func (n *node) setName(name string) { n.name.Store(&name) }

// Session is the root of a tree.
type Session struct{ node }

// Figure groups subplots that are drawn together.
type Figure struct{ node }

// Subplot is a set of axes that series are drawn into.
type Subplot struct {
	node

	subplotKind SubplotKind
	XLabel      string
	YLabel      string
	// InvertX draws the x axis from high to low values.
	InvertX bool
}

// SubplotKind returns the family this subplot belongs to.
func (s *Subplot) SubplotKind() SubplotKind { return s.subplotKind }
