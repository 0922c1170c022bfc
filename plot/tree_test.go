package plot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	events []Event
}

func (r *recorder) handle(e Event) { r.events = append(r.events, e) }

func newTestTree(t *testing.T) (*Tree, *recorder) {
	t.Helper()
	tree := NewTree("session")
	rec := &recorder{}
	t.Cleanup(tree.Bus().Subscribe(rec.handle))
	return tree, rec
}

func buildFigure(t *testing.T, tree *Tree) (*Figure, *Subplot, *XYSeries) {
	t.Helper()
	fig, err := tree.NewFigure("Figure 1")
	require.NoError(t, err)
	sub, err := tree.AddSubplot(fig.ID(), "Subplot", SubplotXY)
	require.NoError(t, err)
	s, err := NewXYSeries("data", []float64{1, 2, 3}, []float64{4, 5, 6}, SubplotXY)
	require.NoError(t, err)
	require.NoError(t, tree.AddSeries(sub.ID(), s))
	return fig, sub, s
}

func TestTreeAddPublishesEvents(t *testing.T) {
	tree, rec := newTestTree(t)
	fig, sub, s := buildFigure(t, tree)

	require.Equal(t, []Event{
		Added{ID: fig.ID(), Parent: tree.Session().ID(), Kind: KindFigure, Name: "Figure 1"},
		Added{ID: sub.ID(), Parent: fig.ID(), Kind: KindSubplot, Name: "Subplot"},
		Added{ID: s.ID(), Parent: sub.ID(), Kind: KindSeries, Name: "data"},
	}, rec.events)
	require.Equal(t, 4, tree.Len())

	parent, ok := tree.Parent(s.ID())
	require.True(t, ok)
	require.Equal(t, sub.ID(), parent)

	_, ok = tree.Parent(tree.Session().ID())
	require.False(t, ok)

	children, err := tree.Children(fig.ID())
	require.NoError(t, err)
	require.Equal(t, []ID{sub.ID()}, children)
}

func TestTreeIDsAreUnique(t *testing.T) {
	tree, _ := newTestTree(t)
	seen := map[ID]bool{tree.Session().ID(): true}
	for range 3 {
		fig, sub, s := buildFigure(t, tree)
		for _, id := range []ID{fig.ID(), sub.ID(), s.ID()} {
			require.NotZero(t, id)
			require.False(t, seen[id], "duplicate id %v", id)
			seen[id] = true
		}
	}
}

func TestTreeRejectsInvalidParents(t *testing.T) {
	tree, rec := newTestTree(t)
	fig, sub, _ := buildFigure(t, tree)
	rec.events = nil

	_, err := tree.AddSubplot(sub.ID(), "nested", SubplotXY)
	require.ErrorIs(t, err, ErrInvalidParent)

	_, err = tree.AddSubplot(999, "missing", SubplotXY)
	require.ErrorIs(t, err, ErrUnknownElement)

	s, err := NewXYSeries("s", nil, nil, SubplotXY)
	require.NoError(t, err)
	require.ErrorIs(t, tree.AddSeries(fig.ID(), s), ErrInvalidParent)
	require.Empty(t, rec.events)
}

func TestTreeRejectsIncompatibleSeries(t *testing.T) {
	tree, rec := newTestTree(t)
	_, sub, _ := buildFigure(t, tree)
	rec.events = nil

	s, err := NewXYSeries("ftir", []float64{1}, []float64{1}, SubplotKind("ftir"))
	require.NoError(t, err)

	err = tree.AddSeries(sub.ID(), s)
	require.ErrorIs(t, err, ErrIncompatibleSubplot)
	require.Zero(t, s.ID())
	require.Empty(t, rec.events)
}

func TestTreeRejectsDoubleAttach(t *testing.T) {
	tree, _ := newTestTree(t)
	_, sub, s := buildFigure(t, tree)
	require.ErrorIs(t, tree.AddSeries(sub.ID(), s), ErrAlreadyAttached)
}

func TestTreeSelect(t *testing.T) {
	tree, rec := newTestTree(t)
	_, sub, _ := buildFigure(t, tree)
	rec.events = nil

	_, ok := tree.Selected()
	require.False(t, ok)

	require.NoError(t, tree.Select(sub.ID()))
	id, ok := tree.Selected()
	require.True(t, ok)
	require.Equal(t, sub.ID(), id)
	require.Equal(t, []Event{Selected{ID: sub.ID(), Kind: KindSubplot}}, rec.events)

	require.ErrorIs(t, tree.Select(12345), ErrUnknownElement)
}

func TestTreeRename(t *testing.T) {
	tree, rec := newTestTree(t)
	fig, _, _ := buildFigure(t, tree)
	rec.events = nil

	for _, name := range []string{"", "   ", "\t", "Figure 1"} {
		require.NoError(t, tree.Rename(fig.ID(), name))
	}
	require.Empty(t, rec.events, "blank or unchanged names must be ignored")
	require.Equal(t, "Figure 1", fig.Name())

	require.NoError(t, tree.Rename(fig.ID(), "Water"))
	require.Equal(t, "Water", fig.Name())
	require.Equal(t, []Event{Renamed{ID: fig.ID(), Name: "Water"}}, rec.events)

	require.ErrorIs(t, tree.Rename(999, "x"), ErrUnknownElement)
}

func TestTreeDeleteIsRecursive(t *testing.T) {
	tree, rec := newTestTree(t)
	fig, sub, s := buildFigure(t, tree)
	other, _ := tree.NewFigure("Figure 2")
	sid := s.ID()
	require.NoError(t, tree.Select(sid))
	rec.events = nil

	require.NoError(t, tree.Delete(fig.ID()))
	require.Equal(t, []Event{
		Deleted{ID: sid, Parent: sub.ID(), Kind: KindSeries},
		Deleted{ID: sub.ID(), Parent: fig.ID(), Kind: KindSubplot},
		Deleted{ID: fig.ID(), Parent: tree.Session().ID(), Kind: KindFigure},
	}, rec.events)

	for _, id := range []ID{fig.ID(), sub.ID()} {
		_, ok := tree.Lookup(id)
		require.False(t, ok)
	}
	require.Zero(t, s.ID(), "deleted series is detached")
	_, ok := tree.Selected()
	require.False(t, ok, "deleting the selection clears it")

	children, err := tree.Children(tree.Session().ID())
	require.NoError(t, err)
	require.Equal(t, []ID{other.ID()}, children)

	require.ErrorIs(t, tree.Delete(fig.ID()), ErrUnknownElement)
	require.ErrorIs(t, tree.Delete(tree.Session().ID()), ErrInvalidParent)
}

func TestTreeWalk(t *testing.T) {
	tree, _ := newTestTree(t)
	buildFigure(t, tree)

	var names []string
	var depths []int
	require.NoError(t, tree.Walk(func(el Element, depth int) error {
		names = append(names, el.Name())
		depths = append(depths, depth)
		return nil
	}))
	require.Equal(t, []string{"session", "Figure 1", "Subplot", "data"}, names)
	require.Equal(t, []int{0, 1, 2, 3}, depths)

	stop := errors.New("stop")
	visited := 0
	err := tree.Walk(func(Element, int) error {
		visited++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, visited)
}

func TestTreeFigureOf(t *testing.T) {
	tree, _ := newTestTree(t)
	fig, _, s := buildFigure(t, tree)

	got, ok := tree.FigureOf(s.ID())
	require.True(t, ok)
	require.Same(t, fig, got)

	_, ok = tree.FigureOf(tree.Session().ID())
	require.False(t, ok)
}

func TestTreeLogsMutations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tree := NewTree("session", WithLogger(zap.New(core)))
	fig, _ := tree.NewFigure("f")
	require.NoError(t, tree.Rename(fig.ID(), "g"))
	require.NoError(t, tree.Delete(fig.ID()))

	require.Equal(t, 1, logs.FilterMessage("element added").Len())
	require.Equal(t, 1, logs.FilterMessage("element renamed").Len())
	require.Equal(t, 1, logs.FilterMessage("element deleted").Len())
}

func TestTreeSharedBus(t *testing.T) {
	bus := NewBus()
	rec := &recorder{}
	defer bus.Subscribe(rec.handle)()

	tree := NewTree("s", WithBus(bus))
	_, err := tree.NewFigure("f")
	require.NoError(t, err)
	require.Len(t, rec.events, 1)
}
