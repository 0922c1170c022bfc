package render

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/plot"
	"github.com/cwbudde/avoplot/plot/toolbar"
)

type fitPanel struct{ res *waterpeak.Result }

func (p fitPanel) Title() string               { return "Background Fit" }
func (p fitPanel) Result() *waterpeak.Result { return p.res }

func figureTree(t *testing.T) (*plot.Tree, *plot.Figure) {
	t.Helper()
	s, res := fittedSpectrum(t)

	tree := plot.NewTree("session")
	fig, err := tree.NewFigure("sample")
	require.NoError(t, err)
	sub, err := tree.AddSubplot(fig.ID(), "Subplot", plot.SubplotXY)
	require.NoError(t, err)
	sub.XLabel = "Wavenumber (cm-1)"
	sub.InvertX = true

	series, err := plot.NewXYSeries("sample.csv", s.X(), s.Y(), plot.SubplotXY)
	require.NoError(t, err)
	series.AddControlPanel(fitPanel{res: res})
	require.NoError(t, tree.AddSeries(sub.ID(), series))

	_, err = tree.AddSubplot(fig.ID(), "Empty", plot.SubplotXY)
	require.NoError(t, err)
	return tree, fig
}

func TestFiguresSave(t *testing.T) {
	tree, fig := figureTree(t)
	dir := t.TempDir()
	figs, err := NewFigures(tree, New(), dir, ".png")
	require.NoError(t, err)

	plots, err := figs.Plots(fig.ID())
	require.NoError(t, err)
	require.Len(t, plots, 2)

	require.NoError(t, figs.Save(fig.ID()))
	requireNonEmptyFile(t, filepath.Join(dir, "sample.png"))

	path, err := figs.SaveAs(fig.ID(), filepath.Join(dir, "nested", "copy.svg"))
	require.NoError(t, err)
	requireNonEmptyFile(t, path)

	_, err = figs.SaveAs(tree.Session().ID(), "")
	require.ErrorIs(t, err, plot.ErrUnknownElement)

	_, err = NewFigures(tree, New(), dir, ".gif")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFiguresZoomAndHome(t *testing.T) {
	tree, fig := figureTree(t)
	figs, err := NewFigures(tree, New(), t.TempDir(), ".png")
	require.NoError(t, err)

	require.NoError(t, figs.Zoom(fig.ID(), Range{Min: 3000, Max: 4000}))
	plots, err := figs.Plots(fig.ID())
	require.NoError(t, err)
	require.Equal(t, 3000.0, plots[0].X.Min)
	require.Equal(t, 4000.0, plots[0].X.Max)

	require.NoError(t, figs.Home(fig.ID()))
	plots, err = figs.Plots(fig.ID())
	require.NoError(t, err)
	require.Less(t, plots[0].X.Min, 3000.0)

	require.ErrorIs(t, figs.Zoom(999, Range{}), plot.ErrUnknownElement)
	require.ErrorIs(t, figs.Home(999), plot.ErrUnknownElement)
}

func TestFiguresDriveToolbar(t *testing.T) {
	tree, fig := figureTree(t)
	dir := t.TempDir()
	figs, err := NewFigures(tree, New(), dir, ".png")
	require.NoError(t, err)

	tb := toolbar.New(tree, figs)
	defer tb.Close()
	require.True(t, tb.PlotToolsEnabled())

	require.NoError(t, tree.Select(fig.ID()))
	require.NoError(t, tb.Save())
	requireNonEmptyFile(t, filepath.Join(dir, "sample.png"))

	require.NoError(t, tb.ToggleZoom())
	require.Equal(t, toolbar.ModeZoom, figs.Mode(fig.ID()))
}
