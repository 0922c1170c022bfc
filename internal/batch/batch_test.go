package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/avoplot/internal/testutil"
	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/spectrum"
	"github.com/cwbudde/avoplot/spectrum/specio"
)

func writeFile(t *testing.T, dir, name string, y []float64, x []float64) string {
	t.Helper()
	s, err := spectrum.New(x, y)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, specio.Write(f, s))
	require.NoError(t, f.Close())
	return path
}

func fixtures(t *testing.T) (dir string, files []string) {
	t.Helper()
	dir = t.TempDir()
	x := testutil.Linspace(1000, 4500, 1000)
	good := testutil.WaterSpectrum(x, testutil.QuadraticBaseline(0.3, 2e-8, 2500), 3500, 5, 50)
	ramp := testutil.Ramp(x, 0.1, 1e-4)

	files = []string{
		writeFile(t, dir, "good.csv", good, x),
		writeFile(t, dir, "ramp.csv", ramp, x),
		filepath.Join(dir, "missing.csv"),
		writeFile(t, dir, "good2.csv", good, x),
	}
	return dir, files
}

func TestRunKeepsOrderAndReportsFailures(t *testing.T) {
	_, files := fixtures(t)

	recs, err := Run(context.Background(), files, Options{Workers: 3})
	require.NoError(t, err)
	require.Len(t, recs, 4)

	require.Equal(t, "good.csv", recs[0].File)
	require.True(t, recs[0].OK())
	require.InDelta(t, 5.0, recs[0].PeakHeight, 0.05)
	require.Equal(t, waterpeak.ClassWellBehaved.String(), recs[0].Class)

	require.Equal(t, "ramp.csv", recs[1].File)
	require.False(t, recs[1].OK())

	require.Equal(t, "missing.csv", recs[2].File)
	require.False(t, recs[2].OK())
	require.Equal(t, waterpeak.ClassUnknown.String(), recs[2].Class)

	require.Equal(t, recs[0].PeakHeight, recs[3].PeakHeight)
}

func TestRunRendersPlots(t *testing.T) {
	dir, files := fixtures(t)
	plotDir := filepath.Join(dir, "plots")
	require.NoError(t, os.MkdirAll(plotDir, 0o755))

	_, err := Run(context.Background(), files[:2], Options{PlotDir: plotDir, PlotFormat: "svg"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(plotDir, "good.svg"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(plotDir, "ramp.svg"))
	require.True(t, os.IsNotExist(err), "failed fits are not rendered")
}

func TestRunSeparatesDuplicateNames(t *testing.T) {
	dir, files := fixtures(t)
	other := filepath.Join(dir, "other")
	require.NoError(t, os.MkdirAll(other, 0o755))
	x := testutil.Linspace(1000, 4500, 1000)
	twin := writeFile(t, other, "good.csv",
		testutil.WaterSpectrum(x, testutil.QuadraticBaseline(0.3, 2e-8, 2500), 3500, 4, 50), x)

	plotDir := filepath.Join(dir, "plots")
	exportDir := filepath.Join(dir, "export")
	require.NoError(t, os.MkdirAll(plotDir, 0o755))
	require.NoError(t, os.MkdirAll(exportDir, 0o755))

	recs, err := Run(context.Background(), []string{files[0], twin, files[3]}, Options{
		Workers:   3,
		PlotDir:   plotDir,
		ExportDir: exportDir,
	})
	require.NoError(t, err)
	require.Equal(t, "good.csv", recs[1].File)

	for _, name := range []string{"1_good.png", "2_good.png", "good2.png"} {
		_, err := os.Stat(filepath.Join(plotDir, name))
		require.NoError(t, err, name)
	}

	first, err := specio.Load(filepath.Join(exportDir, "1_good.csv"))
	require.NoError(t, err)
	second, err := specio.Load(filepath.Join(exportDir, "2_good.csv"))
	require.NoError(t, err)
	require.InDelta(t, 5.3, first.Summary().Max, 0.05)
	require.InDelta(t, 4.3, second.Summary().Max, 0.05)
}

func TestOutputStems(t *testing.T) {
	require.Equal(t,
		[]string{"1_a", "b", "3_a", "c.csv"},
		outputStems([]string{"x/a.csv", "b.csv", "y/a.txt", "c.csv.gz"}))
}

func TestRunExportsPreprocessedSpectra(t *testing.T) {
	dir, files := fixtures(t)
	exportDir := filepath.Join(dir, "export")
	require.NoError(t, os.MkdirAll(exportDir, 0o755))

	recs, err := Run(context.Background(), files[:3], Options{Smoothing: 2, ExportDir: exportDir})
	require.NoError(t, err)

	exported, err := specio.Load(filepath.Join(exportDir, "good.csv"))
	require.NoError(t, err)
	original, err := specio.Load(files[0])
	require.NoError(t, err)
	require.Equal(t, original.Len(), exported.Len())
	require.Less(t, exported.Summary().Max, original.Summary().Max, "export holds the smoothed data")

	_, err = os.Stat(filepath.Join(exportDir, "ramp.csv"))
	require.NoError(t, err, "failed fits are still exported")
	_, err = os.Stat(filepath.Join(exportDir, "missing.csv"))
	require.True(t, os.IsNotExist(err))

	require.Equal(t, int64(1000), recs[0].Samples)
	require.Equal(t, 1000.0, recs[0].XMin)
	require.InDelta(t, 4500.0, recs[0].XMax, 1e-9)
	require.Equal(t, int64(1000), recs[1].Samples, "failed fits keep the summary")
	require.Zero(t, recs[2].Samples)
}

func TestRunWithSmoothing(t *testing.T) {
	_, files := fixtures(t)
	recs, err := Run(context.Background(), files[:1], Options{Smoothing: 2})
	require.NoError(t, err)
	require.True(t, recs[0].OK(), recs[0].Error)
	require.InDelta(t, 5.0, recs[0].PeakHeight, 0.1)
}

func TestRunCancelled(t *testing.T) {
	_, files := fixtures(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, files, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	recs, err := Run(context.Background(), nil, Options{})
	require.NoError(t, err)
	require.Empty(t, recs)
}
