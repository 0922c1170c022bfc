package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/spectrum"
)

func sampleRecords() []Record {
	res := &waterpeak.Result{
		Points: waterpeak.Points{X: []float64{1, 2, 3, 4}, Y: []float64{1, 1, 1, 1}, Iterations: 3, Compensated: true},
		Peak:   waterpeak.Peak{Height: 1.25, Wavenumber: 3450.5, Background: 0.3},
	}
	return []Record{
		NewRecord("a.csv", waterpeak.ClassWellBehaved, res, nil),
		NewRecord("b.csv", waterpeak.ClassLowH2O, nil, waterpeak.ErrFittingPointsNotFound),
	}
}

func TestNewRecord(t *testing.T) {
	recs := sampleRecords()

	require.Equal(t, Record{
		File:        "a.csv",
		Class:       "Well behaved",
		PeakHeight:  1.25,
		Wavenumber:  3450.5,
		Background:  0.3,
		FitPoints:   4,
		Iterations:  3,
		Compensated: true,
	}, recs[0])
	require.True(t, recs[0].OK())

	require.False(t, recs[1].OK())
	require.Equal(t, "Low H2O", recs[1].Class)
	require.Contains(t, recs[1].Error, "fitting points not found")
	require.Zero(t, recs[1].PeakHeight)

	require.Equal(t, "x", NewRecord("x", waterpeak.ClassUnknown, nil, nil).File)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "File"))
	require.Contains(t, lines[2], "1.250000")
	require.Contains(t, lines[2], "3450.50")
	require.Contains(t, lines[3], "fitting points not found")
}

func TestWriteSummary(t *testing.T) {
	s, err := spectrum.New([]float64{4000, 3000, 2000}, []float64{0.5, 1.5, 1})
	require.NoError(t, err)
	recs := sampleRecords()
	recs[0] = recs[0].WithSummary(s.Summary())

	require.Equal(t, int64(3), recs[0].Samples)
	require.Equal(t, 2000.0, recs[0].XMin)
	require.Equal(t, 4000.0, recs[0].XMax)
	require.Equal(t, 1.5, recs[0].MaxAbsorbance)
	require.InDelta(t, 1.0, recs[0].MeanAbsorbance, 1e-12)
	require.Equal(t, 1.25, recs[0].PeakHeight, "fit columns are kept")

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, recs))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[2], "2000.0-4000.0")
	require.Contains(t, lines[2], "1.500000")
	require.True(t, strings.HasPrefix(lines[3], "b.csv"))
	require.Contains(t, lines[3], "-")

	require.Error(t, WriteSummary(failingWriter{}, recs))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTableError(t *testing.T) {
	require.Error(t, WriteTable(failingWriter{}, sampleRecords()))
}

func TestParquetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := sampleRecords()
	require.NoError(t, WriteParquet(&buf, want))

	got, err := ReadParquet(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.parquet")
	require.NoError(t, WriteParquetFile(path, sampleRecords()))

	got, err := ReadParquetFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b.csv", got[1].File)

	_, err = ReadParquetFile(filepath.Join(t.TempDir(), "missing.parquet"))
	require.Error(t, err)
}
