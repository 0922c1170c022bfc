// Package report exports water-peak results as text tables and parquet files.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/parquet-go/parquet-go"

	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/spectrum"
)

// Record is one row of a batch report.
type Record struct {
	File        string  `parquet:"file" json:"file"`
	Class       string  `parquet:"class" json:"class"`
	PeakHeight  float64 `parquet:"peak_height" json:"peakHeight"`
	Wavenumber  float64 `parquet:"peak_wavenumber" json:"peakWavenumber"`
	Background  float64 `parquet:"background" json:"background"`
	FitPoints   int64   `parquet:"fit_points" json:"fitPoints"`
	Iterations  int64   `parquet:"iterations" json:"iterations"`
	Compensated bool    `parquet:"compensated" json:"compensated"`
	Error       string  `parquet:"error" json:"error,omitempty"`

	// Input spectrum, zero when the file could not be loaded
	Samples        int64   `parquet:"samples" json:"samples"`
	XMin           float64 `parquet:"x_min" json:"xMin"`
	XMax           float64 `parquet:"x_max" json:"xMax"`
	MaxAbsorbance  float64 `parquet:"max_absorbance" json:"maxAbsorbance"`
	MeanAbsorbance float64 `parquet:"mean_absorbance" json:"meanAbsorbance"`
}

// OK reports whether the fit succeeded.
func (r Record) OK() bool { return r.Error == "" }

// NewRecord builds a row from a classification and a fit outcome. res is
// ignored when err is set.
func NewRecord(file string, class waterpeak.Class, res *waterpeak.Result, err error) Record {
	rec := Record{File: file, Class: class.String()}
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	if res == nil {
		return rec
	}
	rec.PeakHeight = res.Peak.Height
	rec.Wavenumber = res.Peak.Wavenumber
	rec.Background = res.Peak.Background
	rec.FitPoints = int64(len(res.Points.X))
	rec.Iterations = int64(res.Points.Iterations)
	rec.Compensated = res.Points.Compensated
	return rec
}

// WithSummary returns r with the spectrum statistics filled in.
func (r Record) WithSummary(sum spectrum.Summary) Record {
	r.Samples = int64(sum.Length)
	r.XMin = sum.XMin
	r.XMax = sum.XMax
	r.MaxAbsorbance = sum.Max
	r.MeanAbsorbance = sum.Mean
	return r
}

// WriteSummary prints the input statistics of each record.
func WriteSummary(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "File	Samples	Range (cm-1)	Max	Mean\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----	-------	------------	---	----\n"); err != nil {
		return err
	}
	for _, r := range records {
		if r.Samples == 0 {
			if _, err := fmt.Fprintf(tw, "%s	-	-	-	-\n", r.File); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(tw, "%s	%d	%.1f-%.1f	%.6f	%.6f\n",
			r.File, r.Samples, r.XMin, r.XMax, r.MaxAbsorbance, r.MeanAbsorbance); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteTable prints records as an aligned text table.
func WriteTable(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "File\tClass\tPeak Height\tWavenumber\tBackground\tPoints\tIterations\tCompensated\tError\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t-----\t-----------\t----------\t----------\t------\t----------\t-----------\t-----\n"); err != nil {
		return err
	}

	for _, r := range records {
		if !r.OK() {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\t-\t-\t%s\n", r.File, r.Class, r.Error); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%.6f\t%.2f\t%.6f\t%d\t%d\t%t\t\n",
			r.File,
			r.Class,
			r.PeakHeight,
			r.Wavenumber,
			r.Background,
			r.FitPoints,
			r.Iterations,
			r.Compensated,
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteParquet writes records as a zstd-compressed parquet file.
func WriteParquet(w io.Writer, records []Record) error {
	pw := parquet.NewGenericWriter[Record](w, parquet.Compression(&parquet.Zstd))
	if _, err := pw.Write(records); err != nil {
		_ = pw.Close()
		return fmt.Errorf("report: write parquet: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("report: close parquet: %w", err)
	}
	return nil
}

// ReadParquet reads every record of a parquet file written by WriteParquet.
func ReadParquet(ra io.ReaderAt) ([]Record, error) {
	gr := parquet.NewGenericReader[Record](ra)
	defer gr.Close()

	out := make([]Record, 0, gr.NumRows())
	batch := make([]Record, 256)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("report: read parquet: %w", err)
		}
	}
	return out, nil
}

// WriteParquetFile writes records to path.
func WriteParquetFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteParquet(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadParquetFile reads records from path.
func ReadParquetFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadParquet(f)
}
