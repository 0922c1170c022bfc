// Package batch fits the water peak of many spectrum files concurrently.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/avoplot/dsp/smooth"
	"github.com/cwbudde/avoplot/internal/logging"
	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/render"
	"github.com/cwbudde/avoplot/report"
	"github.com/cwbudde/avoplot/spectrum"
	"github.com/cwbudde/avoplot/spectrum/specio"
)

// Options controls a batch run.
type Options struct {
	// Workers bounds concurrent fits; values below 1 mean 1.
	Workers int
	// Smoothing is the Gaussian sigma in samples applied before fitting.
	Smoothing float64
	// PlotDir enables rendering of every successful fit when set.
	PlotDir string
	// PlotFormat is the image extension, ".png" by default.
	PlotFormat string
	// ExportDir receives the preprocessed spectrum of every loaded file as
	// CSV when set.
	ExportDir  string
	FitOptions []waterpeak.Option
	Logger     *zap.Logger
	Renderer   *render.Renderer
}

func (o *Options) normalize() {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.PlotFormat == "" {
		o.PlotFormat = ".png"
	}
	if !strings.HasPrefix(o.PlotFormat, ".") {
		o.PlotFormat = "." + o.PlotFormat
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Renderer == nil {
		o.Renderer = render.New(render.WithLogger(o.Logger))
	}
}

// Run processes files and returns one record per file in input order.
// Per-file failures are reported in the record; only cancellation of ctx
// fails the whole run.
func Run(ctx context.Context, files []string, opts Options) ([]report.Record, error) {
	opts.normalize()
	records := make([]report.Record, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	stems := outputStems(files)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = processFile(file, stems[i], opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// outputStems names the plot and export files of each input. Inputs that
// share a base name are prefixed with their position so that concurrent
// workers never write the same file.
func outputStems(files []string) []string {
	stems := make([]string, len(files))
	seen := make(map[string]int, len(files))
	for i, file := range files {
		name := filepath.Base(file)
		stems[i] = strings.TrimSuffix(name, filepath.Ext(name))
		seen[stems[i]]++
	}
	for i, stem := range stems {
		if seen[stem] > 1 {
			stems[i] = fmt.Sprintf("%d_%s", i+1, stem)
		}
	}
	return stems
}

func processFile(file, stem string, opts Options) report.Record {
	name := filepath.Base(file)
	log := opts.Logger.With(zap.String(logging.FieldFile, name))

	s, err := specio.Load(file)
	if err != nil {
		log.Warn("load failed", zap.Error(err))
		return report.NewRecord(name, waterpeak.ClassUnknown, nil, err)
	}

	if opts.Smoothing > 0 {
		ys, err := smooth.Smooth(s.Y(), opts.Smoothing)
		if err == nil {
			s, err = spectrum.New(s.X(), ys)
		}
		if err != nil {
			log.Warn("smoothing failed", zap.Error(err))
			return report.NewRecord(name, waterpeak.ClassUnknown, nil, err)
		}
	}
	sum := s.Summary()

	if opts.ExportDir != "" {
		if err := exportCSV(filepath.Join(opts.ExportDir, stem+".csv"), s); err != nil {
			log.Warn("export failed", zap.Error(err))
			return report.NewRecord(name, waterpeak.ClassUnknown, nil, err).WithSummary(sum)
		}
	}

	class, err := waterpeak.Classify(s, opts.FitOptions...)
	if err != nil {
		log.Debug("classification failed", zap.Error(err))
	}

	fitOpts := append([]waterpeak.Option{waterpeak.WithLogger(log)}, opts.FitOptions...)
	if opts.PlotDir != "" {
		path := filepath.Join(opts.PlotDir, stem+opts.PlotFormat)
		fitOpts = append(fitOpts, waterpeak.WithObserver(opts.Renderer.Observer(s, path)))
	}

	res, err := waterpeak.Fit(s, fitOpts...)
	if err != nil {
		log.Warn("fit failed", zap.Error(err))
		return report.NewRecord(name, class, nil, err).WithSummary(sum)
	}

	log.Info("fitted",
		zap.String("class", class.String()),
		zap.Float64("height", res.Peak.Height),
		zap.Float64("wavenumber", res.Peak.Wavenumber),
	)
	return report.NewRecord(name, class, res, nil).WithSummary(sum)
}

func exportCSV(path string, s *spectrum.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := specio.Write(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
