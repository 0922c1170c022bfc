// Command ftirfit measures the water peak of FTIR spectrum files.
//
// Usage:
//
//	ftirfit [flags] file...
//
// Each file is loaded, optionally smoothed, classified and fitted. Results
// are printed as a table.
//
// Examples:
//
//	ftirfit sample.csv
//	ftirfit -plot out/ -workers 8 spectra/*.csv
//	ftirfit -parquet results.parquet -tol 20 spectra/*.csv.gz
//	ftirfit -smooth 2 -export-csv smoothed/ -summary spectra/*.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/config"
	"github.com/cwbudde/avoplot/internal/batch"
	"github.com/cwbudde/avoplot/internal/logging"
	"github.com/cwbudde/avoplot/render"
	"github.com/cwbudde/avoplot/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ftirfit", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "settings file")
	saveConfig := fs.Bool("save-config", false, "also write the effective fit settings back to -config")
	workers := fs.Int("workers", 0, "concurrent fits (default from settings)")
	sigma := fs.Float64("smooth", 0, "Gaussian smoothing sigma in samples (0 disables)")
	plotDir := fs.String("plot", "", "render each fit into this directory")
	format := fs.String("format", "png", "plot image format: png, svg or pdf")
	parquetPath := fs.String("parquet", "", "also write results to this parquet file")
	exportDir := fs.String("export-csv", "", "write each preprocessed spectrum as CSV into this directory")
	summary := fs.Bool("summary", false, "print input spectrum statistics after the results")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	left := fs.Float64("left", 0, "left edge of the peak window in cm-1")
	right := fs.Float64("right", 0, "right edge of the peak window in cm-1")
	offset := fs.Float64("offset", 0, "target distance of each minimum from its window edge")
	tol := fs.Float64("tol", 0, "window refinement tolerance")
	degree := fs.Int("degree", 0, "background polynomial degree")
	maxIter := fs.Int("max-iter", 0, "window refinement iteration limit (0 means unlimited)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ftirfit [flags] file...\n\n")
		fmt.Fprintf(os.Stderr, "Measures the water peak height of FTIR spectra.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ftirfit sample.csv\n")
		fmt.Fprintf(os.Stderr, "  ftirfit -plot out/ -workers 8 spectra/*.csv\n")
		fmt.Fprintf(os.Stderr, "  ftirfit -parquet results.parquet spectra/*.csv.gz\n")
		fmt.Fprintf(os.Stderr, "  ftirfit -smooth 2 -export-csv smoothed/ -summary spectra/*.csv\n")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return 2
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load settings: %v\n", err)
		return 1
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			settings.Workers = *workers
		case "smooth":
			settings.SmoothingSigma = *sigma
		case "log-level":
			settings.LogLevel = *logLevel
		case "left":
			settings.WindowLeft = *left
		case "right":
			settings.WindowRight = *right
		case "offset":
			settings.TargetOffset = *offset
		case "tol":
			settings.Tolerance = *tol
		case "degree":
			settings.Degree = *degree
		case "max-iter":
			settings.MaxIterations = *maxIter
		}
	})

	logger, err := logging.New(logging.WithLevel(settings.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger = logging.Component(logger, "ftirfit")

	if *plotDir != "" {
		if _, err := render.Format("x." + *format); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		if err := os.MkdirAll(*plotDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	if *exportDir != "" {
		if err := os.MkdirAll(*exportDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := batch.Run(ctx, files, batch.Options{
		Workers:    settings.Workers,
		Smoothing:  settings.SmoothingSigma,
		PlotDir:    *plotDir,
		PlotFormat: *format,
		ExportDir:  *exportDir,
		FitOptions: settings.FitOptions(),
		Logger:     logger,
		Renderer:   render.New(render.WithLogger(logger)),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := report.WriteTable(os.Stdout, records); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write output: %v\n", err)
		return 1
	}

	if *summary {
		fmt.Println()
		if err := report.WriteSummary(os.Stdout, records); err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to write output: %v\n", err)
			return 1
		}
	}

	if *parquetPath != "" {
		if err := report.WriteParquetFile(*parquetPath, records); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	// The last-used directory is always remembered; flag overrides only
	// with -save-config.
	persist := settings
	if !*saveConfig {
		if persist, err = config.Load(*configPath); err != nil {
			logger.Warn("reload settings", zap.Error(err))
			persist = config.DefaultSettings()
		}
	}
	persist.RememberSpectrum(files[len(files)-1])
	if err := persist.Save(*configPath); err != nil {
		logger.Warn("save settings", zap.Error(err))
	}

	for _, r := range records {
		if !r.OK() {
			return 1
		}
	}
	return 0
}
