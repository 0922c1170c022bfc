// Command avoplot opens FTIR spectra in a terminal browser.
//
// Usage:
//
//	avoplot [flags] [file...]
//
// Every file is plotted into its own figure. Series can be renamed, deleted
// and fitted from the browser, and figures saved as images.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/config"
	"github.com/cwbudde/avoplot/internal/logging"
	"github.com/cwbudde/avoplot/internal/tui"
	"github.com/cwbudde/avoplot/plot"
	"github.com/cwbudde/avoplot/plugin"
	"github.com/cwbudde/avoplot/plugins/ftir"
	"github.com/cwbudde/avoplot/render"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "settings file")
	outDir := flag.String("out", ".", "directory saved figures are written to")
	format := flag.String("format", "png", "saved figure format: png, svg or pdf")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: avoplot [flags] [file...]\n\n")
		fmt.Fprintf(os.Stderr, "Browse FTIR spectra and fit their water peaks.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *logFile != "" {
		logger, err = logging.New(logging.WithLevel(settings.LogLevel), logging.WithOutput(*logFile))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()

	tree := plot.NewTree("AvoPlot", plot.WithLogger(logging.Component(logger, "tree")))
	reg := plugin.NewRegistry()
	reg.MustRegister(ftir.New(
		ftir.WithFitOptions(settings.FitOptions()...),
		ftir.WithSmoothing(settings.SmoothingSigma),
		ftir.WithLogger(logging.Component(logger, "ftir")),
	))

	for _, path := range flag.Args() {
		if _, err := reg.Plot(tree, ftir.Name, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings.RememberSpectrum(path)
	}

	figures, err := render.NewFigures(tree, render.New(render.WithLogger(logger)), *outDir, "."+strings.TrimPrefix(*format, "."))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = tui.Run(tui.Config{
		Tree:     tree,
		Registry: reg,
		Figures:  figures,
		Logger:   logging.Component(logger, "tui"),
	})
	if saveErr := settings.Save(*configPath); saveErr != nil {
		logger.Warn("save settings", zap.Error(saveErr))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
