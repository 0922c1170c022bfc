// Package config holds the persistent application settings shared by the
// front ends.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cwbudde/avoplot/measure/waterpeak"
	"github.com/cwbudde/avoplot/spectrum"
)

// Settings holds all configuration options.
type Settings struct {
	// Directory the last spectrum was opened from
	LastSpectraDir string `json:"ftir_spectra_dir"`

	// Water-peak fit
	WindowLeft    float64 `json:"window_left"`
	WindowRight   float64 `json:"window_right"`
	TargetOffset  float64 `json:"target_offset"`
	Tolerance     float64 `json:"tolerance"`
	MinLeftBound  float64 `json:"min_left_bound"`
	Degree        int     `json:"background_degree"`
	MaxIterations int     `json:"max_iterations"`

	// Preprocessing; 0 disables smoothing
	SmoothingSigma float64 `json:"smoothing_sigma"`

	// Batch runs
	Workers  int    `json:"workers"`
	LogLevel string `json:"log_level"` // debug, info, warn, error
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	cfg := waterpeak.DefaultConfig()
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		LastSpectraDir: homeDir,

		WindowLeft:    cfg.Window.Left,
		WindowRight:   cfg.Window.Right,
		TargetOffset:  cfg.TargetOffset,
		Tolerance:     cfg.Tolerance,
		MinLeftBound:  cfg.MinLeftBound,
		Degree:        cfg.Degree,
		MaxIterations: cfg.MaxIterations,

		Workers:  4,
		LogLevel: "info",
	}
}

// DefaultPath is the settings file below the user configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "avoplot", "settings.json")
}

// Load reads settings from a JSON file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// RememberSpectrum records the directory of a file the user just opened.
func (s *Settings) RememberSpectrum(path string) {
	if path == "" {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s.LastSpectraDir = filepath.Dir(path)
}

// FitOptions converts settings to water-peak options. Out-of-range values
// are left to the option validators.
func (s *Settings) FitOptions() []waterpeak.Option {
	return []waterpeak.Option{
		waterpeak.WithWindow(spectrum.Window{Left: s.WindowLeft, Right: s.WindowRight}),
		waterpeak.WithTargetOffset(s.TargetOffset),
		waterpeak.WithTolerance(s.Tolerance),
		waterpeak.WithMinLeftBound(s.MinLeftBound),
		waterpeak.WithDegree(s.Degree),
		waterpeak.WithMaxIterations(s.MaxIterations),
	}
}
