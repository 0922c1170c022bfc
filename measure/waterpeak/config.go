package waterpeak

import (
	"go.uber.org/zap"

	"github.com/cwbudde/avoplot/spectrum"
)

const (
	defaultLeft          = 2200.0
	defaultRight         = 4000.0
	defaultTargetOffset  = 200.0
	defaultTolerance     = 30.0
	defaultMinLeftBound  = 2000.0
	defaultDegree        = 3
	defaultMaxIterations = 10000
)

// Observer is called with every successful fit result, typically to draw
// the fit samples, background curve and height label.
type Observer func(*Result)

// Config holds the fitting parameters.
type Config struct {
	// Window is both the initial refinement window and the window the peak
	// height is measured in.
	Window spectrum.Window
	// TargetOffset is the desired distance between each flanking minimum
	// and its crop bound.
	TargetOffset float64
	Tolerance    float64
	// MinLeftBound is the lowest acceptable wavenumber for the left minimum.
	MinLeftBound float64
	Degree       int
	// MaxIterations bounds window refinement; 0 disables the bound.
	MaxIterations int

	Logger   *zap.Logger
	Observer Observer
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the standard water-peak parameters.
func DefaultConfig() Config {
	return Config{
		Window:        spectrum.Window{Left: defaultLeft, Right: defaultRight},
		TargetOffset:  defaultTargetOffset,
		Tolerance:     defaultTolerance,
		MinLeftBound:  defaultMinLeftBound,
		Degree:        defaultDegree,
		MaxIterations: defaultMaxIterations,
		Logger:        zap.NewNop(),
	}
}

// WithWindow sets the standard crop window. Inverted windows are ignored.
func WithWindow(w spectrum.Window) Option {
	return func(cfg *Config) {
		if w.Validate() == nil {
			cfg.Window = w
		}
	}
}

// WithTargetOffset sets the minimum-to-bound target distance.
func WithTargetOffset(offset float64) Option {
	return func(cfg *Config) {
		if offset > 0 {
			cfg.TargetOffset = offset
		}
	}
}

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol > 0 {
			cfg.Tolerance = tol
		}
	}
}

// WithMinLeftBound sets the sanity threshold for the left minimum.
func WithMinLeftBound(x float64) Option {
	return func(cfg *Config) {
		cfg.MinLeftBound = x
	}
}

// WithDegree sets the background polynomial degree.
func WithDegree(degree int) Option {
	return func(cfg *Config) {
		if degree >= 0 {
			cfg.Degree = degree
		}
	}
}

// WithMaxIterations bounds window refinement. n <= 0 removes the bound.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n < 0 {
			n = 0
		}
		cfg.MaxIterations = n
	}
}

// WithLogger routes debug traces to l.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithObserver registers a post-fit callback.
func WithObserver(o Observer) Option {
	return func(cfg *Config) {
		cfg.Observer = o
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
