package pls

import (
	"github.com/abkoesdw/esl/pkg/log"
)

// config holds the settings shared by Fit, Fitter and PLSRegression.
type config struct {
	failOnDegenerate bool
	tolerance        float64
	logger           log.Logger
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLogger().With(log.ComponentKey, "pls")
	}
	return cfg
}

// Option configures the direction extraction.
type Option func(*config)

// WithFailOnDegenerate makes a degenerate direction a hard failure. Fit then
// returns a DegenerateDirectionError instead of a model built from the
// directions extracted so far.
func WithFailOnDegenerate() Option {
	return func(c *config) {
		c.failOnDegenerate = true
	}
}

// WithDegenerateTolerance treats a direction after the first as degenerate
// when its squared norm is at most tol times that of the first direction. The
// default of 0 only stops on an exactly zero direction. Negative values are
// treated as 0.
func WithDegenerateTolerance(tol float64) Option {
	return func(c *config) {
		if tol < 0 {
			tol = 0
		}
		c.tolerance = tol
	}
}

// WithLogger sets the logger used for per-direction debug records and early
// stop warnings.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
