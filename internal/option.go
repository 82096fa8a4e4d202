package internal

import "github.com/dalvah/planease/internal/alarm"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	clock  alarm.Clock
	seed   bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClock overrides the wall clock used by queries and the alarm scheduler.
func WithClock(c alarm.Clock) Option {
	return func(a *application) {
		a.clock = c
	}
}

// WithSeedData populates demo items on boot when the store starts empty.
func WithSeedData() Option {
	return func(a *application) {
		a.seed = true
	}
}
