package tpool

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type config struct {
	logger         *slog.Logger
	level          *slog.Level
	registerer     prometheus.Registerer
	name           string
	respawnOnPanic bool
}

func defaultConfig() config {
	return config{
		logger:         slog.New(slog.DiscardHandler),
		level:          nil,
		registerer:     nil,
		name:           "",
		respawnOnPanic: false,
	}
}

func WithLogger(l *slog.Logger) func(*config) {
	return func(c *config) { c.logger = l }
}

// WithLogLevel drops pool records below l. It can only raise the threshold
// of the logger's own handler, never lower it.
func WithLogLevel(l slog.Level) func(*config) {
	return func(c *config) { c.level = &l }
}

// WithMetrics registers the pool's collectors with r until Stop. Without it
// the collectors are still maintained but never exported.
func WithMetrics(r prometheus.Registerer) func(*config) {
	return func(c *config) { c.registerer = r }
}

// WithName sets the pool identity used in log records and as the "pool"
// metric label. Defaults to a random UUID.
func WithName(name string) func(*config) {
	return func(c *config) { c.name = name }
}

// WithRespawnOnPanic replaces a worker whose job panicked with a fresh one
// carrying the same id. Without it the pool runs one worker short for the
// rest of its life.
func WithRespawnOnPanic() func(*config) {
	return func(c *config) { c.respawnOnPanic = true }
}
