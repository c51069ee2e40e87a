package reachability

import (
	"errors"
	"log/slog"
	"time"
)

const defaultInterval = 2 * time.Second

// Option is a functional option for configuring a [Monitor] via [New].
type Option func(*options) error

type options struct {
	interval *time.Duration
	logger   *slog.Logger
}

// WithInterval sets how often the Prober is consulted.
func WithInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		o.interval = &d
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] used to report status changes.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}
