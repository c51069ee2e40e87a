package throttle

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
	ErrNilTransport  = errors.New("next transport must not be nil")
)

// Config holds the bucket refill rate, in requests per second,
// and the bucket size.
type Config struct {
	RPS   int
	Burst int
}

// Validate reports whether both limits are usable by the limiter.
func (c Config) Validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}

	return nil
}

// limiter is an http.RoundTripper gating each call on a token.
type limiter struct {
	bucket *rate.Limiter
	cfg    Config
	next   http.RoundTripper
	logFn  func() *slog.Logger
}

// New wraps next with a token bucket built from cfg. logFn is resolved on
// every call so the client's logger can be swapped after construction; a
// nil logFn, or one returning nil, disables the wait logs.
func New(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if next == nil {
		return nil, ErrNilTransport
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	l := &limiter{
		bucket: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cfg:    cfg,
		next:   next,
		logFn:  logFn,
	}

	return l, nil
}

func (l *limiter) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	logger := l.logFn()

	// Reserving up front tells us whether this call has to queue, without
	// consuming a second token the way Allow followed by Wait would.
	res := l.bucket.Reserve()
	if !res.OK() {
		return nil, fmt.Errorf("%w: burst %d exceeded", ErrWaitingFailed, l.cfg.Burst)
	}

	if delay := res.Delay(); delay > 0 {
		if logger != nil {
			logger.Info("throttle tokens exhausted", "rate", l.cfg.RPS, "burst", l.cfg.Burst, "path", r.URL.Path, "delay", delay.String())
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			res.Cancel()
			return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, ctx.Err())
		}

		if logger != nil {
			logger.Info("throttle wait complete", "waited", delay.String(), "rate", l.cfg.RPS, "burst", l.cfg.Burst)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return l.next.RoundTrip(r)
}
