package reachability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrAlreadyStarted = errors.New("monitor already started")
	ErrStopped        = errors.New("monitor stopped")
	ErrNilProber      = errors.New("prober must not be nil")
)

// Monitor tracks network reachability in the background.
// Its zero value is not usable; construct one with [New].
type Monitor struct {
	prober   Prober
	interval time.Duration
	logger   *slog.Logger

	connected atomic.Bool

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New returns a stopped Monitor backed by prober.
func New(prober Prober, optFns ...Option) (*Monitor, error) {
	if prober == nil {
		return nil, ErrNilProber
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying monitor option: %w", err)
		}
	}

	m := &Monitor{
		prober:   prober,
		interval: defaultInterval,
		logger:   slog.Default(),
	}
	if opts.interval != nil {
		m.interval = *opts.interval
	}
	if opts.logger != nil {
		m.logger = opts.logger
	}

	return m, nil
}

// Start records a first observation and then keeps observing on a
// background goroutine until Stop is called or ctx ends. When ctx ends
// first the status is no longer known and the Monitor reports disconnected.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.stopped:
		return ErrStopped
	case m.started:
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.started = true

	m.observe(ctx)

	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				if !m.isStopped() && m.connected.Swap(false) {
					m.logger.Info("network status changed", "connected", false, "reason", "observation ended")
				}
				return
			case <-ticker.C:
				m.observe(ctx)
			}
		}
	})

	return nil
}

// Stop ends observation and waits for the background goroutine to exit.
// The last observed status remains readable. Stop may be called more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Monitor) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stopped
}

// IsConnected returns the most recent observation. It never blocks.
func (m *Monitor) IsConnected() bool {
	return m.connected.Load()
}

func (m *Monitor) observe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	now := m.prober.Probe(probeCtx)
	if ctx.Err() != nil {
		return
	}

	if prev := m.connected.Swap(now); prev != now {
		m.logger.Info("network status changed", "connected", now)
	}
}
