package throttle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	testCases := map[string]struct {
		cfg    Config
		next   http.RoundTripper
		expErr error
	}{
		"zeroRPS":       {cfg: Config{RPS: 0, Burst: 10}, next: http.DefaultTransport, expErr: ErrMustNotBeZero},
		"negativeRPS":   {cfg: Config{RPS: -5, Burst: 10}, next: http.DefaultTransport, expErr: ErrMustNotBeZero},
		"zeroBurst":     {cfg: Config{RPS: 10, Burst: 0}, next: http.DefaultTransport, expErr: ErrMustNotBeZero},
		"negativeBurst": {cfg: Config{RPS: 10, Burst: -5}, next: http.DefaultTransport, expErr: ErrMustNotBeZero},
		"nilNext":       {cfg: Config{RPS: 10, Burst: 5}, next: nil, expErr: ErrNilTransport},
		"valid":         {cfg: Config{RPS: 10, Burst: 20}, next: http.DefaultTransport},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			rt, err := New(tc.cfg, nil, tc.next)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if rt == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

func TestLimiter_RoundTrip(t *testing.T) {
	testCases := map[string]struct {
		cfg         Config
		numRequests int
		reqTimeout  time.Duration
		preCancel   bool
		expErrs     int
		expErr      error
		minDuration time.Duration
		maxDuration time.Duration
	}{
		"withinBurst": {
			cfg:         Config{RPS: 5, Burst: 5},
			numRequests: 5,
			maxDuration: 200 * time.Millisecond,
		},
		"exceedBurstSucceedWaiting": {
			cfg:         Config{RPS: 10, Burst: 5},
			numRequests: 8,
			reqTimeout:  time.Second,
			// (8-5) calls / 10 RPS, minus a little scheduling slack.
			minDuration: 250 * time.Millisecond,
		},
		"exceedBurstTimeoutWaiting": {
			cfg:         Config{RPS: 5, Burst: 2},
			numRequests: 5,
			reqTimeout:  50 * time.Millisecond,
			expErrs:     3,
			expErr:      ErrWaitingFailed,
		},
		"preCancelledContext": {
			cfg:         Config{RPS: 20, Burst: 10},
			numRequests: 1,
			preCancel:   true,
			expErrs:     1,
			expErr:      ErrContextEnded,
			maxDuration: 50 * time.Millisecond,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			rt, err := New(tc.cfg, func() *slog.Logger { return slog.New(slog.DiscardHandler) }, http.DefaultTransport)
			if err != nil {
				t.Fatal(err)
			}
			hc := &http.Client{Transport: rt}

			var wg sync.WaitGroup
			errs := make([]error, tc.numRequests)
			start := time.Now()

			for i := range tc.numRequests {
				wg.Go(func() {
					ctx, cancel := context.WithCancel(t.Context())
					if tc.reqTimeout > 0 {
						ctx, cancel = context.WithTimeout(t.Context(), tc.reqTimeout)
					}
					defer cancel()
					if tc.preCancel {
						cancel()
					}

					req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
					if err != nil {
						errs[i] = err
						return
					}

					resp, err := hc.Do(req)
					if err != nil {
						errs[i] = err
						return
					}
					resp.Body.Close()
				})
			}
			wg.Wait()
			elapsed := time.Since(start)

			var failed int
			for i, err := range errs {
				if err == nil {
					continue
				}
				failed++
				t.Logf("request %d failed with: %v", i, err)
				if tc.expErr != nil && !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
			}

			if failed != tc.expErrs {
				t.Errorf("exp %d failed requests; got %d", tc.expErrs, failed)
			}
			if got, exp := calls.Load(), int32(tc.numRequests-failed); got != exp {
				t.Errorf("exp %d calls to reach the server; got %d", exp, got)
			}
			if tc.minDuration > 0 && elapsed < tc.minDuration {
				t.Errorf("exp throttle to slow calls to >= %v; took %v", tc.minDuration, elapsed)
			}
			if tc.maxDuration > 0 && elapsed > tc.maxDuration {
				t.Errorf("exp calls to finish within %v; took %v", tc.maxDuration, elapsed)
			}
		})
	}
}
