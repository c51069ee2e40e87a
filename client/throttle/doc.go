// Package throttle provides an opt-in [http.RoundTripper] that spaces out
// API calls using the token bucket from [golang.org/x/time/rate].
//
// The client package wires it in through client.WithThrottle; it can also
// wrap any transport directly:
//
//	rt, err := throttle.New(
//		throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// A call that finds the bucket empty blocks until a token frees up or its
// request context ends. The wait error is returned from RoundTrip, which the
// client surfaces as a transport failure.
package throttle
