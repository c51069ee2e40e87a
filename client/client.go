package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/mkapi/client/reachability"
	"github.com/adamwoolhether/mkapi/client/throttle"
)

// Client issues typed JSON requests over an [http.Client], refusing to
// send anything while its [Reachability] reports the network as down.
// A Client is safe for concurrent use.
type Client struct {
	c          *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	reach      Reachability

	// monitor is set only when the Client created the reachability
	// monitor itself, and is stopped by Close.
	monitor *reachability.Monitor
}

// Build creates a Client from the given options.
//
// Unless [WithReachability] is given, Build creates a reachability monitor
// backed by [reachability.InterfaceProber] (or the prober from [WithProber]),
// starts it, and hands it to the Client. Call [Client.Close] to stop it.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("validating client options: %w", err)
	}

	client := &Client{
		c:          &http.Client{},
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer("no-op tracer"),
		propagator: otel.GetTextMapPropagator(),
	}

	if opts.client != nil {
		hc := *opts.client
		client.c = &hc
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.propagator != nil {
		client.propagator = opts.propagator
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.New(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	if opts.reach != nil {
		client.reach = opts.reach
		return client, nil
	}

	prober := opts.prober
	if prober == nil {
		prober = reachability.InterfaceProber()
	}
	monOpts := []reachability.Option{reachability.WithLogger(client.logger)}
	if opts.probeInterval != nil {
		monOpts = append(monOpts, reachability.WithInterval(*opts.probeInterval))
	}

	monitor, err := reachability.New(prober, monOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating reachability monitor: %w", err)
	}
	if err := monitor.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("starting reachability monitor: %w", err)
	}

	client.reach = monitor
	client.monitor = monitor

	return client, nil
}

// Close stops the reachability monitor created by Build. A monitor
// supplied through WithReachability is left running. Requests made after
// Close see the last observed network status.
func (c *Client) Close() {
	if c.monitor != nil {
		c.monitor.Stop()
	}
}

// gate refuses a call while the network is reported down.
func (c *Client) gate(method Method, u *url.URL) error {
	if c.reach.IsConnected() {
		return nil
	}

	err := newError(ErrNoInternet, nil)
	c.logger.Debug("request refused", "method", method.String(), "url", u.String(), "error", err)

	return err
}

// exec sends req, checks for a 200 and hands the body to decode. Any
// returned error is a *NetworkError.
func (c *Client) exec(req *http.Request, decode decodeFn) error {
	ctx, span := c.startSpan(req.Context(), req)
	defer span.End()

	req = req.WithContext(ctx)
	reqID := c.tagRequest(ctx, span, req)

	start := time.Now()
	status := 0
	logger := c.logger.With("method", req.Method, "url", req.URL.String(), "request_id", reqID)

	err := func() *NetworkError {
		resp, err := c.c.Do(req)
		if err != nil {
			return newError(ErrCustom, err)
		}

		defer func() {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				logger.Error("failed to discard unused body", "error", err)
			}
			if err := resp.Body.Close(); err != nil {
				logger.Error("failed to close response body", "error", err)
			}
		}()

		status = resp.StatusCode
		if resp.StatusCode != http.StatusOK {
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
			if err != nil {
				b = []byte("unable to read body")
			}

			return &NetworkError{
				Err:        ErrInvalidResponse,
				StatusCode: resp.StatusCode,
				Body:       string(b),
			}
		}

		if err := decode(resp.Body); err != nil {
			return normalize(err)
		}

		return nil
	}()

	c.endSpan(span, status, err)

	if err != nil {
		logger.Debug("request failed", "status", status, "since", time.Since(start).String(), "error", err)
		return err
	}

	logger.Debug("request completed", "status", status, "since", time.Since(start).String())

	return nil
}

// newRequest builds the transient request for one call. body is nil for
// verbs that carry no payload.
func newRequest(ctx context.Context, method Method, u *url.URL, body []byte, settings callOpts) (*http.Request, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	var payload io.Reader
	if body != nil {
		payload = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method.String(), u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	req.Header.Set(headerAccept, mimeJSON)
	if body != nil {
		req.Header.Set(headerContentType, mimeJSON)
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// parseURL accepts only absolute URLs with a host.
func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute url", rawURL)
	}

	return u, nil
}
