package client

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/mkapi/client/reachability"
	"github.com/adamwoolhether/mkapi/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	propagator        propagation.TextMapPropagator
	reach             Reachability
	prober            reachability.Prober
	probeInterval     *time.Duration
}

// WithClient replaces the default [http.Client] used by the [Client].
// The given client is copied, so later option changes do not leak into it.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// Without it the transport's defaults apply.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
// The redirect status is then reported as ErrInvalidResponse.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to open one client span per request.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithPropagator sets the propagator that writes trace headers onto
// outgoing requests. The global otel propagator is used otherwise.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *options) error {
		if p == nil {
			return errors.New("propagator must not be nil")
		}
		c.propagator = p
		return nil
	}
}

// WithReachability gates requests on r. The caller owns r's lifecycle;
// [Client.Close] leaves it running.
func WithReachability(r Reachability) Option {
	return func(c *options) error {
		if r == nil {
			return errors.New("reachability must not be nil")
		}
		c.reach = r
		return nil
	}
}

// WithProber replaces the prober of the monitor the [Client] creates and
// owns when [WithReachability] is not given. interval <= 0 keeps the default.
func WithProber(p reachability.Prober, interval time.Duration) Option {
	return func(c *options) error {
		if p == nil {
			return errors.New("prober must not be nil")
		}
		c.prober = p
		if interval > 0 {
			c.probeInterval = &interval
		}
		return nil
	}
}

func (o *options) validate() error {
	if o.reach != nil && o.prober != nil {
		return errors.New("WithReachability and WithProber are mutually exclusive")
	}

	return nil
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// CallOption is a functional option for a single [Get], [Post] or [Delete] call.
type CallOption func(*callOpts)

type callOpts struct {
	headers    map[string][]string
	cookies    []*http.Cookie
	useJSONNum bool
	validate   bool
}

// WithHeaders adds custom headers to the outgoing request.
func WithHeaders(headers map[string][]string) CallOption {
	return func(opts *callOpts) {
		opts.headers = headers
	}
}

// WithCookies attaches the given cookies to the outgoing request.
func WithCookies(cookies ...*http.Cookie) CallOption {
	return func(opts *callOpts) {
		opts.cookies = cookies
	}
}

// WithJSONNumb tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumb() CallOption {
	return func(opts *callOpts) {
		opts.useJSONNum = true
	}
}

// WithValidation checks struct payloads and decoded responses against
// their `validate` tags. A rejected payload fails with ErrEncoding and
// nothing is sent; a rejected response fails with ErrDecoding.
func WithValidation() CallOption {
	return func(opts *callOpts) {
		opts.validate = true
	}
}
