package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/rester/client/throttle"
	"github.com/adamwoolhether/rester/client/transport"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client    *http.Client
	transport transport.Transport
	timeouts  transport.Config
	baseURL   *url.URL
	headers   map[string]string
	userAgent string
	throttle  *throttle.Config
	logger    *slog.Logger
	tracer    trace.Tracer
	origin    string
	category  string
}

// WithHTTPClient sets the [http.Client] the default transport is built from.
// It is ignored when [WithTransport] is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport injects the transport requests are submitted to, replacing
// the default [net/http] one.
func WithTransport(t transport.Transport) Option {
	return func(c *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithTimeouts sets the response and resource timeouts of the default
// transport. Zero disables a timeout.
func WithTimeouts(response, resource time.Duration) Option {
	return func(c *options) error {
		if response < 0 || resource < 0 {
			return errors.New("timeouts must not be negative")
		}
		c.timeouts.ResponseTimeout = response
		c.timeouts.ResourceTimeout = resource
		return nil
	}
}

// WithMaxInFlight caps how many requests the default transport runs at once.
func WithMaxInFlight(n int) Option {
	return func(c *options) error {
		if n < 0 {
			return errors.New("max in flight must not be negative")
		}
		c.timeouts.MaxInFlight = n
		return nil
	}
}

// WithBaseURL sets the absolute URL relative call paths are joined onto.
func WithBaseURL(raw string) Option {
	return func(c *options) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q must be absolute", raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithDefaultHeaders sets headers sent with every call. Per-call headers
// with the same name win.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *options) error {
		c.headers = maps.Clone(headers)
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
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer sets the tracer that opens one client span per call.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		c.tracer = tracer
		return nil
	}
}

// WithOrigin names the client in logs and on every [Error] it reports.
func WithOrigin(name string) Option {
	return func(c *options) error {
		if name == "" {
			return errors.New("origin must not be empty")
		}
		c.origin = name
		return nil
	}
}

// WithCategory sets the category attribute on every log line.
func WithCategory(category string) Option {
	return func(c *options) error {
		if category == "" {
			return errors.New("category must not be empty")
		}
		c.category = category
		return nil
	}
}

// CallOption is a functional option for a single call.
type CallOption func(*callOpts) error

type callOpts struct {
	params      map[string]string
	headers     map[string]string
	body        []byte
	contentType string
}

// WithParams adds query parameters to the call.
func WithParams(params map[string]string) CallOption {
	return func(opts *callOpts) error {
		if opts.params == nil {
			opts.params = make(map[string]string, len(params))
		}
		maps.Copy(opts.params, params)
		return nil
	}
}

// WithParam adds a single query parameter to the call.
func WithParam(key, value string) CallOption {
	return WithParams(map[string]string{key: value})
}

// WithHeaders adds headers to the call. Names are matched case-insensitively
// against the client's default headers, which they replace.
func WithHeaders(headers map[string]string) CallOption {
	return func(opts *callOpts) error {
		if opts.headers == nil {
			opts.headers = make(map[string]string, len(headers))
		}
		mergeHeaders(opts.headers, headers)
		return nil
	}
}

// WithHeader adds a single header to the call.
func WithHeader(key, value string) CallOption {
	return WithHeaders(map[string]string{key: value})
}

// WithBody sets the raw request body. It is sent only for POST, PUT and
// DELETE; GET and HEAD ignore it.
func WithBody(body []byte) CallOption {
	return func(opts *callOpts) error {
		opts.body = body
		return nil
	}
}

// WithJSON encodes v as the request body and sets the Content-Type to
// "application/json" unless the call or the client's default headers
// already carry one.
func WithJSON(v any) CallOption {
	return func(opts *callOpts) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding request payload: %w", err)
		}
		opts.body = b

		return defaultContentType("application/json")(opts)
	}
}
