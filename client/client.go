package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/rester/client/throttle"
	"github.com/adamwoolhether/rester/client/transport"
)

const defaultCategory = "rester"

// Client issues REST calls through an injected transport. Every calling
// convention it offers (blocking, callback, single-value stream) runs the
// same pipeline, so switching between them never changes what goes over
// the wire.
//
// A Client is safe for concurrent use.
type Client struct {
	transport transport.Transport
	closer    io.Closer
	baseURL   *url.URL
	headers   map[string]string
	origin    string
	logger    *slog.Logger
	tracer    trace.Tracer
	diag      diag
}

// Build creates a Client from the given options. Without [WithTransport]
// a [transport.HTTP] is built from [http.DefaultClient] and the configured
// timeouts; call [Client.Close] to release it.
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		logger: slog.Default(),
		origin: "rester-" + uuid.NewString(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.origin != "" {
		client.origin = opts.origin
	}

	client.tracer = opts.tracer
	if client.tracer == nil {
		client.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}

	category := opts.category
	if category == "" {
		category = defaultCategory
	}
	client.diag = diag{logger: client.logger, category: category}

	client.baseURL = opts.baseURL
	client.headers = make(map[string]string, len(opts.headers)+1)
	mergeHeaders(client.headers, opts.headers)
	if opts.userAgent != "" {
		client.headers["User-Agent"] = opts.userAgent
	}

	logFn := func() *slog.Logger { return client.logger }

	var tr transport.Transport
	switch {
	case opts.transport != nil:
		tr = opts.transport
	default:
		var trOpts []transport.Option
		if opts.client != nil {
			trOpts = append(trOpts, transport.WithClient(opts.client))
		}
		trOpts = append(trOpts, transport.WithLogger(logFn))

		h, err := transport.NewHTTP(opts.timeouts, trOpts...)
		if err != nil {
			return nil, fmt.Errorf("configuring transport: %w", err)
		}
		tr = h
		client.closer = h
	}

	if opts.throttle != nil {
		t, err := throttle.New(opts.throttle.RPS, opts.throttle.Burst, logFn, tr)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		tr = t
	}
	client.transport = tr

	return client, nil
}

// Origin returns the name this client reports on errors and log lines.
func (c *Client) Origin() string {
	return c.origin
}

// Close waits for in-flight requests on a transport built by [Build].
// Injected transports are left alone.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// exec runs one call through the pipeline: build the URL, assemble the
// request, submit it, classify the outcome. done receives exactly one
// outcome even if the transport completes more than once.
func (c *Client) exec(ctx context.Context, verb Verb, path string, policy Policy, optFns []CallOption, done func(*Response, *Error)) {
	cl := &call{
		id:     uuid.NewString(),
		origin: c.origin,
		verb:   verb,
		path:   path,
	}

	ctx, span := c.tracer.Start(ctx, "rester."+strings.ToLower(string(verb)),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(verb)),
			attribute.String("rester.call_id", cl.id),
			attribute.String("rester.policy", policy.String()),
		),
	)

	var once sync.Once
	finish := func(resp *Response, err *Error) {
		once.Do(func() {
			if err != nil {
				c.diag.failure(ctx, cl, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Kind.String())
				if err.StatusCode != 0 {
					span.SetAttributes(attribute.Int("http.response.status_code", err.StatusCode))
				}
			} else {
				c.diag.success(ctx, cl, resp)
				span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			}
			span.End()

			done(resp, err)
		})
	}

	var opts callOpts
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			finish(nil, cl.fail(KindBuild, 0, "applying call option", err, nil))
			return
		}
	}

	headers := make(map[string]string, len(c.headers)+len(opts.headers)+1)
	maps.Copy(headers, c.headers)
	mergeHeaders(headers, opts.headers)
	if _, ok := headers["Content-Type"]; !ok && opts.contentType != "" {
		headers["Content-Type"] = opts.contentType
	}
	cl.headers = headers
	cl.params = opts.params

	if !verb.Valid() {
		finish(nil, cl.fail(KindBuild, 0, "unsupported verb", fmt.Errorf("verb %q", verb), nil))
		return
	}

	u, err := BuildURL(c.baseURL, path, opts.params)
	if err != nil {
		finish(nil, cl.fail(KindBuild, 0, "building url", err, nil))
		return
	}

	cl.req = NewRequest(verb, u, headers, opts.params, opts.body)
	span.SetAttributes(attribute.String("url.full", u.String()))
	c.diag.begin(ctx, cl)

	req := cl.req.HTTP(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.transport.Submit(req, func(out transport.Outcome) {
		finish(classify(cl, out, policy))
	})
}

// mergeHeaders copies src into dst under canonical header names, so a
// name differing only in case replaces the existing entry.
func mergeHeaders(dst, src map[string]string) {
	for k, v := range src {
		dst[http.CanonicalHeaderKey(k)] = v
	}
}

// errorOf converts a possibly nil *Error into an error without producing a
// non-nil interface around a nil pointer.
func errorOf(err *Error) error {
	if err == nil {
		return nil
	}
	return err
}

// AsError reports whether err is an *Error and returns it.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
