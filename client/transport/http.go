package transport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/adamwoolhether/rester/internal/validate"
)

// Config holds the settings the default transport is built with.
// Zero durations mean no timeout.
type Config struct {
	// ResponseTimeout bounds the wait for response headers after the
	// request has been written.
	ResponseTimeout time.Duration `json:"response_timeout" validate:"gte=0"`
	// ResourceTimeout bounds the whole exchange, body included.
	ResourceTimeout time.Duration `json:"resource_timeout" validate:"gte=0"`
	// MaxInFlight caps concurrently running requests; 0 is unlimited.
	MaxInFlight int `json:"max_in_flight" validate:"gte=0"`
}

// HTTP is a Transport backed by an *http.Client. Every request runs on a
// goroutine owned by the transport.
type HTTP struct {
	c     *http.Client
	pool  *pool
	logFn func() *slog.Logger
}

// Option is a functional option for [NewHTTP].
type Option func(*options) error

type options struct {
	client *http.Client
	logFn  func() *slog.Logger
}

// WithClient uses hc as the template for the underlying client. hc itself
// is never modified.
func WithClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithLogger lazily resolves the logger used for body-close failures.
func WithLogger(logFn func() *slog.Logger) Option {
	return func(o *options) error {
		o.logFn = logFn
		return nil
	}
}

// NewHTTP validates cfg and builds an HTTP transport from it.
func NewHTTP(cfg Config, optFns ...Option) (*HTTP, error) {
	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating transport config: %w", err)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transport option: %w", err)
		}
	}

	var hc http.Client
	if opts.client != nil {
		hc = *opts.client
	}
	if cfg.ResourceTimeout > 0 {
		hc.Timeout = cfg.ResourceTimeout
	}

	if cfg.ResponseTimeout > 0 {
		var base *http.Transport
		switch rt := hc.Transport.(type) {
		case nil:
			base = http.DefaultTransport.(*http.Transport).Clone()
		case *http.Transport:
			base = rt.Clone()
		}
		if base != nil {
			base.ResponseHeaderTimeout = cfg.ResponseTimeout
			hc.Transport = base
		}
	}

	logFn := opts.logFn
	if logFn == nil {
		logFn = slog.Default
	}

	t := HTTP{
		c:     &hc,
		pool:  newPool(cfg.MaxInFlight),
		logFn: logFn,
	}

	return &t, nil
}

// Submit queues req and returns immediately.
func (t *HTTP) Submit(req *http.Request, complete func(Outcome)) {
	t.pool.start(req.Context(),
		func() { complete(t.roundTrip(req)) },
		func(err error) { complete(Outcome{Err: err}) },
	)
}

// Close rejects new submissions and waits for in-flight requests.
func (t *HTTP) Close() error {
	t.pool.close()
	return nil
}

// roundTrip executes req and drains the body so the connection can be reused.
func (t *HTTP) roundTrip(req *http.Request) Outcome {
	resp, err := t.c.Do(req)
	if err != nil {
		return Outcome{Err: fmt.Errorf("exec http do: %w", err)}
	}

	rc := resp.Body
	defer func() {
		if err := rc.Close(); err != nil {
			if logger := t.logFn(); logger != nil {
				logger.Error("failed to close response body", "error", err)
			}
		}
	}()

	body, err := io.ReadAll(rc)
	resp.Body = http.NoBody
	if err != nil {
		return Outcome{Body: body, Response: resp, Err: fmt.Errorf("reading response body: %w", err)}
	}

	return Outcome{Body: body, Response: resp}
}
