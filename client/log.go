package client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type phase string

const (
	phaseBegin   phase = "begin"
	phaseSuccess phase = "success"
	phaseFailure phase = "failure"
)

// diag writes the begin/success/failure lines for each call. It is a side
// channel: nothing it does can change a call's outcome.
type diag struct {
	logger   *slog.Logger
	category string
}

func (d diag) begin(ctx context.Context, c *call) {
	d.event(ctx, slog.LevelDebug, phaseBegin, c,
		"url", c.req.URL.String(),
		"curl", Command(c.verb, c.req.URL.String(), c.req.Headers, c.req.Body),
	)
}

func (d diag) success(ctx context.Context, c *call, resp *Response) {
	d.event(ctx, slog.LevelInfo, phaseSuccess, c,
		"status", resp.StatusCode,
		"body", bodyText(resp.Body),
		"headers", flatten(resp.Headers),
	)
}

func (d diag) failure(ctx context.Context, c *call, err *Error) {
	d.event(ctx, slog.LevelError, phaseFailure, c,
		"kind", err.Kind.String(),
		"status", err.StatusCode,
		"error", err.Error(),
	)
}

// event logs one phase. A panicking handler is swallowed.
func (d diag) event(ctx context.Context, level slog.Level, p phase, c *call, attrs ...any) {
	if d.logger == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	base := []any{
		"category", d.category,
		"phase", string(p),
		"call_id", c.id,
		"method", string(c.verb),
		"path", c.path,
	}

	d.logger.Log(ctx, level, "request "+string(p), append(base, attrs...)...)
}

// flatten joins multi-value headers for logging.
func flatten(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for k, v := range h {
		m[k] = strings.Join(v, ", ")
	}
	return m
}
