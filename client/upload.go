package client

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoUploadBody is wrapped when an upload is attempted with a verb that
// never carries a body.
var ErrNoUploadBody = errors.New("verb does not carry a body")

// Upload sends data with a PUT and returns without waiting. Nothing is
// reported back to the caller; the outcome only shows up in the log lines
// for the call. Content-Type defaults to application/octet-stream.
func (c *Client) Upload(ctx context.Context, path string, data []byte, opts ...CallOption) {
	c.UploadWith(ctx, VerbPut, path, data, opts...)
}

// UploadWith is [Client.Upload] with an explicit verb. Verbs that carry no
// body are logged as build failures.
func (c *Client) UploadWith(ctx context.Context, verb Verb, path string, data []byte, opts ...CallOption) {
	all := make([]CallOption, 0, len(opts)+3)
	all = append(all, requireBody(verb))
	all = append(all, opts...)
	all = append(all, WithBody(data), defaultContentType("application/octet-stream"))

	c.exec(ctx, verb, path, RangePolicy, all, func(*Response, *Error) {})
}

func requireBody(verb Verb) CallOption {
	return func(*callOpts) error {
		if !verb.AllowsBody() {
			return fmt.Errorf("%w: %s", ErrNoUploadBody, verb)
		}
		return nil
	}
}

// defaultContentType sets the Content-Type used when neither the call nor
// the client's default headers name one.
func defaultContentType(ct string) CallOption {
	return func(opts *callOpts) error {
		opts.contentType = ct
		return nil
	}
}
