package client

import (
	"context"
)

// Get issues a GET and waits for its outcome. Any 2xx is a success.
// The returned error is always an *[Error].
func (c *Client) Get(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.do(ctx, VerbGet, path, opts)
}

// Head issues a HEAD and waits for its outcome.
func (c *Client) Head(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.do(ctx, VerbHead, path, opts)
}

// Post issues a POST and waits for its outcome.
func (c *Client) Post(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.do(ctx, VerbPost, path, opts)
}

// Put issues a PUT and waits for its outcome.
func (c *Client) Put(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.do(ctx, VerbPut, path, opts)
}

// Delete issues a DELETE and waits for its outcome.
func (c *Client) Delete(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.do(ctx, VerbDelete, path, opts)
}

// Do issues a call with an arbitrary verb and waits for its outcome.
// Unsupported verbs fail with [KindBuild].
func (c *Client) Do(ctx context.Context, verb Verb, path string, opts ...CallOption) (*Response, error) {
	return c.do(ctx, verb, path, opts)
}

// do parks the calling goroutine until the transport reports back. It does
// not give up early when ctx ends; the transport is expected to honour the
// request context and complete with an error instead.
func (c *Client) do(ctx context.Context, verb Verb, path string, opts []CallOption) (*Response, error) {
	s := newSlot()
	c.exec(ctx, verb, path, RangePolicy, opts, func(resp *Response, err *Error) {
		s.settle(resp, err)
	})

	resp, err := s.wait()
	if err != nil {
		return nil, err
	}

	return resp, nil
}
