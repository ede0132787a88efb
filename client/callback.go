package client

import (
	"context"
)

// The *Async methods return immediately and later call exactly one of
// onSuccess or onFail, on whatever goroutine the transport completes on.
// A call that cannot be built fails before anything is sent, in which case
// onFail runs before the method returns.
//
// Unlike the blocking and stream conventions, these use [ExactPolicy]:
// only a 200 carrying a body is a success. A 201, a 204 or a 200 without
// a body is reported through onFail.

// GetAsync issues a GET.
func (c *Client) GetAsync(ctx context.Context, path string, onSuccess func(*Response), onFail func(*Error), opts ...CallOption) {
	c.async(ctx, VerbGet, path, onSuccess, onFail, opts)
}

// HeadAsync issues a HEAD. Since HEAD responses carry no body, it can only
// succeed against a transport that reports an empty, non-nil body.
func (c *Client) HeadAsync(ctx context.Context, path string, onSuccess func(*Response), onFail func(*Error), opts ...CallOption) {
	c.async(ctx, VerbHead, path, onSuccess, onFail, opts)
}

// PostAsync issues a POST.
func (c *Client) PostAsync(ctx context.Context, path string, onSuccess func(*Response), onFail func(*Error), opts ...CallOption) {
	c.async(ctx, VerbPost, path, onSuccess, onFail, opts)
}

// PutAsync issues a PUT.
func (c *Client) PutAsync(ctx context.Context, path string, onSuccess func(*Response), onFail func(*Error), opts ...CallOption) {
	c.async(ctx, VerbPut, path, onSuccess, onFail, opts)
}

// DeleteAsync issues a DELETE.
func (c *Client) DeleteAsync(ctx context.Context, path string, onSuccess func(*Response), onFail func(*Error), opts ...CallOption) {
	c.async(ctx, VerbDelete, path, onSuccess, onFail, opts)
}

// DoAsync issues a call with an arbitrary verb. Unsupported verbs fail
// with [KindBuild].
func (c *Client) DoAsync(ctx context.Context, verb Verb, path string, onSuccess func(*Response), onFail func(*Error), opts ...CallOption) {
	c.async(ctx, verb, path, onSuccess, onFail, opts)
}

func (c *Client) async(ctx context.Context, verb Verb, path string, onSuccess func(*Response), onFail func(*Error), opts []CallOption) {
	c.exec(ctx, verb, path, ExactPolicy, opts, func(resp *Response, err *Error) {
		if err != nil {
			if onFail != nil {
				onFail(err)
			}
			return
		}

		if onSuccess != nil {
			onSuccess(resp)
		}
	})
}
