package client

import (
	"context"
)

// Single is a cold, single-value stream of one call. Nothing is sent until
// it is subscribed to; each subscription sends the request again and
// emits exactly one [Result]. Outcomes are never cached or replayed.
//
// Singles use [RangePolicy], the same as the blocking methods.
type Single struct {
	run func(ctx context.Context, done func(*Response, *Error))
}

// Subscribe sends the request and returns a channel that yields one Result
// and is then closed.
func (s *Single) Subscribe(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	s.run(ctx, func(resp *Response, err *Error) {
		ch <- Result{Response: resp, Err: errorOf(err)}
		close(ch)
	})

	return ch
}

// SubscribeFunc sends the request and calls exactly one of onSuccess or
// onFail with its outcome.
func (s *Single) SubscribeFunc(ctx context.Context, onSuccess func(*Response), onFail func(*Error)) {
	s.run(ctx, func(resp *Response, err *Error) {
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

// Await subscribes and waits for the outcome.
func (s *Single) Await(ctx context.Context) (*Response, error) {
	r := <-s.Subscribe(ctx)
	return r.Response, r.Err
}

// GetSingle returns a Single for a GET.
func (c *Client) GetSingle(path string, opts ...CallOption) *Single {
	return c.single(VerbGet, path, opts)
}

// HeadSingle returns a Single for a HEAD.
func (c *Client) HeadSingle(path string, opts ...CallOption) *Single {
	return c.single(VerbHead, path, opts)
}

// PostSingle returns a Single for a POST.
func (c *Client) PostSingle(path string, opts ...CallOption) *Single {
	return c.single(VerbPost, path, opts)
}

// PutSingle returns a Single for a PUT.
func (c *Client) PutSingle(path string, opts ...CallOption) *Single {
	return c.single(VerbPut, path, opts)
}

// DeleteSingle returns a Single for a DELETE.
func (c *Client) DeleteSingle(path string, opts ...CallOption) *Single {
	return c.single(VerbDelete, path, opts)
}

// Perform routes ep to the Single method matching its verb. An endpoint
// with an unsupported verb yields a Single that fails with [KindBuild].
func (c *Client) Perform(ep Endpoint, opts ...CallOption) *Single {
	switch ep.Verb() {
	case VerbGet:
		return c.GetSingle(ep.Path(), opts...)
	case VerbHead:
		return c.HeadSingle(ep.Path(), opts...)
	case VerbPost:
		return c.PostSingle(ep.Path(), opts...)
	case VerbPut:
		return c.PutSingle(ep.Path(), opts...)
	case VerbDelete:
		return c.DeleteSingle(ep.Path(), opts...)
	default:
		return c.single(ep.Verb(), ep.Path(), opts)
	}
}

func (c *Client) single(verb Verb, path string, opts []CallOption) *Single {
	return &Single{
		run: func(ctx context.Context, done func(*Response, *Error)) {
			c.exec(ctx, verb, path, RangePolicy, opts, done)
		},
	}
}
