package client

import (
	"bytes"
	"context"
	"io"
	"maps"
	"net/http"
	"net/url"
)

// Request is the immutable description of one call. It is built fresh per
// call by [NewRequest] and owns copies of everything it was given.
type Request struct {
	Verb    Verb
	URL     *url.URL
	Headers map[string]string
	Params  map[string]string
	Body    []byte
}

// NewRequest assembles a Request. body is kept only for verbs that allow
// one; for GET and HEAD it is dropped.
func NewRequest(verb Verb, u *url.URL, headers, params map[string]string, body []byte) *Request {
	r := Request{
		Verb:    verb,
		URL:     cloneURL(u),
		Headers: maps.Clone(headers),
		Params:  maps.Clone(params),
	}

	if verb.AllowsBody() && body != nil {
		r.Body = bytes.Clone(body)
	}

	return &r
}

// HTTP renders r as an *http.Request bound to ctx. It never fails.
func (r *Request) HTTP(ctx context.Context) *http.Request {
	u := cloneURL(r.URL)

	req := &http.Request{
		Method:     string(r.Verb),
		URL:        u,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header, len(r.Headers)),
		Host:       u.Host,
	}

	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	if r.Body != nil {
		body := r.Body
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	return req.WithContext(ctx)
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	cpy := *u
	if u.User != nil {
		user := *u.User
		cpy.User = &user
	}
	return &cpy
}
