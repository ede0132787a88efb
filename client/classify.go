package client

import (
	"fmt"
	"net/http"

	"github.com/adamwoolhether/rester/client/transport"
)

// Policy decides which status codes count as success.
type Policy int

const (
	// RangePolicy accepts any 2xx status. The blocking, stream and dispatch
	// calling conventions use it.
	RangePolicy Policy = iota
	// ExactPolicy accepts only 200 and additionally requires a body. The
	// callback calling convention uses it; callers of that convention rely
	// on telling "200 with body" apart from 201/202.
	ExactPolicy
)

func (p Policy) String() string {
	switch p {
	case RangePolicy:
		return "2xx"
	case ExactPolicy:
		return "200"
	default:
		return "unknown"
	}
}

func (p Policy) accepts(status int) bool {
	switch p {
	case ExactPolicy:
		return status == http.StatusOK
	default:
		return status >= 200 && status < 300
	}
}

// call is the per-call context shared by the pipeline stages.
type call struct {
	id      string
	origin  string
	verb    Verb
	path    string
	headers map[string]string
	params  map[string]string
	req     *Request
}

// fail builds an Error carrying the call's request context.
func (c *call) fail(kind Kind, status int, msg string, err error, body []byte) *Error {
	e := Error{
		Origin:     c.origin,
		CallID:     c.id,
		Kind:       kind,
		Verb:       c.verb,
		Path:       c.path,
		StatusCode: status,
		Message:    msg,
		Body:       body,
		Headers:    c.headers,
		Params:     c.params,
		Err:        err,
	}
	if c.req != nil {
		e.URL = c.req.URL.String()
	}

	return &e
}

// classify turns a transport outcome into exactly one of a Response or an
// Error. The first matching rule wins:
//
//  1. transport error            -> KindTransport, status 0
//  2. no HTTP response           -> KindProtocol, status 0
//  3. status rejected by policy  -> KindStatus, raw body kept
//  4. ExactPolicy and nil body   -> KindMissingBody
//  5. 204                        -> success, nil body
//  6. anything else              -> success, body verbatim
func classify(c *call, out transport.Outcome, policy Policy) (*Response, *Error) {
	if out.Err != nil {
		msg := "transport failure"
		if text := bodyText(out.Body); text != "" {
			msg = fmt.Sprintf("%s: %s", msg, text)
		}
		return nil, c.fail(KindTransport, 0, msg, out.Err, nil)
	}

	if out.Response == nil {
		return nil, c.fail(KindProtocol, 0, "transport returned no http response", ErrNoResponse, nil)
	}

	status := out.Response.StatusCode
	if !policy.accepts(status) {
		return nil, c.fail(KindStatus, status, bodyText(out.Body), ErrUnexpectedStatusCode, out.Body)
	}

	if policy == ExactPolicy && out.Body == nil {
		return nil, c.fail(KindMissingBody, status, "", ErrMissingBody, nil)
	}

	resp := Response{
		Body:       out.Body,
		Headers:    out.Response.Header,
		StatusCode: status,
	}
	if status == http.StatusNoContent {
		resp.Body = nil
	}

	return &resp, nil
}
