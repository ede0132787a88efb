package client

import (
	"net/http"
)

// Verb is one of the HTTP methods the client issues.
type Verb string

const (
	VerbGet    Verb = http.MethodGet
	VerbPost   Verb = http.MethodPost
	VerbPut    Verb = http.MethodPut
	VerbDelete Verb = http.MethodDelete
	VerbHead   Verb = http.MethodHead
)

// Valid reports whether v is a supported verb.
func (v Verb) Valid() bool {
	switch v {
	case VerbGet, VerbPost, VerbPut, VerbDelete, VerbHead:
		return true
	default:
		return false
	}
}

// AllowsBody reports whether a request body is sent for v.
// GET and HEAD never carry one.
func (v Verb) AllowsBody() bool {
	switch v {
	case VerbPost, VerbPut, VerbDelete:
		return true
	default:
		return false
	}
}

// Response is the successful outcome of a call.
// Body is nil when the server sent none, which is always the case for 204.
type Response struct {
	Body       []byte
	Headers    http.Header
	StatusCode int
}

// Result carries a single outcome from a [Single]. Exactly one of
// Response or Err is set; Err is always an *[Error].
type Result struct {
	Response *Response
	Err      error
}

// Endpoint describes a route by verb and path.
type Endpoint interface {
	Verb() Verb
	Path() string
}

// Route is the plain struct form of an [Endpoint].
type Route struct {
	Method Verb
	URI    string
}

func (r Route) Verb() Verb   { return r.Method }
func (r Route) Path() string { return r.URI }
