// Package transport defines how the rester client hands a request to the
// network and how the network reports back.
//
// A [Transport] accepts an *http.Request and later invokes the completion
// func exactly once with an [Outcome]. The client never assumes which
// goroutine that happens on. [HTTP] is the default implementation on top
// of [net/http]; tests and callers may inject their own via [Func].
package transport

import (
	"errors"
	"net/http"
)

// ErrClosed is reported for requests submitted after Close.
var ErrClosed = errors.New("transport closed")

// Outcome is what a transport reports when a request finishes.
// Either Err is set, or Response (status + headers) is, with Body holding
// the bytes read from it. Body may be partially filled alongside Err.
// A nil Body means no body was reported.
type Outcome struct {
	Body     []byte
	Response *http.Response
	Err      error
}

// Transport issues requests. Submit must not block on network I/O and must
// call complete once the request has finished.
type Transport interface {
	Submit(req *http.Request, complete func(Outcome))
}

// Func adapts a function into a Transport.
type Func func(req *http.Request, complete func(Outcome))

// Submit calls f(req, complete).
func (f Func) Submit(req *http.Request, complete func(Outcome)) {
	f(req, complete)
}
