package client

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// maxErrBodySize caps how much of a response body is copied into an
// error message. The raw bytes stay available on Error.Body.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrUnexpectedStatusCode is wrapped by errors of [KindStatus].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrNoResponse is wrapped by errors of [KindProtocol].
	ErrNoResponse = errors.New("no http response")
	// ErrMissingBody is wrapped by errors of [KindMissingBody].
	ErrMissingBody = errors.New("missing response body")
)

// Kind says where in the pipeline a call failed.
type Kind int

const (
	// KindBuild means the request could not be built; nothing was sent.
	KindBuild Kind = iota + 1
	// KindTransport means the transport reported an error.
	KindTransport
	// KindProtocol means the transport finished without an HTTP response.
	KindProtocol
	// KindStatus means the status code was rejected by the call's policy.
	KindStatus
	// KindMissingBody means a 200 arrived without a body under [ExactPolicy].
	KindMissingBody
)

func (k Kind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindStatus:
		return "status"
	case KindMissingBody:
		return "missing_body"
	default:
		return "unknown"
	}
}

// Error is the single failure shape reported by every calling convention.
// It carries enough of the attempted request to diagnose the failure
// without re-issuing it. StatusCode is 0 whenever no HTTP response was
// obtained.
type Error struct {
	// Origin names the client that issued the call. It is only used to
	// correlate log lines.
	Origin string
	// CallID is unique per call and appears on every log line for it.
	CallID     string
	Kind       Kind
	Verb       Verb
	Path       string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
	Headers    map[string]string
	Params     map[string]string
	Err        error
}

// Error renders e with map fields in key order, so equal errors always
// produce equal strings.
func (e *Error) Error() string {
	var b strings.Builder

	target := e.URL
	if target == "" {
		target = e.Path
	}
	fmt.Fprintf(&b, "%s %s", e.Verb, target)

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " [%d]", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Params) > 0 {
		fmt.Fprintf(&b, " params=%s", renderMap(e.Params))
	}
	if len(e.Headers) > 0 {
		fmt.Fprintf(&b, " headers=%s", renderMap(e.Headers))
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not
// an *Error or no response was received.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsStatus reports whether err is a status failure with the given code.
func IsStatus(err error, code int) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindStatus && e.StatusCode == code
}

func renderMap(m map[string]string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", k, m[k])
	}
	b.WriteByte('}')

	return b.String()
}

var doctype = []byte("<!doctype html>")

// bodyText renders a response body for messages and logs. Invalid UTF-8 is
// replaced, a leading <!doctype html> is dropped and the text is capped at
// maxErrBodySize.
func bodyText(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) >= len(doctype) && bytes.EqualFold(trimmed[:len(doctype)], doctype) {
		body = trimmed[len(doctype):]
	}

	truncated := len(body) > maxErrBodySize
	if truncated {
		body = body[:maxErrBodySize]
	}

	text := string(body)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	if truncated {
		text += "..."
	}

	return text
}
