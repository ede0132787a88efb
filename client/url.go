package client

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrInvalidURL is wrapped by every URL construction failure.
var ErrInvalidURL = errors.New("invalid url")

// BuildURL turns path and params into an absolute URL.
//
// path is percent-encoded first: characters outside the RFC 3986
// unreserved and reserved sets are escaped, valid %XX escapes are kept.
// A relative path is joined onto base when base is non-nil. The result
// must carry a scheme and a host.
//
// Non-empty params replace any query embedded in path. Keys are written in
// ascending order and a literal '+' always appears as %2B. With no params
// the embedded query is kept as-is.
func BuildURL(base *url.URL, path string, params map[string]string) (*url.URL, error) {
	encoded, err := encodePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	u, err := url.Parse(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if base != nil && !u.IsAbs() {
		joined := base.JoinPath(u.EscapedPath())
		joined.RawQuery = u.RawQuery
		joined.Fragment = u.Fragment
		u = joined
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute url", ErrInvalidURL, path)
	}

	if len(params) > 0 {
		u.RawQuery = encodeQuery(params)
	}

	return u, nil
}

// encodeQuery renders params sorted by key.
func encodeQuery(params map[string]string) string {
	var b strings.Builder
	for i, k := range slices.Sorted(maps.Keys(params)) {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeQuery(k))
		b.WriteByte('=')
		b.WriteString(escapeQuery(params[k]))
	}

	return b.String()
}

// escapeQuery escapes s for a query component. QueryEscape already renders
// '+' as %2B, so any '+' it leaves behind stands for a space.
func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

const upperHex = "0123456789ABCDEF"

func encodePath(path string) (string, error) {
	if !utf8.ValidString(path) {
		return "", errors.New("path is not valid utf-8")
	}

	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c == '%' && i+2 < len(path) && isHex(path[i+1]) && isHex(path[i+2]):
			b.WriteByte(c)
		case unreserved(c) || reserved(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&15])
		}
	}

	return b.String(), nil
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~", c) >= 0
}

func reserved(c byte) bool {
	return strings.IndexByte(":/?#[]@!$&'()*+,;=", c) >= 0
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}
