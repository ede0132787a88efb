// Package rester exposes the client builder.
package rester

import (
	"github.com/adamwoolhether/rester/client"
)

// NewClient instantiates a new *Client with the provided options.
// If no transport is injected, one is built on net/http.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
