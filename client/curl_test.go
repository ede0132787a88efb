package client_test

import (
	"testing"

	"github.com/adamwoolhether/rester/client"
)

func TestCommand(t *testing.T) {
	testCases := []struct {
		name    string
		verb    client.Verb
		url     string
		headers map[string]string
		body    []byte
		exp     string
	}{
		{
			name: "get",
			verb: client.VerbGet,
			url:  "https://api.example.com/items?a=1&b=2",
			exp:  `curl -X GET 'https://api.example.com/items?a=1&b=2'`,
		},
		{
			name: "head",
			verb: client.VerbHead,
			url:  "https://api.example.com/items",
			exp:  `curl -I 'https://api.example.com/items'`,
		},
		{
			name:    "post with sorted headers and quoted body",
			verb:    client.VerbPost,
			url:     "https://api.example.com/items",
			headers: map[string]string{"X-Trace": "1", "Content-Type": "application/json"},
			body:    []byte(`{"name":"it's"}`),
			exp:     `curl -X POST 'https://api.example.com/items' -H 'Content-Type: application/json' -H 'X-Trace: 1' --data-binary '{"name":"it'\''s"}'`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := client.Command(tc.verb, tc.url, tc.headers, tc.body); got != tc.exp {
				t.Errorf("command mismatch\n got: %s\nwant: %s", got, tc.exp)
			}
		})
	}
}
