package client

import (
	"maps"
	"slices"
	"strings"
)

// Command renders a request as a curl invocation that can be pasted into a
// shell to reproduce it. Headers are written in key order.
func Command(verb Verb, rawURL string, headers map[string]string, body []byte) string {
	var b strings.Builder

	b.WriteString("curl")
	if verb == VerbHead {
		b.WriteString(" -I")
	} else {
		b.WriteString(" -X ")
		b.WriteString(string(verb))
	}
	b.WriteByte(' ')
	b.WriteString(shellQuote(rawURL))

	for _, k := range slices.Sorted(maps.Keys(headers)) {
		b.WriteString(" -H ")
		b.WriteString(shellQuote(k + ": " + headers[k]))
	}

	if len(body) > 0 {
		b.WriteString(" --data-binary ")
		b.WriteString(shellQuote(string(body)))
	}

	return b.String()
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
