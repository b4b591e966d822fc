package client

import (
	"fmt"
	"strings"
)

// headPresent reports whether name already appears as a header tag in the
// raw custom-header blob head. A case-insensitive substring match is only
// a real header if immediately followed by ':'; a false-positive match
// inside a header's value text is skipped and the scan resumes from the
// next CRLF rather than stopping.
func headPresent(head, name string) bool {
	if head == "" {
		return false
	}

	lowerHead := strings.ToLower(head)
	lowerName := strings.ToLower(name)

	pos := 0
	for pos < len(lowerHead) {
		idx := strings.Index(lowerHead[pos:], lowerName)
		if idx == -1 {
			return false
		}
		matchEnd := pos + idx + len(name)

		if matchEnd < len(head) && head[matchEnd] == ':' {
			return true
		}

		// false positive inside a value: resume scanning at the next CRLF
		cr := strings.IndexByte(lowerHead[matchEnd:], '\r')
		if cr == -1 {
			return false
		}
		pos = matchEnd + cr
	}
	return false
}

// composeHead builds the request head, in order: request line, Host,
// Accept, Range, Content-Length (POST only), Cookie, the verbatim custom
// header blob, Connection, terminating CRLF.
func (c *Client) composeHead() string {
	var b strings.Builder

	method, err := methodString(c.opts.Method)
	if err != nil {
		method = "GET"
	}
	path := c.opts.Path
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", method, path)

	custom := c.opts.CustomHead

	if !headPresent(custom, "Host") {
		fmt.Fprintf(&b, "Host: %s\r\n", c.opts.Host)
	}

	if !headPresent(custom, "Accept") {
		b.WriteString("Accept: */*\r\n")
	}

	if !headPresent(custom, "Range") {
		rng := c.opts.Range
		switch {
		case rng.Begin != 0 && rng.End > rng.Begin:
			fmt.Fprintf(&b, "Range: bytes=%d-%d\r\n", rng.Begin, rng.End)
		case rng.Begin != 0 && rng.End == 0:
			fmt.Fprintf(&b, "Range: bytes=%d-\r\n", rng.Begin)
		case rng.Begin == 0 && rng.End != 0:
			fmt.Fprintf(&b, "Range: bytes=0-%d\r\n", rng.End)
		}
	}

	if method == "POST" && len(c.opts.PostData) > 0 {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(c.opts.PostData))
	}

	if c.opts.Cookies != nil {
		if value, ok := c.opts.Cookies.Get(c.opts.Host, path, c.opts.IsHTTPS); ok && value != "" {
			fmt.Fprintf(&b, "Cookie: %s\r\n", value)
		}
	}

	b.WriteString(custom)

	if !headPresent(custom, "Connection") {
		if c.opts.KeepAlive {
			b.WriteString("Connection: keep-alive\r\n")
		} else {
			b.WriteString("Connection: close\r\n")
		}
	}

	b.WriteString("\r\n")
	return b.String()
}

