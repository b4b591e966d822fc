package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whileendless-successor/rawclient/pkg/constants"
	rherrors "github.com/whileendless-successor/rawclient/pkg/errors"
	"github.com/whileendless-successor/rawclient/pkg/urlparser"
)

// handleResponse reads the status line followed by header lines until the
// terminating empty line, dispatching each through HeadCallback (if set)
// before interpreting it.
func (c *Client) handleResponse() error {
	lineIdx := 0
	for {
		line, err := c.lr.ReadLine()
		if err != nil {
			return rherrors.NewProtocolError("failed to read response line", err)
		}

		if c.opts.HeadCallback != nil {
			if !c.opts.HeadCallback(line) {
				return rherrors.NewProtocolError("head callback aborted response handling", nil)
			}
		}

		if line == "" {
			return nil
		}

		if err := c.processLine(line, lineIdx); err != nil {
			return err
		}
		lineIdx++
	}
}

func (c *Client) processLine(line string, lineIdx int) error {
	if lineIdx == 0 {
		return c.parseStatusLine(line)
	}
	return c.parseHeaderLine(line)
}

// parseStatusLine parses "HTTP/1.1 200 OK" with a skip-to-dot /
// read-minor-version / skip-spaces / decimal-code scan.
func (c *Client) parseStatusLine(line string) error {
	dot := strings.IndexByte(line, '.')
	if dot == -1 || dot+1 >= len(line) {
		return rherrors.NewProtocolError("malformed status line: "+line, nil)
	}

	switch line[dot+1] {
	case '1':
		c.status.Version = "1.1"
	case '0':
		c.status.Version = "1.0"
	default:
		return rherrors.NewProtocolError("unsupported HTTP version in status line: "+line, nil)
	}

	rest := line[dot+2:]
	rest = strings.TrimLeft(rest, " \t")
	c.status.Code = int(parseLeadingUint(rest))

	if c.status.Code >= 400 && c.status.Code < 600 {
		return rherrors.NewProtocolError(fmt.Sprintf("server returned error status %d", c.status.Code), nil)
	}
	return nil
}

func (c *Client) parseHeaderLine(line string) error {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return nil
	}
	tag := line[:colon]
	value := strings.TrimLeft(line[colon+1:], " \t")

	switch {
	case strings.EqualFold(tag, "Location"):
		if c.status.Code == 301 || c.status.Code == 302 || c.status.Code == 303 {
			c.status.Redirected = true
			if !urlparser.Split(targetView{c}, value) {
				return rherrors.NewProtocolError("invalid redirect location: "+value, nil)
			}
			return nil
		}
		return rherrors.NewProtocolError(fmt.Sprintf("unexpected Location header for status %d", c.status.Code), nil)

	case strings.EqualFold(tag, "Connection"):
		c.status.KeepAlive = !strings.EqualFold(strings.TrimSpace(value), "close")

	case strings.EqualFold(tag, "Content-Length"):
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return rherrors.NewProtocolError("invalid Content-Length: "+value, err)
		}
		c.status.ContentSize = n

	case strings.EqualFold(tag, "Content-Range"):
		c.parseContentRange(value)

	case strings.EqualFold(tag, "Accept-Ranges"):
		c.status.IsSeekable = true

	case strings.EqualFold(tag, "Content-Type"):
		ct := value
		if len(ct) > constants.ContentTypeMax-1 {
			ct = ct[:constants.ContentTypeMax-1]
		}
		c.status.ContentType = ct

	case strings.EqualFold(tag, "Set-Cookie"):
		if c.opts.Cookies != nil {
			c.opts.Cookies.SetFromURL(c.opts.URL, value)
		}

	case strings.EqualFold(tag, "Transfer-Encoding"):
		if strings.EqualFold(strings.TrimSpace(value), "chunked") {
			c.status.IsChunked = true
		}
	}

	return nil
}

// parseContentRange handles "bytes $from-$to/$document_size", deriving
// the content size from the range triple when Content-Length was absent
// or zero.
func (c *Client) parseContentRange(value string) {
	c.status.IsSeekable = true

	var from, to, docSize uint64
	p := value
	if strings.HasPrefix(p, "bytes ") {
		p = p[len("bytes "):]
		from = parseLeadingUint(p)
		p = trimLeadingDigits(p)
		if strings.HasPrefix(p, "-") {
			p = p[1:]
			to = parseLeadingUint(p)
			p = trimLeadingDigits(p)
		}
		if strings.HasPrefix(p, "/") {
			p = p[1:]
			docSize = parseLeadingUint(p)
		}
	}

	c.status.DocumentSize = docSize
	if c.status.ContentSize == 0 {
		switch {
		case from != 0 && to > from:
			c.status.ContentSize = to - from
		case from == 0 && to != 0:
			c.status.ContentSize = to
		case from != 0 && to == 0 && docSize > from:
			c.status.ContentSize = docSize - from
		default:
			c.status.ContentSize = docSize
		}
	}
}

func trimLeadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[i:]
}
