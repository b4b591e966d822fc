// Package client implements the synchronous HTTP/1.x request/response
// cycle: URL targeting, request composition, response parsing, chunked
// decoding, and bounded automatic redirects over a pluggable transport.
package client

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/whileendless-successor/rawclient/pkg/chunked"
	"github.com/whileendless-successor/rawclient/pkg/clock"
	"github.com/whileendless-successor/rawclient/pkg/constants"
	"github.com/whileendless-successor/rawclient/pkg/cookiejar"
	rherrors "github.com/whileendless-successor/rawclient/pkg/errors"
	"github.com/whileendless-successor/rawclient/pkg/timing"
	"github.com/whileendless-successor/rawclient/pkg/transport"
	"github.com/whileendless-successor/rawclient/pkg/urlparser"
)

// Range is an inclusive byte range for a Range request header.
type Range struct {
	Begin uint64
	End   uint64
}

// Options configures a Client. The zero value is GET http://host/ with a
// 10-redirect ceiling and a 5 second idle timeout.
type Options struct {
	Method       string
	URL          string
	Host         string
	Path         string
	Port         int
	IsHTTPS      bool
	Blocking     bool
	KeepAlive    bool
	Timeout      time.Duration
	MaxRedirects int
	Range        Range
	PostData     []byte
	Cookies      cookiejar.Jar
	CustomHead   string
	HeadCallback func(line string) bool

	// Secure, if set, routes HTTPS requests through a caller-supplied
	// TLS adapter instead of Plain+crypto/tls.
	Secure transport.SecureAdapter

	// Proxy optionally dials the plain-TCP leg of the connection
	// through an upstream HTTP CONNECT or SOCKS5 proxy.
	Proxy *transport.ProxyConfig

	// TLS configures Plain's own TLS upgrade when Secure is nil.
	TLS *transport.TLSConfig

	Clock clock.Clock
}

// Status reports the outcome of the most recent Open call.
type Status struct {
	Code          int
	Version       string
	ContentSize   uint64
	DocumentSize  uint64
	ContentType   string
	IsChunked     bool
	IsSeekable    bool
	KeepAlive     bool
	Redirected    bool
	RedirectCount int
}

// Client is a long-lived HTTP handle: Open establishes (or reuses) a
// connection and reads the response head, then Read/Write stream the
// body. It is not safe for concurrent use by multiple goroutines.
type Client struct {
	opts   Options
	status Status

	transport transport.Transport
	lr        *lineReader
	chunkedRd *chunked.Reader

	timer   *timing.Timer
	metrics timing.Metrics

	clock clock.Clock
}

// New constructs a Client from opts, applying defaults for any zero-value
// field.
func New(opts Options) *Client {
	if opts.Method == "" {
		opts.Method = "GET"
	}
	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = constants.DefaultMaxRedirects
	}
	if opts.Timeout == 0 {
		opts.Timeout = constants.DefaultTimeout
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.Port == 0 {
		if opts.IsHTTPS {
			opts.Port = constants.DefaultHTTPSPort
		} else {
			opts.Port = constants.DefaultHTTPPort
		}
	}

	c := &Client{opts: opts}
	if opts.Clock != nil {
		c.clock = opts.Clock
	} else {
		c.clock = clock.Real{}
	}
	if opts.URL != "" {
		c.SetURL(opts.URL)
	}
	return c
}

// SetURL re-targets the client at a new absolute URL.
func (c *Client) SetURL(raw string) bool {
	return urlparser.Split(targetView{c}, raw)
}

func (c *Client) SetHost(host string)        { c.opts.Host = host }
func (c *Client) SetPath(path string)        { c.opts.Path = path }
func (c *Client) SetMethod(method string)    { c.opts.Method = strings.ToUpper(method) }
func (c *Client) SetRedirectLimit(n int)     { c.opts.MaxRedirects = n }
func (c *Client) SetTimeout(d time.Duration) { c.opts.Timeout = d }
func (c *Client) SetRange(begin, end uint64) { c.opts.Range = Range{Begin: begin, End: end} }
func (c *Client) SetHead(raw string)         { c.opts.CustomHead = raw }
func (c *Client) SetPost(data []byte)        { c.opts.PostData = data; c.opts.Method = "POST" }
func (c *Client) SetCookies(jar cookiejar.Jar) {
	c.opts.Cookies = jar
}
func (c *Client) SetHeadCallback(fn func(string) bool) {
	c.opts.HeadCallback = fn
}
func (c *Client) SetSecureAdapter(a transport.SecureAdapter) { c.opts.Secure = a }

// Open writes the request head (and any POST body) and reads the status
// line and headers, following redirects iteratively up to
// Options.MaxRedirects so stack use stays constant regardless of chain
// length.
func (c *Client) Open(ctx context.Context) error {
	c.Close()

	for {
		if err := c.openOnce(ctx); err != nil {
			c.closeSocket()
			return err
		}

		if !c.status.Redirected {
			return nil
		}
		if c.status.RedirectCount >= c.opts.MaxRedirects {
			return nil
		}
		c.status.RedirectCount++
	}
}

func (c *Client) openOnce(ctx context.Context) error {
	c.timer = timing.NewTimer()

	if c.transport == nil || !c.status.KeepAlive {
		c.closeSocket()
		if err := c.openSocket(ctx); err != nil {
			return err
		}
	}

	c.lr = newLineReader(c.transport, c.opts.Timeout, c.clock, c.opts.Blocking)

	head := []byte(c.composeHead())
	n, err := transport.BlockWrite(c.transport, head, c.opts.Timeout, c.clock)
	if err != nil {
		return err
	}
	if int(n) != len(head) {
		return rherrors.NewIOError("write", fmt.Errorf("short write of request head: wrote %d of %d bytes", n, len(head)))
	}

	if strings.EqualFold(c.opts.Method, "POST") && len(c.opts.PostData) > 0 {
		n, err := transport.BlockWrite(c.transport, c.opts.PostData, c.opts.Timeout, c.clock)
		if err != nil {
			return err
		}
		if int(n) != len(c.opts.PostData) {
			return rherrors.NewIOError("write", fmt.Errorf("short write of POST body: wrote %d of %d bytes", n, len(c.opts.PostData)))
		}
	}

	c.status.Redirected = false
	c.status.KeepAlive = false
	c.status.ContentSize = 0
	c.status.DocumentSize = 0
	c.status.Code = 0
	c.status.IsSeekable = false
	c.status.IsChunked = false
	c.status.Version = "1.0"
	c.status.ContentType = ""

	c.timer.StartTTFB()
	if err := c.handleResponse(); err != nil {
		return err
	}
	c.timer.EndTTFB()

	c.chunkedRd = nil
	if c.status.IsChunked {
		c.chunkedRd = chunked.NewReader(c.lr)
	}

	c.metrics = c.timer.GetMetrics()
	return nil
}

// openSocket selects the transport by Options.IsHTTPS. The client never
// initiates a TLS handshake on its own: an HTTPS request requires either
// a caller-supplied Options.Secure adapter, or an explicit Options.TLS
// opting into Plain's own crypto/tls handshake. With neither set, Open
// fails instead of silently handshaking with a bare TLSConfig{}.
func (c *Client) openSocket(ctx context.Context) error {
	switch {
	case c.opts.IsHTTPS && c.opts.Secure != nil:
		c.transport = &transport.Secure{Adapter: c.opts.Secure}
	case c.opts.IsHTTPS && c.opts.TLS != nil:
		c.transport = &transport.Plain{Proxy: c.opts.Proxy, TLS: c.opts.TLS}
	case c.opts.IsHTTPS:
		return rherrors.NewValidationError("HTTPS request requires Options.Secure or an explicit Options.TLS: the core never initiates a TLS handshake on its own")
	default:
		c.transport = &transport.Plain{Proxy: c.opts.Proxy}
	}

	c.timer.StartTCP()
	err := c.transport.Open(ctx, c.opts.Host, c.opts.Port)
	c.timer.EndTCP()
	if err != nil {
		c.transport = nil
		return err
	}
	return nil
}

func (c *Client) closeSocket() {
	if c.transport != nil {
		c.transport.Close()
		c.transport = nil
	}
}

// Close releases the connection unless the server asked to keep it alive,
// in which case the socket is left open, and then clears Status. A socket
// left open here is not reused by a later Open: Open calls Close first,
// so KeepAlive reads false and openOnce closes the socket and dials a new
// one. Socket reuse happens only between the hops of one Open's redirect
// loop.
func (c *Client) Close() error {
	if c.transport != nil && !c.status.KeepAlive {
		c.closeSocket()
	}
	c.status = Status{}
	return nil
}

// Exit unconditionally releases the connection, ignoring KeepAlive.
func (c *Client) Exit() error {
	c.closeSocket()
	c.status = Status{}
	return nil
}

// Read reads decoded body bytes: transparently dechunked when the
// response used Transfer-Encoding: chunked. Whether the underlying read
// blocks until data (or the idle timeout) or returns immediately with
// whatever the adapter has available is governed by Options.Blocking.
func (c *Client) Read(buf []byte) (int, error) {
	if c.status.IsChunked {
		return c.chunkedRd.Read(buf)
	}
	if !c.opts.Blocking {
		n, err := c.transport.Read(buf)
		return int(n), err
	}
	n, err := transport.BlockRead(c.transport, buf, c.opts.Timeout, c.clock)
	return int(n), err
}

// Write writes raw bytes to the open connection (for request bodies sent
// after Open, e.g. streaming uploads), honoring Options.Blocking the same
// way Read does.
func (c *Client) Write(buf []byte) (int, error) {
	if !c.opts.Blocking {
		n, err := c.transport.Write(buf)
		return int(n), err
	}
	n, err := transport.BlockWrite(c.transport, buf, c.opts.Timeout, c.clock)
	return int(n), err
}

// BRead loops on Read, tracking its own idle timer, until buf is full,
// the body ends, or no progress has been made for Options.Timeout,
// regardless of Options.Blocking. A Read returning io.EOF (the end of a
// chunked body) is not an error: BRead returns whatever it accumulated
// with a nil error. Any other error, including the transport's I/O error
// when the peer closes the connection, is returned together with the
// byte count accumulated so far.
func (c *Client) BRead(buf []byte) (int, error) {
	timer := clock.NewIdleTimer(c.clock)
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		if n > 0 {
			total += n
			timer.Progress()
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
		if timer.Expired(c.opts.Timeout) {
			break
		}
	}
	return total, nil
}

// BWrite is BRead's counterpart for writes.
func (c *Client) BWrite(buf []byte) (int, error) {
	timer := clock.NewIdleTimer(c.clock)
	total := 0
	for total < len(buf) {
		n, err := c.Write(buf[total:])
		if n > 0 {
			total += n
			timer.Progress()
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
		if timer.Expired(c.opts.Timeout) {
			break
		}
	}
	return total, nil
}

// Status returns a snapshot of the most recent response's status.
func (c *Client) Status() Status { return c.status }

// LastMetrics returns timing for the final request (the last redirect
// hop) of the most recent successful Open call.
func (c *Client) LastMetrics() timing.Metrics { return c.metrics }

func parseLeadingUint(s string) uint64 {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, _ := strconv.ParseUint(s[:i], 10, 64)
	return n
}

func methodString(method string) (string, error) {
	switch strings.ToUpper(method) {
	case "GET", "POST", "HEAD", "PUT", "OPTIONS", "DELETE", "TRACE", "CONNECT":
		return strings.ToUpper(method), nil
	default:
		return "", rherrors.NewValidationError(fmt.Sprintf("unsupported method %q", method))
	}
}
