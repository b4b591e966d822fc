package transport

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	rherrors "github.com/whileendless-successor/rawclient/pkg/errors"
	netproxy "golang.org/x/net/proxy"
)

// Plain is the default Transport: a TCP socket, optionally dialed through
// an upstream proxy, optionally TLS-upgraded in place.
type Plain struct {
	Proxy *ProxyConfig
	TLS   *TLSConfig // non-nil upgrades the connection to TLS after dialing

	conn net.Conn
}

// Open dials host:port, through p.Proxy if configured, then performs a
// TLS handshake if p.TLS is set.
func (p *Plain) Open(ctx context.Context, host string, port int) error {
	targetAddr := net.JoinHostPort(host, strconv.Itoa(port))

	var conn net.Conn
	var err error

	if p.Proxy != nil {
		conn, err = dialViaProxy(ctx, p.Proxy, targetAddr)
	} else {
		dialer := &net.Dialer{Timeout: dialTimeout}
		conn, err = dialer.DialContext(ctx, "tcp", targetAddr)
	}
	if err != nil {
		return rherrors.NewConnectionError(host, port, err)
	}

	if p.TLS != nil {
		tlsConn := tls.Client(conn, p.TLS.toStdlib(host))
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return rherrors.NewTLSError(host, port, err)
		}
		conn = tlsConn
	}

	p.conn = conn
	return nil
}

// Close closes the underlying connection.
func (p *Plain) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// Read reads available bytes, returning (0, nil) on a would-block read
// timeout so BlockRead can distinguish "no data yet" from a real failure.
func (p *Plain) Read(buf []byte) (int64, error) {
	p.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	n, err := p.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return int64(n), nil
		}
		return int64(n), rherrors.NewIOError("read", err)
	}
	return int64(n), nil
}

// Write writes buf, returning the number of bytes accepted.
func (p *Plain) Write(buf []byte) (int64, error) {
	p.conn.SetWriteDeadline(time.Now().Add(50 * time.Millisecond))
	n, err := p.conn.Write(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return int64(n), nil
		}
		return int64(n), rherrors.NewIOError("write", err)
	}
	return int64(n), nil
}

func dialViaProxy(ctx context.Context, proxy *ProxyConfig, targetAddr string) (net.Conn, error) {
	proxyAddr := net.JoinHostPort(proxy.Host, strconv.Itoa(proxy.Port))

	switch proxy.Type {
	case "socks5":
		return dialSOCKS5(ctx, proxy, proxyAddr, targetAddr)
	case "http":
		return dialHTTPConnect(ctx, proxy, proxyAddr, targetAddr)
	default:
		return nil, fmt.Errorf("unsupported proxy type %q", proxy.Type)
	}
}

// dialSOCKS5 dials targetAddr through a SOCKS5 proxy using
// golang.org/x/net/proxy rather than a hand-rolled wire implementation.
func dialSOCKS5(ctx context.Context, proxy *ProxyConfig, proxyAddr, targetAddr string) (net.Conn, error) {
	var auth *netproxy.Auth
	if proxy.Username != "" {
		auth = &netproxy.Auth{User: proxy.Username, Password: proxy.Password}
	}

	dialer, err := netproxy.SOCKS5("tcp", proxyAddr, auth, &net.Dialer{Timeout: dialTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	if ctxDialer, ok := dialer.(netproxy.ContextDialer); ok {
		return ctxDialer.DialContext(ctx, "tcp", targetAddr)
	}
	return dialer.Dial("tcp", targetAddr)
}

// dialHTTPConnect dials targetAddr through an HTTP proxy using CONNECT.
func dialHTTPConnect(ctx context.Context, proxy *ProxyConfig, proxyAddr, targetAddr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", proxyAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to proxy: %w", err)
	}

	req := fmt.Sprintf("CONNECT %s HTTP/1.1\r\nHost: %s\r\n", targetAddr, targetAddr)
	if proxy.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(proxy.Username + ":" + proxy.Password))
		req += "Proxy-Authorization: Basic " + auth + "\r\n"
	}
	req += "\r\n"

	if _, err := conn.Write([]byte(req)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send CONNECT request: %w", err)
	}

	statusLine, err := readCRLFLine(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read CONNECT response: %w", err)
	}
	if !strings.Contains(statusLine, " 200") {
		conn.Close()
		return nil, fmt.Errorf("proxy CONNECT failed: %s", strings.TrimSpace(statusLine))
	}

	for {
		line, err := readCRLFLine(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to read CONNECT response headers: %w", err)
		}
		if line == "\r\n" || line == "\n" || line == "" {
			break
		}
	}

	return conn, nil
}

// readCRLFLine reads a single line terminated by '\n' directly off conn,
// one byte at a time. CONNECT responses are a handful of short lines, so
// this avoids pulling in a buffered reader that might over-read past the
// CONNECT response into the tunneled TLS bytes.
func readCRLFLine(conn net.Conn) (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			line = append(line, buf[0])
			if buf[0] == '\n' {
				return string(line), nil
			}
		}
		if err != nil {
			return string(line), err
		}
	}
}
