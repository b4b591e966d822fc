// Package urlparser splits a raw URL into scheme/host/port/path using
// bounded, truncating buffers rather than net/url's allocate-and-reject
// semantics.
package urlparser

import (
	"strconv"
	"strings"

	"github.com/whileendless-successor/rawclient/pkg/constants"
)

// Target is the minimal view Split reads from and writes to. client.Options
// and client.Status together satisfy it through small getter/setter
// methods, which keeps this package from importing pkg/client.
type Target interface {
	Host() string
	SetHost(string)
	Port() int
	SetPort(int)
	Path() string
	SetPath(string)
	URL() string
	SetURL(string)
	IsHTTPS() bool
	SetIsHTTPS(bool)
	SetKeepAlive(bool)
	Redirected() bool
}

// truncate caps s at max bytes.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Split parses raw into t's Host/Port/Path/URL/IsHTTPS fields. The
// decision table: scheme-prefixed absolute URL, else (when
// t.Redirected()) relative-to-current-path resolution, else a bare
// host[:port][/path] form.
func Split(t Target, raw string) bool {
	if raw == "" {
		return false
	}

	switch {
	case strings.HasPrefix(raw, "http://"):
		rest := raw[len("http://"):]
		t.SetIsHTTPS(false)
		return splitAbsolute(t, rest)

	case strings.HasPrefix(raw, "https://"):
		rest := raw[len("https://"):]
		// scheme changed on redirect: close the reused connection
		if t.Redirected() && !t.IsHTTPS() {
			t.SetKeepAlive(false)
		}
		t.SetIsHTTPS(true)
		return splitAbsolute(t, rest)

	case t.Redirected():
		return splitRedirectRelative(t, raw)

	default:
		return splitAbsolute(t, raw)
	}
}

// splitAbsolute parses rest as host[:port][/path...] (scheme already
// consumed, or none was ever present).
func splitAbsolute(t Target, rest string) bool {
	p := rest

	hostEnd := strings.IndexAny(p, "/:")
	var host string
	if hostEnd == -1 {
		host = p
		p = ""
	} else {
		host = p[:hostEnd]
		p = p[hostEnd:]
	}
	t.SetHost(truncate(host, constants.HostMax-1))

	if len(p) > 0 && p[0] == ':' {
		p = p[1:]
		portEnd := strings.IndexByte(p, '/')
		var portStr string
		if portEnd == -1 {
			portStr = p
			p = ""
		} else {
			portStr = p[:portEnd]
			p = p[portEnd:]
		}
		portStr = truncate(portStr, 11)
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			port = defaultPort(t.IsHTTPS())
		}
		t.SetPort(port)
	} else {
		t.SetPort(defaultPort(t.IsHTTPS()))
	}

	t.SetPath(truncate(p, constants.PathMax-1))
	t.SetURL(truncate(rawURLWithScheme(t), constants.URLMax-1))
	return true
}

// splitRedirectRelative resolves a Location header that carries no scheme,
// relative to the client's current path: an absolute path ("/foo")
// replaces the whole path, anything else replaces the last path segment.
func splitRedirectRelative(t Target, p string) bool {
	cur := t.Path()

	var newPath string
	if strings.HasPrefix(p, "/") {
		newPath = truncate(p, constants.PathMax-1)
	} else if idx := strings.LastIndexByte(cur, '/'); idx >= 0 {
		newPath = truncate(cur[:idx+1]+p, constants.PathMax-1)
	} else {
		newPath = truncate("/"+p, constants.PathMax-1)
	}

	t.SetPath(newPath)
	t.SetURL(truncate(rawURLWithScheme(t), constants.URLMax-1))
	return true
}

func defaultPort(isHTTPS bool) int {
	if isHTTPS {
		return constants.DefaultHTTPSPort
	}
	return constants.DefaultHTTPPort
}

func rawURLWithScheme(t Target) string {
	scheme := "http"
	if t.IsHTTPS() {
		scheme = "https"
	}
	if t.Port() == defaultPort(t.IsHTTPS()) {
		return scheme + "://" + t.Host() + t.Path()
	}
	return scheme + "://" + t.Host() + ":" + strconv.Itoa(t.Port()) + t.Path()
}
