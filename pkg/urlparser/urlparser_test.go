package urlparser

import (
	"strings"
	"testing"
)

// testTarget is a standalone Target implementation for exercising Split in
// isolation, without pulling in pkg/client.
type testTarget struct {
	host       string
	port       int
	path       string
	url        string
	isHTTPS    bool
	keepAlive  bool
	redirected bool
}

func (t *testTarget) Host() string        { return t.host }
func (t *testTarget) SetHost(h string)    { t.host = h }
func (t *testTarget) Port() int           { return t.port }
func (t *testTarget) SetPort(p int)       { t.port = p }
func (t *testTarget) Path() string        { return t.path }
func (t *testTarget) SetPath(p string)    { t.path = p }
func (t *testTarget) URL() string         { return t.url }
func (t *testTarget) SetURL(u string)     { t.url = u }
func (t *testTarget) IsHTTPS() bool       { return t.isHTTPS }
func (t *testTarget) SetIsHTTPS(v bool)   { t.isHTTPS = v }
func (t *testTarget) SetKeepAlive(v bool) { t.keepAlive = v }
func (t *testTarget) Redirected() bool    { return t.redirected }

func TestSplit_AbsoluteHTTP(t *testing.T) {
	tg := &testTarget{}
	if !Split(tg, "http://example.com/a/b") {
		t.Fatal("Split returned false")
	}
	if tg.isHTTPS {
		t.Error("expected plain http")
	}
	if tg.host != "example.com" {
		t.Errorf("host = %q", tg.host)
	}
	if tg.port != 80 {
		t.Errorf("port = %d, want 80", tg.port)
	}
	if tg.path != "/a/b" {
		t.Errorf("path = %q", tg.path)
	}
	if tg.url != "http://example.com/a/b" {
		t.Errorf("url = %q", tg.url)
	}
}

func TestSplit_AbsoluteHTTPSWithPort(t *testing.T) {
	tg := &testTarget{}
	if !Split(tg, "https://example.com:8443/x") {
		t.Fatal("Split returned false")
	}
	if !tg.isHTTPS {
		t.Error("expected https")
	}
	if tg.port != 8443 {
		t.Errorf("port = %d, want 8443", tg.port)
	}
	if tg.url != "https://example.com:8443/x" {
		t.Errorf("url = %q", tg.url)
	}
}

func TestSplit_DefaultPathIsEmpty(t *testing.T) {
	tg := &testTarget{}
	if !Split(tg, "http://example.com") {
		t.Fatal("Split returned false")
	}
	if tg.path != "" {
		t.Errorf("path = %q, want empty (caller falls back to /)", tg.path)
	}
}

func TestSplit_NoScheme(t *testing.T) {
	tg := &testTarget{}
	if !Split(tg, "example.com:9000/p") {
		t.Fatal("Split returned false")
	}
	if tg.isHTTPS {
		t.Error("bare host should not imply https")
	}
	if tg.port != 9000 {
		t.Errorf("port = %d, want 9000", tg.port)
	}
	if tg.path != "/p" {
		t.Errorf("path = %q", tg.path)
	}
}

func TestSplit_Empty(t *testing.T) {
	tg := &testTarget{}
	if Split(tg, "") {
		t.Error("expected Split(\"\") to fail")
	}
}

func TestSplit_RedirectAbsolutePathReplacesWholePath(t *testing.T) {
	tg := &testTarget{host: "example.com", port: 80, path: "/old/page", redirected: true}
	if !Split(tg, "/new/location") {
		t.Fatal("Split returned false")
	}
	if tg.path != "/new/location" {
		t.Errorf("path = %q", tg.path)
	}
	if tg.host != "example.com" {
		t.Errorf("host changed unexpectedly: %q", tg.host)
	}
}

func TestSplit_RedirectRelativeReplacesLastSegment(t *testing.T) {
	tg := &testTarget{host: "example.com", port: 80, path: "/a/b/old.html", redirected: true}
	if !Split(tg, "new.html") {
		t.Fatal("Split returned false")
	}
	if tg.path != "/a/b/new.html" {
		t.Errorf("path = %q", tg.path)
	}
}

func TestSplit_RedirectRelativeNoSlashInCurrentPath(t *testing.T) {
	tg := &testTarget{host: "example.com", port: 80, path: "nopath", redirected: true}
	if !Split(tg, "new.html") {
		t.Fatal("Split returned false")
	}
	if tg.path != "/new.html" {
		t.Errorf("path = %q", tg.path)
	}
}

func TestSplit_RedirectSchemeUpgradeToHTTPSClearsKeepAlive(t *testing.T) {
	tg := &testTarget{host: "example.com", isHTTPS: false, redirected: true, keepAlive: true}
	if !Split(tg, "https://example.com/secure") {
		t.Fatal("Split returned false")
	}
	if tg.keepAlive {
		t.Error("keep-alive should clear when a redirect changes scheme to https")
	}
}

func TestSplit_RedirectSchemeUnchangedKeepsKeepAlive(t *testing.T) {
	tg := &testTarget{host: "example.com", isHTTPS: true, redirected: true, keepAlive: true}
	if !Split(tg, "https://example.com/other") {
		t.Fatal("Split returned false")
	}
	if !tg.keepAlive {
		t.Error("keep-alive should survive a redirect that keeps the same scheme")
	}
}

func TestSplit_HostTruncation(t *testing.T) {
	longHost := strings.Repeat("a", 500) + ".com"
	tg := &testTarget{}
	if !Split(tg, "http://"+longHost+"/p") {
		t.Fatal("Split returned false")
	}
	if len(tg.host) >= 500 {
		t.Errorf("host not truncated, len=%d", len(tg.host))
	}
}

func TestSplit_InvalidPortFallsBackToDefault(t *testing.T) {
	tg := &testTarget{}
	if !Split(tg, "http://example.com:notaport/p") {
		t.Fatal("Split returned false")
	}
	if tg.port != 80 {
		t.Errorf("port = %d, want default 80", tg.port)
	}
}
