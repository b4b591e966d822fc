package client

// targetView adapts a Client to urlparser.Target, letting the URL parser
// read and update Options/Status fields without pkg/urlparser importing
// this package (which would create an import cycle, since this package
// calls into pkg/urlparser).
type targetView struct {
	c *Client
}

func (t targetView) Host() string        { return t.c.opts.Host }
func (t targetView) SetHost(h string)    { t.c.opts.Host = h }
func (t targetView) Port() int           { return t.c.opts.Port }
func (t targetView) SetPort(p int)       { t.c.opts.Port = p }
func (t targetView) Path() string        { return t.c.opts.Path }
func (t targetView) SetPath(p string)    { t.c.opts.Path = p }
func (t targetView) URL() string         { return t.c.opts.URL }
func (t targetView) SetURL(u string)     { t.c.opts.URL = u }
func (t targetView) IsHTTPS() bool       { return t.c.opts.IsHTTPS }
func (t targetView) SetIsHTTPS(v bool)   { t.c.opts.IsHTTPS = v }
func (t targetView) SetKeepAlive(v bool) { t.c.status.KeepAlive = v }
func (t targetView) Redirected() bool    { return t.c.status.Redirected }
