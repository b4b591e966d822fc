// Package constants defines the buffer bounds and default values shared
// across rawclient's packages.
package constants

import "time"

// Default scheme ports, timeout, and redirect ceiling.
const (
	DefaultHTTPPort     = 80
	DefaultHTTPSPort    = 443
	DefaultTimeout      = 5 * time.Second
	DefaultMaxRedirects = 10
)

// Buffer bounds. Inputs exceeding these are truncated, never rejected;
// truncation always preserves a trailing NUL-equivalent (an empty Go
// string past the cap, since Go strings aren't NUL-terminated, but the
// cap is still enforced byte-for-byte against these limits).
const (
	URLMax         = 2048
	HostMax        = 256
	PathMax        = 1024
	HeadMax        = 8192
	LineMax        = 4096
	ContentTypeMax = 64
)
