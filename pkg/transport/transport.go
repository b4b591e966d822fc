// Package transport provides the pluggable byte-stream backing a Client:
// a plain TCP socket (with optional upstream proxy dialing) or a
// caller-supplied TLS adapter.
package transport

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/whileendless-successor/rawclient/pkg/tlsconfig"
)

// Transport is the byte-stream abstraction a Client opens a request over.
// Read/Write return the number of bytes moved and a non-nil error only on
// a genuine failure. A short read/write with a nil error, including zero
// bytes when nothing was ready in time, is a normal result; callers that
// need the whole buffer loop at the BlockRead/BlockWrite layer.
type Transport interface {
	Open(ctx context.Context, host string, port int) error
	Close() error
	Read(buf []byte) (int64, error)
	Write(buf []byte) (int64, error)
}

// SecureAdapter is the caller-supplied TLS quartet used when a Client is
// configured for HTTPS without Plain+crypto/tls handling the handshake
// itself (e.g. an embedder routing TLS through its own stack). Open
// returns a ready-to-use stream already past the handshake.
type SecureAdapter interface {
	Open(ctx context.Context, host string, port int) error
	Close() error
	Read(buf []byte) (int64, error)
	Write(buf []byte) (int64, error)
}

// ProxyConfig describes an upstream proxy the Plain transport dials
// through before handing the resulting connection to the caller (who may
// then TLS-upgrade it). Only HTTP CONNECT and SOCKS5 are supported.
type ProxyConfig struct {
	Type     string // "http" or "socks5"
	Host     string
	Port     int
	Username string
	Password string
}

// TLSConfig bundles the pieces of crypto/tls.Config a Plain transport
// needs to perform its own TLS upgrade for an HTTPS request when no
// SecureAdapter was supplied. If MinVersion/MaxVersion/CipherSuites are
// left zero, Profile (defaulting to tlsconfig.ProfileSecure) supplies
// them instead of an unrestricted crypto/tls default.
type TLSConfig struct {
	ServerName         string
	InsecureSkipVerify bool
	MinVersion         uint16
	MaxVersion         uint16
	CipherSuites       []uint16
	Certificates       []tls.Certificate
	Profile            *tlsconfig.VersionProfile
}

func (c *TLSConfig) toStdlib(fallbackHost string) *tls.Config {
	sni := c.ServerName
	if sni == "" {
		sni = fallbackHost
	}

	cfg := &tls.Config{
		ServerName:         sni,
		InsecureSkipVerify: c.InsecureSkipVerify,
		MinVersion:         c.MinVersion,
		MaxVersion:         c.MaxVersion,
		CipherSuites:       c.CipherSuites,
		Certificates:       c.Certificates,
	}

	if cfg.MinVersion == 0 && cfg.MaxVersion == 0 {
		profile := c.Profile
		if profile == nil {
			profile = &tlsconfig.ProfileSecure
		}
		tlsconfig.ApplyVersionProfile(cfg, *profile)
		if cfg.CipherSuites == nil {
			tlsconfig.ApplyCipherSuites(cfg, cfg.MinVersion)
		}
	}

	return cfg
}

// dialTimeout is the default per-attempt dial timeout when a caller does
// not supply one via context deadline.
const dialTimeout = 10 * time.Second
