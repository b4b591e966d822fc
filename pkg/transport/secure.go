package transport

import "context"

// Secure wraps a caller-supplied SecureAdapter as a Transport, for callers
// who want to route TLS through their own stack (certificate pinning, a
// platform keystore) instead of Plain's crypto/tls handling.
type Secure struct {
	Adapter SecureAdapter
}

func (s *Secure) Open(ctx context.Context, host string, port int) error {
	return s.Adapter.Open(ctx, host, port)
}

func (s *Secure) Close() error {
	return s.Adapter.Close()
}

func (s *Secure) Read(buf []byte) (int64, error) {
	return s.Adapter.Read(buf)
}

func (s *Secure) Write(buf []byte) (int64, error) {
	return s.Adapter.Write(buf)
}
