// Package timing measures the per-phase latency of a request: name
// resolution, TCP connect, TLS handshake, and time to first response
// byte.
package timing

import (
	"fmt"
	"time"
)

// Metrics is the per-phase timing of one completed request. A zero
// duration means the phase never ran (TLSHandshake stays zero for plain
// HTTP, DNSLookup stays zero when a literal address was dialed).
type Metrics struct {
	DNSLookup    time.Duration `json:"dns_lookup"`
	TCPConnect   time.Duration `json:"tcp_connect"`
	TLSHandshake time.Duration `json:"tls_handshake"`
	TTFB         time.Duration `json:"ttfb"`
	TotalTime    time.Duration `json:"total_time"`
}

// span is one phase's start/end marker pair.
type span struct {
	start time.Time
	end   time.Time
}

func (s span) elapsed() time.Duration {
	if s.start.IsZero() || s.end.IsZero() {
		return 0
	}
	return s.end.Sub(s.start)
}

// Timer collects phase markers over the course of one request. Mark a
// phase with its Start/End pair; unmarked phases report zero.
type Timer struct {
	start time.Time
	dns   span
	tcp   span
	tls   span
	ttfb  span
}

// NewTimer starts a measurement session; TotalTime counts from here.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// StartDNS marks the beginning of name resolution.
func (t *Timer) StartDNS() { t.dns.start = time.Now() }

// EndDNS marks the end of name resolution.
func (t *Timer) EndDNS() { t.dns.end = time.Now() }

// StartTCP marks the beginning of the TCP connect.
func (t *Timer) StartTCP() { t.tcp.start = time.Now() }

// EndTCP marks the end of the TCP connect.
func (t *Timer) EndTCP() { t.tcp.end = time.Now() }

// StartTLS marks the beginning of the TLS handshake.
func (t *Timer) StartTLS() { t.tls.start = time.Now() }

// EndTLS marks the end of the TLS handshake.
func (t *Timer) EndTLS() { t.tls.end = time.Now() }

// StartTTFB marks the point where the request has been written and the
// client begins waiting on the response.
func (t *Timer) StartTTFB() { t.ttfb.start = time.Now() }

// EndTTFB marks the arrival of the first response byte.
func (t *Timer) EndTTFB() { t.ttfb.end = time.Now() }

// GetMetrics snapshots the phases marked so far.
func (t *Timer) GetMetrics() Metrics {
	return Metrics{
		DNSLookup:    t.dns.elapsed(),
		TCPConnect:   t.tcp.elapsed(),
		TLSHandshake: t.tls.elapsed(),
		TTFB:         t.ttfb.elapsed(),
		TotalTime:    time.Since(t.start),
	}
}

// GetConnectionTime is the combined connection-establishment time
// (DNS + TCP + TLS).
func (m Metrics) GetConnectionTime() time.Duration {
	return m.DNSLookup + m.TCPConnect + m.TLSHandshake
}

// GetServerTime is the server-side processing time (TTFB).
func (m Metrics) GetServerTime() time.Duration {
	return m.TTFB
}

// GetNetworkTime is the total time minus server processing.
func (m Metrics) GetNetworkTime() time.Duration {
	return m.TotalTime - m.TTFB
}

func (m Metrics) String() string {
	return fmt.Sprintf("DNSLookup: %v, TCPConnect: %v, TLSHandshake: %v, TTFB: %v, TotalTime: %v",
		m.DNSLookup, m.TCPConnect, m.TLSHandshake, m.TTFB, m.TotalTime)
}
