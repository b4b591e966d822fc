package timing

import (
	"strings"
	"testing"
	"time"
)

func TestTimerMetrics(t *testing.T) {
	timer := NewTimer()

	timer.StartTCP()
	time.Sleep(2 * time.Millisecond)
	timer.EndTCP()

	timer.StartTTFB()
	time.Sleep(2 * time.Millisecond)
	timer.EndTTFB()

	metrics := timer.GetMetrics()

	if metrics.TCPConnect <= 0 {
		t.Error("expected positive TCPConnect duration")
	}
	if metrics.TTFB <= 0 {
		t.Error("expected positive TTFB duration")
	}
	if metrics.TotalTime <= 0 {
		t.Error("expected positive TotalTime")
	}
	if metrics.DNSLookup != 0 {
		t.Errorf("DNSLookup should be zero when never started, got %v", metrics.DNSLookup)
	}
	if metrics.TLSHandshake != 0 {
		t.Errorf("TLSHandshake should be zero for plain HTTP, got %v", metrics.TLSHandshake)
	}
}

func TestTimerTLSPhase(t *testing.T) {
	timer := NewTimer()
	timer.StartTLS()
	time.Sleep(time.Millisecond)
	timer.EndTLS()

	metrics := timer.GetMetrics()
	if metrics.TLSHandshake <= 0 {
		t.Error("expected positive TLSHandshake duration")
	}
}

func TestMetricsDerivedHelpers(t *testing.T) {
	m := Metrics{
		DNSLookup:    10 * time.Millisecond,
		TCPConnect:   20 * time.Millisecond,
		TLSHandshake: 30 * time.Millisecond,
		TTFB:         40 * time.Millisecond,
		TotalTime:    100 * time.Millisecond,
	}

	if got, want := m.GetConnectionTime(), 60*time.Millisecond; got != want {
		t.Errorf("GetConnectionTime() = %v, want %v", got, want)
	}
	if got, want := m.GetServerTime(), 40*time.Millisecond; got != want {
		t.Errorf("GetServerTime() = %v, want %v", got, want)
	}
	if got, want := m.GetNetworkTime(), 60*time.Millisecond; got != want {
		t.Errorf("GetNetworkTime() = %v, want %v", got, want)
	}
}

func TestMetricsString(t *testing.T) {
	m := Metrics{TTFB: 5 * time.Millisecond}
	s := m.String()
	if !strings.Contains(s, "TTFB") {
		t.Errorf("String() = %q, want it to mention TTFB", s)
	}
}
