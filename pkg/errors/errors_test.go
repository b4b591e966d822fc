package errors

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name         string
		err          *Error
		expectedType ErrorType
	}{
		{
			name:         "DNS Error",
			err:          NewDNSError("example.com", fmt.Errorf("lookup failed")),
			expectedType: ErrorTypeDNS,
		},
		{
			name:         "Connection Error",
			err:          NewConnectionError("example.com", 443, fmt.Errorf("connection refused")),
			expectedType: ErrorTypeConnection,
		},
		{
			name:         "TLS Error",
			err:          NewTLSError("example.com", 443, fmt.Errorf("handshake failed")),
			expectedType: ErrorTypeTLS,
		},
		{
			name:         "Timeout Error",
			err:          NewTimeoutError("connection", 5*time.Second),
			expectedType: ErrorTypeTimeout,
		},
		{
			name:         "Protocol Error",
			err:          NewProtocolError("invalid status line", fmt.Errorf("parse error")),
			expectedType: ErrorTypeProtocol,
		},
		{
			name:         "Chunked Error",
			err:          NewChunkedError("malformed chunk-size line", fmt.Errorf("bad hex")),
			expectedType: ErrorTypeChunked,
		},
		{
			name:         "IO Error",
			err:          NewIOError("reading", fmt.Errorf("broken pipe")),
			expectedType: ErrorTypeIO,
		},
		{
			name:         "Validation Error",
			err:          NewValidationError("host cannot be empty"),
			expectedType: ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.expectedType {
				t.Errorf("expected type %v, got %v", tt.expectedType, tt.err.Type)
			}
			if tt.err.Error() == "" {
				t.Error("error message should not be empty")
			}
			if tt.err.Timestamp.IsZero() {
				t.Error("timestamp should be set")
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := NewDNSError("example.com", cause)

	if err.Unwrap() != cause {
		t.Errorf("expected unwrapped error to be %v, got %v", cause, err.Unwrap())
	}
}

func TestErrorIs(t *testing.T) {
	a := NewDNSError("example.com", nil)
	b := NewDNSError("other.com", nil)
	c := NewTLSError("example.com", 443, nil)

	if !a.Is(b) {
		t.Error("two DNS errors should match via Is")
	}
	if a.Is(c) {
		t.Error("a DNS error should not match a TLS error via Is")
	}
}

func TestErrorMessageFormat(t *testing.T) {
	err := NewConnectionError("example.com", 8080, fmt.Errorf("refused"))
	msg := err.Error()

	if !strings.Contains(msg, "[connection]") || !strings.Contains(msg, "example.com:8080") || !strings.Contains(msg, "refused") {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestIsTimeoutError(t *testing.T) {
	if !IsTimeoutError(NewTimeoutError("read", time.Second)) {
		t.Error("structured timeout error should report as timeout")
	}
	if IsTimeoutError(fmt.Errorf("not a timeout")) {
		t.Error("plain error should not report as timeout")
	}
	if !IsTimeoutError(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded should report as timeout")
	}
}

func TestGetErrorType(t *testing.T) {
	if got := GetErrorType(NewValidationError("bad")); got != ErrorTypeValidation {
		t.Errorf("GetErrorType = %v, want %v", got, ErrorTypeValidation)
	}
	if got := GetErrorType(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetErrorType of plain error = %v, want empty", got)
	}
}

func TestIsContextCanceled(t *testing.T) {
	if !IsContextCanceled(context.Canceled) {
		t.Error("expected context.Canceled to be detected")
	}
	if IsContextCanceled(fmt.Errorf("other")) {
		t.Error("unexpected context-canceled match")
	}
}
