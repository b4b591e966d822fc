// Package errors defines the structured error type shared by rawclient's
// packages: every failure carries a category, the operation that failed,
// and the address it failed against, so callers can match on category
// with errors.Is instead of string-sniffing messages.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrorType is the failure category an Error belongs to.
type ErrorType string

const (
	ErrorTypeDNS        ErrorType = "dns"        // name resolution
	ErrorTypeConnection ErrorType = "connection" // TCP dial
	ErrorTypeTLS        ErrorType = "tls"        // TLS handshake
	ErrorTypeTimeout    ErrorType = "timeout"    // idle timeout elapsed
	ErrorTypeProtocol   ErrorType = "protocol"   // malformed HTTP syntax or an error status
	ErrorTypeChunked    ErrorType = "chunked"    // chunked transfer-encoding framing
	ErrorTypeIO         ErrorType = "io"         // read/write on an open stream
	ErrorTypeValidation ErrorType = "validation" // bad caller-supplied options
)

// Error is the structured error every rawclient failure surfaces as.
type Error struct {
	Type      ErrorType `json:"type"`
	Op        string    `json:"op"`
	Message   string    `json:"message"`
	Cause     error     `json:"cause,omitempty"`
	Host      string    `json:"host,omitempty"`
	Port      int       `json:"port,omitempty"`
	Addr      string    `json:"addr,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TransportError aliases Error for callers that name transport-level
// failures distinctly.
type TransportError = Error

// Error renders as "[type] op addr: message: cause", omitting absent parts.
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("[%s]", e.Type)}
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	switch {
	case e.Addr != "":
		parts = append(parts, e.Addr)
	case e.Host != "" && e.Port > 0:
		parts = append(parts, fmt.Sprintf("%s:%d", e.Host, e.Port))
	case e.Host != "":
		parts = append(parts, e.Host)
	}

	s := strings.Join(parts, " ")
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches two *Errors by category, so
// errors.Is(err, &Error{Type: ErrorTypeTLS}) works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Type == t.Type
}

func newError(typ ErrorType, op, message string, cause error) *Error {
	return &Error{
		Type:      typ,
		Op:        op,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// NewDNSError reports a failed name resolution for host.
func NewDNSError(host string, cause error) *Error {
	e := newError(ErrorTypeDNS, "lookup", fmt.Sprintf("DNS lookup failed for host %s", host), cause)
	e.Host = host
	e.Addr = host
	return e
}

// NewConnectionError reports a failed dial to host:port.
func NewConnectionError(host string, port int, cause error) *Error {
	addr := fmt.Sprintf("%s:%d", host, port)
	e := newError(ErrorTypeConnection, "dial", "failed to connect to "+addr, cause)
	e.Host = host
	e.Port = port
	e.Addr = addr
	return e
}

// NewTLSError reports a failed TLS handshake with host:port.
func NewTLSError(host string, port int, cause error) *Error {
	addr := fmt.Sprintf("%s:%d", host, port)
	e := newError(ErrorTypeTLS, "handshake", "TLS handshake failed for "+addr, cause)
	e.Host = host
	e.Port = port
	e.Addr = addr
	return e
}

// NewTimeoutError reports that operation made no progress for timeout.
func NewTimeoutError(operation string, timeout time.Duration) *Error {
	return newError(ErrorTypeTimeout, operation, fmt.Sprintf("operation timed out after %v", timeout), nil)
}

// NewProtocolError reports malformed HTTP syntax or an error status.
func NewProtocolError(message string, cause error) *Error {
	return newError(ErrorTypeProtocol, "parse", message, cause)
}

// NewChunkedError reports a chunked-framing failure: a malformed
// chunk-size line or a missing chunk-trailer CRLF.
func NewChunkedError(message string, cause error) *Error {
	return newError(ErrorTypeChunked, "chunked", message, cause)
}

// NewIOError reports a read or write failure on an open stream; op is
// normalized to "read" or "write" when operation names either.
func NewIOError(operation string, cause error) *Error {
	op := operation
	if strings.Contains(strings.ToLower(operation), "read") {
		op = "read"
	} else if strings.Contains(strings.ToLower(operation), "writ") {
		op = "write"
	}
	return newError(ErrorTypeIO, op, "I/O error during "+operation, cause)
}

// NewValidationError reports bad caller-supplied options.
func NewValidationError(message string) *Error {
	return newError(ErrorTypeValidation, "validate", message, nil)
}

// IsTimeoutError reports whether err is a timeout in any of its forms:
// a structured ErrorTypeTimeout, a net.Error timeout, or a context
// deadline.
func IsTimeoutError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrorTypeTimeout
	}
	if netErr, ok := err.(net.Error); ok {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// GetErrorType returns err's category, or "" when err is not a structured
// *Error.
func GetErrorType(err error) ErrorType {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return ""
}

// IsContextCanceled reports whether err stems from context cancellation.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
