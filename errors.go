package grademywork

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Error types carried by ClientError.Type.
const (
	ErrorTypeValidation = "Validation"
	ErrorTypeRoute      = "Route"
	ErrorTypeEncode     = "Encode"
	ErrorTypeDecode     = "Decode"

	// Metric labels only; these failures are not reported as ClientError.
	ErrorTypeTransport = "Transport"
	ErrorTypeRemote    = "Remote"
)

// Sentinel errors for common failure scenarios
var (
	// ErrMissingBaseURL is returned by New when no base URL was configured.
	ErrMissingBaseURL = errors.New("grademywork: base URL is required")

	// ErrMissingParam is returned when a route placeholder has no value.
	ErrMissingParam = errors.New("grademywork: missing path parameter")

	// ErrUnknownParam is returned when a value is given for an undeclared placeholder.
	ErrUnknownParam = errors.New("grademywork: unknown path parameter")
)

// ClientError describes a failure that happened inside the client itself,
// before a request was sent or after a successful response was received.
type ClientError struct {
	Type      string
	Message   string
	Cause     error
	RequestID string
	Method    string
	URL       string
	Timestamp time.Time
	Duration  time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// RemoteError is returned when the service answered with a non-2xx status.
// Its message is "<status> - <body>".
type RemoteError struct {
	StatusCode int
	Body       string
	Method     string
	URL        string
	RequestID  string
}

// Error implements error interface.
func (e *RemoteError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Body)
}

// AsRemoteError reports whether err is, or wraps, a RemoteError.
func AsRemoteError(err error) (*RemoteError, bool) {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr, true
	}
	return nil, false
}

// IsStatus reports whether err is a RemoteError with the given status code.
func IsStatus(err error, statusCode int) bool {
	remoteErr, ok := AsRemoteError(err)
	return ok && remoteErr.StatusCode == statusCode
}

// IsTransportError reports whether err came from the transport, i.e. the
// request never produced a response. Such errors are returned exactly as
// net/http produced them.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := AsRemoteError(err); ok {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
