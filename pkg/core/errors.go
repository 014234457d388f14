package core

import (
	"fmt"
	"net/url"
)

// Error is the canonical error for the voice session subsystem.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrCredential means the caller supplied an empty or invalid credential.
	// Raised synchronously before any socket activity.
	ErrCredential ErrorType = "credential_error"
	// ErrDevice means the microphone is unavailable or permission was denied.
	ErrDevice ErrorType = "device_error"
	// ErrTransport covers socket-level open/send failures and
	// remote-reported protocol errors.
	ErrTransport ErrorType = "transport_error"
	// ErrToolExecution means a tool's collaborator call failed.
	ErrToolExecution ErrorType = "tool_execution_error"
)

// NewCredentialError creates a credential error.
func NewCredentialError(message string) *Error {
	return &Error{Type: ErrCredential, Message: message}
}

// NewDeviceError creates a device error.
func NewDeviceError(message string) *Error {
	return &Error{Type: ErrDevice, Message: message}
}

// NewProtocolError creates a transport error reported by the remote end.
func NewProtocolError(message, code string) *Error {
	return &Error{Type: ErrTransport, Message: message, Code: code}
}

// NewToolExecutionError creates a tool execution error.
func NewToolExecutionError(message string) *Error {
	return &Error{Type: ErrToolExecution, Message: message}
}

// TransportError represents socket transport-level failures (DNS, dial
// timeouts, connection reset, TLS handshake, mid-session write errors).
//
// Use errors.As(err, &TransportError{}) to distinguish transport failures
// from canonical *core.Error values.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Op != "" && e.URL != "":
		return fmt.Sprintf("transport error during %s %s: %v", e.Op, redactURLUserInfo(e.URL), e.Err)
	case e.Op != "":
		return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("transport error: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func redactURLUserInfo(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	parsed.User = nil
	return parsed.String()
}
