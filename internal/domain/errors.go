package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a network-related error that may be retriable
type NetworkError struct {
	Op        string // Operation that failed (e.g., "dial", "read", "subscribe")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DecodeError represents a single malformed or unknown feed frame.
// It is always recoverable: the frame is dropped and counted, the
// ingestion loop moves on to the next frame.
type DecodeError struct {
	Reason string // Why the frame was rejected (e.g., "missing coinSymbol")
	Frame  string // Truncated copy of the offending frame, for logs
	Err    error  // Optional underlying cause, e.g. ErrUnknownMessageType
}

func (e *DecodeError) Error() string {
	return "decode error: " + e.Reason
}

func (e *DecodeError) IsRetriable() bool {
	return true
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a DecodeError, truncating the frame for log safety.
func NewDecodeError(reason string, frame []byte) *DecodeError {
	const maxFrame = 256
	f := string(frame)
	if len(f) > maxFrame {
		f = f[:maxFrame]
	}
	return &DecodeError{Reason: reason, Frame: f}
}

var (
	// ErrConnectionFailed is returned when websocket connection fails. It's usually retriable.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnknownMessageType is returned for frames whose discriminator is unrecognized.
	ErrUnknownMessageType = errors.New("unknown message type")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)
