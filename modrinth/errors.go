package modrinth

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/s0up4200/rinth/decode"
)

// Error classes. Every error returned by the client matches exactly one of
// these through errors.Is.
var (
	// ErrTransport indicates a connection, network or body read failure.
	ErrTransport = errors.New("modrinth: transport failure")
	// ErrStatusNotOK indicates the API answered with a non-200 status.
	ErrStatusNotOK = errors.New("modrinth: unexpected status")
	// ErrDeserialize indicates a response body did not fit the expected type.
	ErrDeserialize = errors.New("modrinth: cannot decode response")
	// ErrInput indicates invalid arguments, rejected before any request.
	ErrInput = errors.New("modrinth: invalid input")
)

// TransportError wraps a failure to send a request or read its response.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("modrinth: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StatusError is returned for any response whose status is not 200. Body
// holds the raw response so callers can inspect server-provided details.
type StatusError struct {
	StatusCode int
	URL        string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("modrinth: GET %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Is(target error) bool { return target == ErrStatusNotOK }

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// DeserializeError reports a response body that does not match the expected
// type. Path names the offending field, e.g. "hits[3].status".
type DeserializeError struct {
	URL  string
	Path decode.Path
	Err  error
	Body []byte
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("modrinth: GET %s: decode %s: %v", e.URL, e.Path, e.Err)
}

func (e *DeserializeError) Unwrap() error { return e.Err }

func (e *DeserializeError) Is(target error) bool { return target == ErrDeserialize }

// InputError rejects caller-supplied arguments.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "modrinth: invalid input: " + e.Reason
}

func (e *InputError) Is(target error) bool { return target == ErrInput }

func inputErrorf(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}
