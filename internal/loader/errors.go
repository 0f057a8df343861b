package loader

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSuperseded is returned by Pending.Await when a newer load replaced the
// request before it settled. The Pending itself never settles in that case.
var ErrSuperseded = errors.New("request superseded by a newer load")

// InvalidInputError reports caller misuse detected before any resource is
// created.
type InvalidInputError struct{ Reason string }

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }

// StatusCode maps to 400 at the HTTP layer.
func (e *InvalidInputError) StatusCode() int { return http.StatusBadRequest }

// TransportError reports that the listing for Collection could not be
// fetched or decoded.
type TransportError struct {
	Collection string
	// Subject names what was being loaded, e.g. "stories".
	Subject string
	Err     error
}

// Message is the user-facing text; it always names the collection.
func (e *TransportError) Message() string {
	subject := e.Subject
	if subject == "" {
		subject = "stories"
	}
	return fmt.Sprintf("Error loading %s for collection %q. Refresh the page or select a different collection.", subject, e.Collection)
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Message()
	}
	return e.Message() + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode maps to 502 at the HTTP layer.
func (e *TransportError) StatusCode() int { return http.StatusBadGateway }

// IsInvalidInput reports whether err is or wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var e *InvalidInputError
	return errors.As(err, &e)
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}
