package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storyfeed/internal/feed"
	"storyfeed/internal/loader"
	"storyfeed/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusFor maps service errors to an HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	var terr *loader.TransportError
	switch {
	case errors.As(err, &terr):
		return terr.StatusCode(), terr.Message()
	case loader.IsInvalidInput(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, loader.ErrSuperseded):
		return http.StatusConflict, err.Error()
	case errors.Is(err, feed.ErrClosed), errors.Is(err, feed.ErrSessionEvicted):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timed out waiting for listing"
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode(), he.Error()
	}
	return http.StatusInternalServerError, err.Error()
}
