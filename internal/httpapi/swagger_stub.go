//go:build !swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountSwagger answers /swagger/ requests with a JSON 404 naming the build
// tag that serves the UI, instead of the router's plain-text miss.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "api docs not built in; rebuild with -tags=swagger")
	})
}
