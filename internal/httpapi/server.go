package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storyfeed/internal/loader"
	"storyfeed/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Stories(ctx context.Context, sessionID, collection string) ([]types.Story, error)
	Collections(ctx context.Context, sessionID, activeURL string) ([]types.NavigationItem, error)
	Status() types.StatusResponse
	Ready() bool
}

type api struct{ svc Service }

func NewMux(svc Service) http.Handler {
	a := &api{svc: svc}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsOpts.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOpts.Origins,
			AllowedMethods:   corsOpts.Methods,
			AllowedHeaders:   corsOpts.Headers,
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/r/{collection}", a.stories)
	// no collection: the service rejects it as invalid input
	r.Get("/r", a.stories)
	r.Get("/r/", a.stories)
	r.Get("/collections", a.collections)
	r.Get("/status", a.status)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("closed"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// stories godoc
// @Summary      Stories of a collection
// @Description  Loads the listing of a collection. A newer request of the same session supersedes this one (409).
// @Tags         listings
// @Produce      json
// @Param        collection    path    string  true   "Collection id"  example(movies)
// @Param        X-Session-ID  header  string  false  "Session id; defaults to the storyfeed_session cookie"
// @Success      200  {object}  types.StoriesResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      409  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Failure      504  {object}  types.ErrorResponse
// @Router       /r/{collection} [get]
func (a *api) stories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	collection := chi.URLParam(r, "collection")
	session := sessionID(w, r)
	if lvl >= LevelDebug {
		zlog.Debug().Str("collection", collection).Str("session", session).Msg("stories start")
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	stories, err := a.svc.Stories(ctx, session, collection)
	if err != nil {
		a.fail(w, r, lvl, "stories", start, err)
		return
	}
	writeJSON(w, types.StoriesResponse{Collection: collection, Stories: stories})
	logRequestEnd(r, lvl, "stories", http.StatusOK, start, nil)
}

// collections godoc
// @Summary      Collections for navigation
// @Description  Loads the collections listing sorted by subscribers (descending) and marks the active one.
// @Tags         listings
// @Produce      json
// @Param        active        query   string  false  "Url of the active collection"  example(/r/movies/)
// @Param        X-Session-ID  header  string  false  "Session id; defaults to the storyfeed_session cookie"
// @Success      200  {object}  types.CollectionsResponse
// @Failure      409  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /collections [get]
func (a *api) collections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	session := sessionID(w, r)

	ctx, cancel := requestContext(r)
	defer cancel()
	items, err := a.svc.Collections(ctx, session, r.URL.Query().Get("active"))
	if err != nil {
		a.fail(w, r, lvl, "collections", start, err)
		return
	}
	writeJSON(w, types.CollectionsResponse{Items: items})
	logRequestEnd(r, lvl, "collections", http.StatusOK, start, nil)
}

// status godoc
// @Summary  Service status
// @Tags     ops
// @Produce  json
// @Success  200  {object}  types.StatusResponse
// @Router   /status [get]
func (a *api) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.svc.Status())
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, lvl LogLevel, what string, start time.Time, err error) {
	// client went away or server is shutting down: nothing to answer
	if errors.Is(err, context.Canceled) && (r.Context().Err() != nil || serverBaseCtx.Err() != nil) {
		return
	}
	status, msg := statusFor(err)
	if errors.Is(err, loader.ErrSuperseded) {
		IncrementSuperseded(what)
	}
	writeJSONError(w, status, msg)
	logRequestEnd(r, lvl, what, status, start, err)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
