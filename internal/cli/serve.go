package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"storyfeed/internal/config"
	"storyfeed/internal/feed"
	"storyfeed/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// runServe serves the API on cfg.Addr until ctx is done, then shuts down
// gracefully. ready, if set, receives the bound address once listening.
func runServe(ctx context.Context, cfg config.Config, log zerolog.Logger, ready func(addr string)) error {
	svc := feed.New(feed.Config{
		Stories:        cfg.StoriesEndpoint(),
		Collections:    cfg.CollectionsEndpoint(),
		CollectionsID:  cfg.CollectionsID,
		MaxSessions:    cfg.MaxSessions,
		RequestTimeout: cfg.RequestTimeout(),
		MaxBodyBytes:   cfg.MaxBodyBytes,
		UserAgent:      cfg.UserAgent,
		Logger:         log,
	})
	defer svc.Close()

	httpapi.SetLogger(log)
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetCORS(httpapi.CORSOptions{
		Enabled: cfg.CORSEnabled,
		Origins: cfg.CORSOrigins,
		Methods: cfg.CORSMethods,
		Headers: cfg.CORSHeaders,
	})
	httpapi.SetRequestTimeout(cfg.WaitTimeout())
	// Cancelled on shutdown so requests waiting on a listing return at once.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	defer httpapi.SetBaseContext(nil)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{Handler: httpapi.NewMux(svc), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("stories_url", cfg.StoriesURL).
		Str("collections_url", cfg.CollectionsURL).
		Int("max_sessions", cfg.MaxSessions).
		Msg("storyfeed listening")
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	cancelBase()
	shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("storyfeed stopped")
	return nil
}
