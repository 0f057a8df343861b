package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"storyfeed/internal/config"
	"storyfeed/internal/coordinator"
	"storyfeed/internal/feed"
	"storyfeed/internal/loader"
	"storyfeed/internal/navigation"
	"storyfeed/internal/transport"
	"storyfeed/pkg/types"
)

// newJSONP returns a coordinator with a JSONP transport delivering into it.
func newJSONP(cfg config.Config, log zerolog.Logger) (*coordinator.Coordinator, *transport.JSONP) {
	coord := coordinator.New()
	tr := transport.NewJSONP(coord, transport.JSONPConfig{
		Client:       &http.Client{Timeout: cfg.RequestTimeout()},
		MaxBodyBytes: cfg.MaxBodyBytes,
		UserAgent:    cfg.UserAgent,
		Logger:       log,
	})
	return coord, tr
}

func runFetch(ctx context.Context, out io.Writer, cfg config.Config, log zerolog.Logger, collection string, asJSON bool) error {
	coord, tr := newJSONP(cfg, log)
	defer tr.Close()
	l := loader.New[types.Story](loader.Options{
		Name:        "stories",
		Coordinator: coord,
		Transport:   tr,
		Endpoint:    cfg.StoriesEndpoint(),
		Publisher:   feed.LogPublisher{Logger: log},
	})
	stories, err := l.Fetch(ctx, collection)
	if err != nil {
		return userError(log, err)
	}
	if asJSON {
		return writeIndented(out, types.StoriesResponse{Collection: collection, Stories: stories})
	}
	for _, s := range stories {
		created := time.Unix(int64(s.Data.CreatedUTC), 0).UTC().Format("2006-01-02")
		fmt.Fprintf(out, "%6d  %s  (u/%s, %s)\n", s.Data.Score, s.Data.Title, s.Data.Author, created)
	}
	return nil
}

func runCollections(ctx context.Context, out io.Writer, cfg config.Config, log zerolog.Logger, activeURL string, asJSON bool) error {
	coord, tr := newJSONP(cfg, log)
	defer tr.Close()
	l := loader.New[types.Subreddit](loader.Options{
		Name:        "collections",
		Coordinator: coord,
		Transport:   tr,
		Endpoint:    cfg.CollectionsEndpoint(),
		HookPrefix:  "fnNavigation",
		Publisher:   feed.LogPublisher{Logger: log},
	})
	subs, err := l.Fetch(ctx, cfg.CollectionsID)
	if err != nil {
		return userError(log, err)
	}
	items := navigation.Items(subs, activeURL)
	if asJSON {
		return writeIndented(out, types.CollectionsResponse{Items: items})
	}
	for _, it := range items {
		mark := " "
		if it.Selected {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-24s %10d  %s\n", mark, it.Subreddit.DisplayName, it.Subreddit.Subscribers, it.Subreddit.URL)
	}
	return nil
}

// userError strips the upstream cause from transport failures; the cause is
// logged at debug.
func userError(log zerolog.Logger, err error) error {
	var te *loader.TransportError
	if errors.As(err, &te) {
		log.Debug().Err(te.Err).Str("collection", te.Collection).Msg("fetch failed")
		return errors.New(te.Message())
	}
	return err
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
