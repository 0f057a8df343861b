package feed

import (
	"github.com/rs/zerolog"

	"storyfeed/internal/loader"
)

// LogPublisher writes loader events to a zerolog logger. Failures log at
// warn, settled and discarded loads at info, everything else at debug.
type LogPublisher struct {
	Logger zerolog.Logger
}

func (p LogPublisher) Publish(e loader.Event) {
	var ev *zerolog.Event
	switch e.Name {
	case loader.EventFailed:
		ev = p.Logger.Warn()
	case loader.EventFulfilled, loader.EventDiscarded:
		ev = p.Logger.Info()
	default:
		ev = p.Logger.Debug()
	}
	ev = ev.Str("event", e.Name).Str("loader", e.Loader).Str("collection", e.Collection)
	if e.Token != 0 {
		ev = ev.Uint64("token", e.Token)
	}
	if len(e.Fields) > 0 {
		ev = ev.Fields(e.Fields)
	}
	ev.Msg("load")
}
