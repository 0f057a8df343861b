package feed

import (
	"io"
	"time"

	"storyfeed/internal/coordinator"
	"storyfeed/internal/loader"
	"storyfeed/pkg/types"
)

// session is one client's view: a stories loader and a collections loader,
// each owning its coordinator and transport.
type session struct {
	id          string
	stories     *loader.Loader[types.Story]
	collections *loader.Loader[types.Subreddit]
	lastUsed    time.Time
}

func (s *Service) newSession(id string) *session {
	storiesCoord := coordinator.New()
	navCoord := coordinator.New()
	return &session{
		id: id,
		stories: loader.New[types.Story](loader.Options{
			Name:        "stories",
			Coordinator: storiesCoord,
			Transport:   s.newTransport(storiesCoord),
			Endpoint:    s.stories,
			HookPrefix:  "fnStoryList",
			Publisher:   s.pub,
		}),
		collections: loader.New[types.Subreddit](loader.Options{
			Name:        "collections",
			Coordinator: navCoord,
			Transport:   s.newTransport(navCoord),
			Endpoint:    s.collections,
			HookPrefix:  "fnNavigation",
			Publisher:   s.pub,
		}),
	}
}

// session returns the session for id, creating it and evicting the least
// recently used one when the cap is reached.
func (s *Service) session(id string) (*session, error) {
	if id == "" {
		id = defaultSessionID
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if sess, ok := s.sessions[id]; ok {
		sess.lastUsed = time.Now()
		s.mu.Unlock()
		return sess, nil
	}
	var evicted *session
	if len(s.sessions) >= s.maxSessions {
		for _, cand := range s.sessions {
			if evicted == nil || cand.lastUsed.Before(evicted.lastUsed) {
				evicted = cand
			}
		}
		if evicted != nil {
			delete(s.sessions, evicted.id)
			s.evictions++
		}
	}
	sess := s.newSession(id)
	sess.lastUsed = time.Now()
	s.sessions[id] = sess
	s.mu.Unlock()

	if evicted != nil {
		s.log.Debug().Str("session", evicted.id).Msg("session evicted")
		evicted.close()
	}
	return sess, nil
}

// close shuts down the session's transports; in-flight fetches fail.
func (sess *session) close() {
	for _, tr := range []any{sess.stories.Transport(), sess.collections.Transport()} {
		if c, ok := tr.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

func (sess *session) attached() int {
	return sess.stories.Transport().Attached() + sess.collections.Transport().Attached()
}

func (sess *session) hooks() int {
	return len(sess.stories.Coordinator().Hooks()) + len(sess.collections.Coordinator().Hooks())
}
