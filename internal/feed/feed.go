package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storyfeed/internal/loader"
	"storyfeed/internal/navigation"
	"storyfeed/internal/transport"
	"storyfeed/pkg/types"
)

// ErrClosed is returned once the service has been closed.
var ErrClosed = errors.New("feed service closed")

// ErrSessionEvicted is returned by a load whose session was evicted while
// the fetch was in flight. The upstream was not at fault; retrying starts a
// fresh session.
var ErrSessionEvicted = errors.New("session evicted before its listing arrived")

// Service hands out listings per session.
type Service struct {
	stories       loader.Endpoint
	collections   loader.Endpoint
	collectionsID string
	maxSessions   int
	log           zerolog.Logger
	pub           loader.EventPublisher
	newTransport  TransportFactory

	mu        sync.Mutex
	sessions  map[string]*session
	evictions uint64
	closed    bool
	startTime time.Time
}

// Stories loads the stories of collection for session. A later call for the
// same session supersedes this one, which then returns loader.ErrSuperseded.
func (s *Service) Stories(ctx context.Context, sessionID, collection string) ([]types.Story, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	stories, err := sess.stories.Load(collection).Await(ctx)
	if err != nil {
		return nil, s.closedCause(err)
	}
	return stories, nil
}

// Collections loads the collections listing for session, sorted for
// navigation with activeURL marked as selected.
func (s *Service) Collections(ctx context.Context, sessionID, activeURL string) ([]types.NavigationItem, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	subs, err := sess.collections.Load(s.collectionsID).Await(ctx)
	if err != nil {
		return nil, s.closedCause(err)
	}
	return navigation.Items(subs, activeURL), nil
}

// closedCause replaces a load failure caused by this service closing the
// session's transport with ErrClosed or ErrSessionEvicted.
func (s *Service) closedCause(err error) error {
	if !errors.Is(err, transport.ErrClosed) {
		return err
	}
	if !s.Ready() {
		return ErrClosed
	}
	return ErrSessionEvicted
}

// Ready reports whether the service accepts requests.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close shuts down every session. In-flight loads fail.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sessions := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
	return nil
}
