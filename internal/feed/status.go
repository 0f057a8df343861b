package feed

import (
	"time"

	"storyfeed/pkg/types"
)

// Status builds the response for /status.
func (s *Service) Status() types.StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	resp := types.StatusResponse{
		Sessions:       len(s.sessions),
		MaxSessions:    s.maxSessions,
		EvictionsTotal: s.evictions,
		UptimeSeconds:  int64(now.Sub(s.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	for _, sess := range s.sessions {
		resp.AttachedResources += sess.attached()
		resp.RegisteredHooks += sess.hooks()
	}
	return resp
}
