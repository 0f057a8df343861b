package types

// StoriesResponse is returned by GET /r/{collection}.
type StoriesResponse struct {
	// Collection the stories belong to.
	// example: movies
	Collection string `json:"collection" example:"movies"`
	// Stories in the order the remote listing delivered them.
	Stories []Story `json:"stories"`
}

// NavigationItem is one collection as shown by the navigation list.
type NavigationItem struct {
	Subreddit SubredditData `json:"subreddit"`
	// True when the item's url matches the requested active url.
	// example: false
	Selected bool `json:"selected" example:"false"`
}

// CollectionsResponse is returned by GET /collections.
type CollectionsResponse struct {
	// Collections sorted by subscribers, descending.
	Items []NavigationItem `json:"items"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: collection is required
	Error string `json:"error" example:"collection is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Number of live sessions, each owning its own coordinator.
	// example: 3
	Sessions int `json:"sessions" example:"3"`
	// Maximum sessions kept before least recently used ones are evicted.
	// example: 256
	MaxSessions int `json:"max_sessions" example:"256"`
	// Transport resources currently attached across sessions.
	// example: 1
	AttachedResources int `json:"attached_resources" example:"1"`
	// Completion hooks currently registered across sessions.
	// example: 1
	RegisteredHooks int `json:"registered_hooks" example:"1"`
	// Sessions evicted since start.
	// example: 0
	EvictionsTotal uint64 `json:"evictions_total" example:"0"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
