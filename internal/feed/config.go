package feed

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"storyfeed/internal/loader"
	"storyfeed/internal/transport"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxSessions    = 256
	defaultRequestTimeout = 30 * time.Second
	defaultCollectionsID  = "popular"
	defaultSessionID      = "default"
)

// TransportFactory builds the transport of one loader; env is the
// coordinator the transport must deliver into.
type TransportFactory func(env transport.Dispatcher) transport.Transport

// Config encapsulates all tunables for Service construction.
type Config struct {
	Stories     loader.Endpoint
	Collections loader.Endpoint
	// CollectionsID is the collection id passed to the collections loader.
	CollectionsID string
	MaxSessions   int
	// RequestTimeout bounds each upstream fetch; it is the only way an
	// unanswered request ever fails.
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	UserAgent      string
	Logger         zerolog.Logger
	// Publisher receives loader events; defaults to a LogPublisher on Logger.
	Publisher loader.EventPublisher
	// NewTransport overrides the JSONP transport (tests).
	NewTransport TransportFactory
}

// New constructs a Service from cfg.
func New(cfg Config) *Service {
	s := &Service{
		stories:       cfg.Stories,
		collections:   cfg.Collections,
		collectionsID: cfg.CollectionsID,
		maxSessions:   cfg.MaxSessions,
		log:           cfg.Logger,
		pub:           cfg.Publisher,
		newTransport:  cfg.NewTransport,
		sessions:      make(map[string]*session),
		startTime:     time.Now(),
	}
	if s.stories.Template == "" {
		s.stories.Template = loader.DefaultStoriesTemplate
	}
	if s.collections.Template == "" {
		s.collections.Template = loader.DefaultCollectionsTemplate
	}
	if s.collectionsID == "" {
		s.collectionsID = defaultCollectionsID
	}
	if s.maxSessions <= 0 {
		s.maxSessions = defaultMaxSessions
	}
	if s.pub == nil {
		s.pub = LogPublisher{Logger: cfg.Logger}
	}
	if s.newTransport == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		jcfg := transport.JSONPConfig{
			Client:       &http.Client{Timeout: timeout},
			MaxBodyBytes: cfg.MaxBodyBytes,
			UserAgent:    cfg.UserAgent,
			Logger:       cfg.Logger,
		}
		s.newTransport = func(env transport.Dispatcher) transport.Transport {
			return transport.NewJSONP(env, jcfg)
		}
	}
	return s
}
