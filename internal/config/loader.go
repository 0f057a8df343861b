package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"storyfeed/internal/common/fsutil"
	"storyfeed/internal/loader"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr     string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	// StoriesURL is the stories endpoint template; {collection} is replaced
	// with the collection id.
	StoriesURL     string `json:"stories_url" yaml:"stories_url" toml:"stories_url"`
	CollectionsURL string `json:"collections_url" yaml:"collections_url" toml:"collections_url"`
	CollectionsID  string `json:"collections_id" yaml:"collections_id" toml:"collections_id"`
	CallbackParam  string `json:"callback_param" yaml:"callback_param" toml:"callback_param"`
	// RequestTimeoutMS bounds each upstream fetch.
	RequestTimeoutMS int `json:"request_timeout_ms" yaml:"request_timeout_ms" toml:"request_timeout_ms"`
	// WaitTimeoutMS bounds how long an HTTP request waits for its listing (0 = until the fetch reports).
	WaitTimeoutMS int    `json:"wait_timeout_ms" yaml:"wait_timeout_ms" toml:"wait_timeout_ms"`
	MaxSessions   int    `json:"max_sessions" yaml:"max_sessions" toml:"max_sessions"`
	MaxBodyBytes  int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	UserAgent     string `json:"user_agent" yaml:"user_agent" toml:"user_agent"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`
}

// Defaults applied by WithDefaults.
const (
	DefaultAddr             = ":8080"
	DefaultLogLevel         = "info"
	DefaultRequestTimeoutMS = 30000
	DefaultMaxSessions      = 256
	DefaultUserAgent        = "storyfeed/1.0"
)

// Defaults returns a Config with every field at its default.
func Defaults() Config { return Config{}.WithDefaults() }

// WithDefaults returns c with unset fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.StoriesURL == "" {
		c.StoriesURL = loader.DefaultStoriesTemplate
	}
	if c.CollectionsURL == "" {
		c.CollectionsURL = loader.DefaultCollectionsTemplate
	}
	if c.CollectionsID == "" {
		c.CollectionsID = "popular"
	}
	if c.CallbackParam == "" {
		c.CallbackParam = loader.DefaultCallbackParam
	}
	if c.RequestTimeoutMS <= 0 {
		c.RequestTimeoutMS = DefaultRequestTimeoutMS
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if len(c.CORSMethods) == 0 {
		c.CORSMethods = []string{"GET", "OPTIONS"}
	}
	if len(c.CORSHeaders) == 0 {
		c.CORSHeaders = []string{"Accept", "Content-Type", "X-Session-ID", "X-Log-Level"}
	}
	return c
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutMS) * time.Millisecond
}

// StoriesEndpoint returns the endpoint of the stories loader.
func (c Config) StoriesEndpoint() loader.Endpoint {
	return loader.Endpoint{Template: c.StoriesURL, CallbackParam: c.CallbackParam}
}

// CollectionsEndpoint returns the endpoint of the collections loader.
func (c Config) CollectionsEndpoint() loader.Endpoint {
	return loader.Endpoint{Template: c.CollectionsURL, CallbackParam: c.CallbackParam}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. A leading ~ is expanded.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
