// Package cli implements the storyfeed command line: the HTTP server and
// one-shot listing fetches against the same upstream.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storyfeed/internal/common/fsutil"
	"storyfeed/internal/config"
)

// Options holds the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// Config file locations tried when neither --config nor STORYFEED_CONFIG is set.
var defaultConfigPaths = []string{
	"storyfeed.yaml",
	"storyfeed.yml",
	"storyfeed.toml",
	"storyfeed.json",
	"~/.config/storyfeed/config.yaml",
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int { return MainWithArgs(os.Args[1:]) }

// MainWithArgs runs the CLI with args. It returns 0 on success, 1 when the
// command failed and 2 when no command was given.
func MainWithArgs(args []string) int {
	return run(context.Background(), args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out, errw io.Writer) int {
	// command loggers and the final error line share errw across goroutines
	errw = zerolog.SyncWriter(errw)
	root := buildRootCmdWith(&Options{})
	root.SetOut(out)
	root.SetErr(errw)
	if len(args) == 0 {
		_ = root.Usage()
		return 2
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errw, "error:", err)
		return 1
	}
	return 0
}

// resolveConfig loads the config file, if any, then applies environment and
// flag overrides. Flags win over the environment, which wins over the file.
func resolveConfig(cmd *cobra.Command, opts *Options) (config.Config, error) {
	var cfg config.Config
	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv("STORYFEED_CONFIG")
	}
	if path == "" {
		path = fsutil.FirstRegularFile(defaultConfigPaths...)
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if v := os.Getenv("STORYFEED_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("STORYFEED_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if flagChanged(cmd, "log-level") {
		cfg.LogLevel = opts.LogLevel
	}

	fs := cmd.Flags()
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	ms := func(name string, dst *int) {
		if fs.Changed(name) {
			d, _ := fs.GetDuration(name)
			*dst = int(d / time.Millisecond)
		}
	}
	str("addr", &cfg.Addr)
	str("stories-url", &cfg.StoriesURL)
	str("collections-url", &cfg.CollectionsURL)
	str("collections-id", &cfg.CollectionsID)
	str("callback-param", &cfg.CallbackParam)
	str("user-agent", &cfg.UserAgent)
	ms("request-timeout", &cfg.RequestTimeoutMS)
	ms("wait-timeout", &cfg.WaitTimeoutMS)
	if fs.Changed("max-sessions") {
		cfg.MaxSessions, _ = fs.GetInt("max-sessions")
	}
	if fs.Changed("cors") {
		cfg.CORSEnabled, _ = fs.GetBool("cors")
	}
	if fs.Changed("cors-origins") {
		cfg.CORSOrigins, _ = fs.GetStringSlice("cors-origins")
	}
	return cfg.WithDefaults(), nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}
