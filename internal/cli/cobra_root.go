package cli

import (
	"github.com/spf13/cobra"
)

// buildRootCmdWith constructs the command tree; persistent flags bind to opts.
func buildRootCmdWith(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "storyfeed",
		Short:         "Top stories per collection, latest request wins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (.yaml|.yml|.json|.toml); defaults STORYFEED_CONFIG or ./storyfeed.yaml")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug|info|warn|error (defaults STORYFEED_LOG_LEVEL or config)")
	root.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "json", "Log format: json|console")

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  storyfeed serve --addr :8080\n  storyfeed serve --config storyfeed.yaml --cors --cors-origins https://example.com",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.LogFormat)
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return runServe(ctx, cfg, log, nil)
		},
	}
	serveCmd.Flags().String("addr", "", "HTTP listen address (defaults STORYFEED_ADDR or :8080)")
	serveCmd.Flags().Int("max-sessions", 0, "Maximum concurrent client sessions")
	serveCmd.Flags().Duration("wait-timeout", 0, "Maximum time a request waits for its listing (0 = until the fetch reports)")
	serveCmd.Flags().Bool("cors", false, "Enable CORS")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins")
	addUpstreamFlags(serveCmd)

	fetchCmd := &cobra.Command{
		Use:     "fetch <collection>",
		Short:   "Print the top stories of one collection",
		Example: "  storyfeed fetch movies\n  storyfeed fetch golang --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.LogFormat)
			return runFetch(cmd.Context(), cmd.OutOrStdout(), cfg, log, args[0], asJSON)
		},
	}
	fetchCmd.Flags().Bool("json", false, "Print the stories as JSON")
	addUpstreamFlags(fetchCmd)

	collectionsCmd := &cobra.Command{
		Use:     "collections",
		Short:   "Print the navigation list of collections, most subscribed first",
		Example: "  storyfeed collections\n  storyfeed collections --active /r/movies/",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			active, _ := cmd.Flags().GetString("active")
			asJSON, _ := cmd.Flags().GetBool("json")
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.LogFormat)
			return runCollections(cmd.Context(), cmd.OutOrStdout(), cfg, log, active, asJSON)
		},
	}
	collectionsCmd.Flags().String("active", "", "URL of the collection to mark as selected")
	collectionsCmd.Flags().Bool("json", false, "Print the items as JSON")
	addUpstreamFlags(collectionsCmd)

	root.AddCommand(serveCmd, fetchCmd, collectionsCmd)
	return root
}

func addUpstreamFlags(cmd *cobra.Command) {
	cmd.Flags().String("stories-url", "", "Stories endpoint template; {collection} is replaced")
	cmd.Flags().String("collections-url", "", "Collections endpoint template")
	cmd.Flags().String("collections-id", "", "Collection id requested from the collections endpoint")
	cmd.Flags().String("callback-param", "", "Query parameter carrying the hook name")
	cmd.Flags().String("user-agent", "", "User-Agent sent upstream")
	cmd.Flags().Duration("request-timeout", 0, "Upstream fetch timeout")
}
