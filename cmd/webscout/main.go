// webscout exposes web search, page visiting, and scraping tools to AI
// agents over stdio JSON-RPC or HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"webscout/browse"
	"webscout/config"
	"webscout/internal/mcp"
	"webscout/internal/server"
	"webscout/internal/telemetry"
	"webscout/session"
	"webscout/tools/extract"
	"webscout/tools/web_fetch"
	"webscout/tools/web_search"
)

func main() {
	root := &cobra.Command{Use: "webscout", Short: "Web browsing tools for AI agents"}
	root.AddCommand(serveCMD(), serveHTTPCMD())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serveCMD() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stdio JSON-RPC tool server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, _, cleanup, err := buildServer(cfgPath)
			if err != nil {
				return err
			}
			defer cleanup()
			return srv.Serve(os.Stdin, os.Stdout)
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config directory (default is .)")
	return cmd
}

func serveHTTPCMD() *cobra.Command {
	var cfgPath string
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-http",
		Short: "Run the HTTP tool server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, cfg, cleanup, err := buildServer(cfgPath)
			if err != nil {
				return err
			}
			defer cleanup()
			if addr != "" {
				cfg.Server.Listen = addr
			}
			return server.Run(cfg, srv, srv.Metrics)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config directory (default is .)")
	return cmd
}

// buildServer wires dependencies once. The returned cleanup tears down
// the headless browser and the background sweeper.
func buildServer(cfgPath string) (*mcp.Server, *config.Config, func(), error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	store := session.NewStore(cfg.Sessions.TTL, cfg.Sessions.MaxSessions)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	store.StartSweeper(sweepCtx, cfg.Sessions.SweepSchedule)

	fetcher, err := web_fetch.NewFetcher(cfg.Browser.Timeout, cfg.Browser.UserAgent, cfg.Cache.Size, cfg.Cache.TTL)
	if err != nil {
		stopSweep()
		return nil, nil, nil, fmt.Errorf("fetcher: %w", err)
	}

	srv := mcp.NewServer(mcp.Deps{
		Workspace: browse.NewWorkspace(store),
		Fetcher:   fetcher,
		Search:    web_search.New(cfg.Search.Provider, searchKey(cfg)),
		Articles:  extract.NewArticleExtractor(cfg.Browser.Timeout, cfg.Browser.UserAgent),
		Metrics:   telemetry.New(),
	})

	cleanup := func() {
		stopSweep()
		fetcher.Close()
	}
	return srv, cfg, cleanup, nil
}

// searchKey resolves the provider API key from config, falling back to
// the conventional environment variables.
func searchKey(cfg *config.Config) string {
	switch cfg.Search.Provider {
	case "serper":
		if cfg.Search.SerperAPIKey != "" {
			return cfg.Search.SerperAPIKey
		}
		return os.Getenv("SERPER_API_KEY")
	default:
		if cfg.Search.BraveAPIKey != "" {
			return cfg.Search.BraveAPIKey
		}
		return os.Getenv("BRAVE_SEARCH_KEY")
	}
}
