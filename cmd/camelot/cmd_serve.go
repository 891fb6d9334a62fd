package main

import (
	"context"
	"fmt"

	"camelot/internal/cache"
	"camelot/internal/logging"
	mcpserver "camelot/internal/mcp"
	"camelot/internal/mood"
	"camelot/internal/spotify"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing the mood and catalog tools.
Requires SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET.

The server monitors its parent process. When the MCP client exits without
closing the pipe, the server shuts itself down instead of lingering.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd, true)
	if err != nil {
		return err
	}
	logger := logging.New("serve")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	responses, err := cache.New(ctx, env.cfg.CacheOptions())
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	var opts []spotify.Option
	if responses != nil {
		defer responses.Close()
		opts = append(opts, spotify.WithCache(responses, env.cfg.Cache.TTL))
	}

	sc := env.cfg.Spotify
	catalog, err := spotify.New(spotify.Config{
		ClientID:     sc.ClientID,
		ClientSecret: sc.ClientSecret,
		BaseURL:      sc.BaseURL,
		TokenURL:     sc.TokenURL,
		Market:       sc.Market,
		RPS:          sc.RPS,
		Burst:        sc.Burst,
		Timeout:      sc.Timeout,
	}, opts...)
	if err != nil {
		return err
	}

	srv, err := mcpserver.NewServer(mcpserver.Config{
		Registry: env.registry,
		Catalog:  catalog,
		Version:  version,
		Logger:   logging.New("mcp"),
		Observer: &mood.LogObserver{Logger: logging.New("mood")},
	})
	if err != nil {
		return err
	}

	mcpserver.WatchParent(ctx, cancel, logger)

	logger.Info("starting camelot MCP server over stdio",
		"graph", env.registry.Name(), "moods", env.registry.Len(), "cache", env.cfg.Cache.Backend)
	return srv.Run(ctx)
}
