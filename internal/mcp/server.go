// Package mcp exposes the mood engine and the music catalog as MCP tools
// served over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"camelot/internal/logging"
	"camelot/internal/mood"
	"camelot/internal/spotify"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultPlaylistConcurrency bounds concurrent catalog requests per
// get-mood-playlist call.
const DefaultPlaylistConcurrency = 4

// Catalog is the subset of the catalog client used by the tools.
type Catalog interface {
	AccessToken(ctx context.Context) (*spotify.AccessToken, error)
	GetTrack(ctx context.Context, id string) (*spotify.Track, error)
	GetAudioFeatures(ctx context.Context, id string) (*spotify.AudioFeatures, error)
	GetRecommendations(ctx context.Context, req spotify.RecommendationsRequest) (*spotify.Recommendations, error)
}

// Config wires the server's collaborators. Registry is required; a nil
// Catalog leaves the catalog tools registered but failing with
// ErrCatalogUnavailable.
type Config struct {
	Registry *mood.Registry
	Catalog  Catalog
	Version  string
	Logger   *slog.Logger

	// Observer, if set, receives simulator step events.
	Observer mood.StepObserver

	PlaylistConcurrency int
}

// Server wraps the MCP SDK server.
type Server struct {
	MCPServer *sdkmcp.Server

	registry  *mood.Registry
	detector  *mood.Detector
	simulator *mood.Simulator
	catalog   Catalog
	logger    *slog.Logger

	playlistConcurrency int
}

// NewServer builds the server and registers every tool.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("mcp: a mood registry is required")
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("mcp")
	}
	if cfg.PlaylistConcurrency < 1 {
		cfg.PlaylistConcurrency = DefaultPlaylistConcurrency
	}

	var simOpts []mood.Option
	if cfg.Observer != nil {
		simOpts = append(simOpts, mood.WithObserver(cfg.Observer))
	}

	s := &Server{
		registry:            cfg.Registry,
		detector:            mood.NewDetector(cfg.Registry),
		simulator:           mood.NewSimulator(cfg.Registry, simOpts...),
		catalog:             cfg.Catalog,
		logger:              cfg.Logger,
		playlistConcurrency: cfg.PlaylistConcurrency,
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "camelot", Version: cfg.Version},
		nil,
	)
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	addTool(s, &sdkmcp.Tool{
		Name:        "get_access_token",
		Description: "Get the Spotify access token currently used for catalog requests.",
	}, s.handleGetAccessToken)

	addTool(s, &sdkmcp.Tool{
		Name:        "get-track",
		Description: "Get a Spotify track by id or spotify:track: URI.",
	}, s.handleGetTrack)

	addTool(s, &sdkmcp.Tool{
		Name:        "get-track-audio-features",
		Description: "Get the audio features (valence, energy, tempo, ...) of a Spotify track.",
	}, s.handleGetAudioFeatures)

	addTool(s, &sdkmcp.Tool{
		Name:        "get-recommendations",
		Description: "Get track recommendations from seed tracks, artists or genres and optional energy/valence targets.",
	}, s.handleGetRecommendations)

	addTool(s, &sdkmcp.Tool{
		Name:        "detect-mood",
		Description: "Detect the mood of a text using predefined mood keywords. Returns neutral when nothing matches.",
	}, s.handleDetectMood)

	addTool(s, &sdkmcp.Tool{
		Name:        "get-mood-transition",
		Description: "Simulate a mood transition path from a mood (or from text describing one) toward a better one.",
	}, s.handleMoodTransition)

	addTool(s, &sdkmcp.Tool{
		Name:        "get-mood-graph",
		Description: "Describe the mood graph: moods, ranges, evolution steps, edges, and a Mermaid diagram.",
	}, s.handleMoodGraph)

	addTool(s, &sdkmcp.Tool{
		Name:        "get-mood-playlist",
		Description: "Simulate a mood transition and fetch recommendations for every mood along the path, targeting each mood's valence and energy.",
	}, s.handleMoodPlaylist)
}

// Run serves MCP over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// addTool registers h with per-call logging. Errors that are not argument
// validation failures are prefixed with the tool name.
func addTool[In, Out any](s *Server, tool *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	name := tool.Name
	sdkmcp.AddTool(s.MCPServer, tool, func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		logger := s.logger.With("tool", name, "call_id", uuid.NewString())
		start := time.Now()

		res, out, err := h(ctx, req, in)
		if err != nil {
			logger.Warn("tool call failed", "duration", time.Since(start), "error", err)
			if !errors.Is(err, ErrInvalidArguments) {
				err = fmt.Errorf("%s: %w", name, err)
			}
			var zero Out
			return nil, zero, err
		}
		logger.Info("tool call", "duration", time.Since(start))
		return res, out, nil
	})
}
