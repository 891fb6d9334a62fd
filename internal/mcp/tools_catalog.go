package mcp

import (
	"context"
	"strings"

	"camelot/internal/spotify"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type getAccessTokenInput struct{}

type trackInput struct {
	ID string `json:"id" jsonschema:"Spotify track id or URI, e.g. spotify:track:4uLU6hMCjMI75M1A2tKUQC"`
}

type recommendationsInput struct {
	SeedTracks    []string `json:"seed_tracks,omitempty" jsonschema:"seed track ids or spotify:track: URIs"`
	SeedArtists   []string `json:"seed_artists,omitempty" jsonschema:"seed artist ids or spotify:artist: URIs"`
	SeedGenres    []string `json:"seed_genres,omitempty" jsonschema:"seed genres, e.g. pop or rock"`
	Limit         *int     `json:"limit,omitempty" jsonschema:"number of recommendations, 1 to 100 (default 20)"`
	TargetEnergy  *float64 `json:"target_energy,omitempty" jsonschema:"target energy, 0.0 to 1.0"`
	TargetValence *float64 `json:"target_valence,omitempty" jsonschema:"target valence (musical positiveness), 0.0 to 1.0"`
	Market        string   `json:"market,omitempty" jsonschema:"ISO 3166-1 alpha-2 market code"`
}

func (s *Server) requireCatalog() error {
	if s.catalog == nil {
		return ErrCatalogUnavailable
	}
	return nil
}

func (s *Server) handleGetAccessToken(ctx context.Context, _ *sdkmcp.CallToolRequest, _ getAccessTokenInput) (*sdkmcp.CallToolResult, spotify.AccessToken, error) {
	if err := s.requireCatalog(); err != nil {
		return nil, spotify.AccessToken{}, err
	}
	tok, err := s.catalog.AccessToken(ctx)
	if err != nil {
		return nil, spotify.AccessToken{}, err
	}
	return nil, *tok, nil
}

func (s *Server) handleGetTrack(ctx context.Context, _ *sdkmcp.CallToolRequest, in trackInput) (*sdkmcp.CallToolResult, spotify.Track, error) {
	id := spotify.ExtractTrackID(in.ID)
	if id == "" {
		return nil, spotify.Track{}, invalidArgs("get-track", "id is required")
	}
	if err := s.requireCatalog(); err != nil {
		return nil, spotify.Track{}, err
	}
	t, err := s.catalog.GetTrack(ctx, id)
	if err != nil {
		return nil, spotify.Track{}, err
	}
	return nil, *t, nil
}

func (s *Server) handleGetAudioFeatures(ctx context.Context, _ *sdkmcp.CallToolRequest, in trackInput) (*sdkmcp.CallToolResult, spotify.AudioFeatures, error) {
	id := spotify.ExtractTrackID(in.ID)
	if id == "" {
		return nil, spotify.AudioFeatures{}, invalidArgs("get-track-audio-features", "id is required")
	}
	if err := s.requireCatalog(); err != nil {
		return nil, spotify.AudioFeatures{}, err
	}
	f, err := s.catalog.GetAudioFeatures(ctx, id)
	if err != nil {
		return nil, spotify.AudioFeatures{}, err
	}
	return nil, *f, nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, _ *sdkmcp.CallToolRequest, in recommendationsInput) (*sdkmcp.CallToolResult, spotify.Recommendations, error) {
	req := spotify.RecommendationsRequest{
		SeedTracks:    in.SeedTracks,
		SeedArtists:   in.SeedArtists,
		SeedGenres:    in.SeedGenres,
		Market:        in.Market,
		TargetEnergy:  in.TargetEnergy,
		TargetValence: in.TargetValence,
	}
	if in.Limit != nil {
		if *in.Limit < 1 || *in.Limit > spotify.MaxRecommendationLimit {
			return nil, spotify.Recommendations{}, invalidArgs("get-recommendations", "limit must be between 1 and %d, got %d", spotify.MaxRecommendationLimit, *in.Limit)
		}
		req.Limit = *in.Limit
	}
	if err := req.Validate(); err != nil {
		return nil, spotify.Recommendations{}, invalidArgs("get-recommendations", "%s", strings.TrimPrefix(err.Error(), spotify.ErrInvalidRequest.Error()+": "))
	}
	if err := s.requireCatalog(); err != nil {
		return nil, spotify.Recommendations{}, err
	}
	rec, err := s.catalog.GetRecommendations(ctx, req)
	if err != nil {
		return nil, spotify.Recommendations{}, err
	}
	return nil, *rec, nil
}
