package mcp

import (
	"context"
	"fmt"
	"strings"

	"camelot/internal/mood"
	"camelot/internal/numeric"
	"camelot/internal/spotify"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

const (
	maxTransitionSteps   = 50
	defaultTracksPerMood = 5
	maxTracksPerMood     = 20
)

type detectMoodInput struct {
	Text string `json:"text" jsonschema:"description of how you feel, e.g. I'm sad"`
}

type detectMoodOutput struct {
	Mood    string   `json:"mood"`
	Matched bool     `json:"matched"`
	All     []string `json:"all"`
}

type moodTransitionInput struct {
	CurrentMood string `json:"current_mood,omitempty" jsonschema:"starting mood id, e.g. sad; takes precedence over text"`
	Text        string `json:"text,omitempty" jsonschema:"text to detect the starting mood from when current_mood is empty"`
	MaxSteps    *int   `json:"max_steps,omitempty" jsonschema:"maximum number of transition steps, 0 to 50 (default 1)"`
}

type moodGraphInput struct{}

type moodInfo struct {
	ID       string      `json:"id"`
	Keywords []string    `json:"keywords"`
	Valence  mood.Range  `json:"valence"`
	Energy   mood.Range  `json:"energy"`
	Step     mood.Step   `json:"step"`
	Edges    []mood.Edge `json:"edges"`
	Final    bool        `json:"final"`
}

type moodGraphOutput struct {
	Graph   string     `json:"graph"`
	Moods   []moodInfo `json:"moods"`
	Mermaid string     `json:"mermaid"`
}

type moodPlaylistInput struct {
	CurrentMood  string   `json:"current_mood,omitempty" jsonschema:"starting mood id; takes precedence over text"`
	Text         string   `json:"text,omitempty" jsonschema:"text to detect the starting mood from when current_mood is empty"`
	MaxSteps     *int     `json:"max_steps,omitempty" jsonschema:"maximum number of transition steps, 0 to 50 (default 1)"`
	LimitPerMood *int     `json:"limit_per_mood,omitempty" jsonschema:"tracks per visited mood, 1 to 20 (default 5)"`
	SeedGenres   []string `json:"seed_genres,omitempty" jsonschema:"genres to steer recommendations, at most 5"`
	Market       string   `json:"market,omitempty" jsonschema:"ISO 3166-1 alpha-2 market code"`
}

type trackSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	URI        string   `json:"uri,omitempty"`
	PreviewURL string   `json:"preview_url,omitempty"`
}

type playlistStage struct {
	Mood          string         `json:"mood"`
	TargetValence float64        `json:"target_valence"`
	TargetEnergy  float64        `json:"target_energy"`
	Tracks        []trackSummary `json:"tracks"`
}

type moodPlaylistOutput struct {
	Transition mood.Result     `json:"transition"`
	Stages     []playlistStage `json:"stages"`
}

func (s *Server) handleDetectMood(_ context.Context, _ *sdkmcp.CallToolRequest, in detectMoodInput) (*sdkmcp.CallToolResult, detectMoodOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, detectMoodOutput{}, invalidArgs("detect-mood", "text is required")
	}
	id := s.detector.Detect(in.Text)
	return nil, detectMoodOutput{
		Mood:    id,
		Matched: s.registry.Has(id),
		All:     s.detector.DetectAll(in.Text),
	}, nil
}

func (s *Server) handleMoodTransition(_ context.Context, _ *sdkmcp.CallToolRequest, in moodTransitionInput) (*sdkmcp.CallToolResult, mood.Result, error) {
	const tool = "get-mood-transition"
	steps, err := stepsArg(tool, in.MaxSteps)
	if err != nil {
		return nil, mood.Result{}, err
	}
	start, err := s.resolveStart(tool, in.CurrentMood, in.Text)
	if err != nil {
		return nil, mood.Result{}, err
	}
	res, err := s.simulator.Transition(start, steps)
	if err != nil {
		return nil, mood.Result{}, err
	}
	return nil, *res, nil
}

func (s *Server) handleMoodGraph(_ context.Context, _ *sdkmcp.CallToolRequest, _ moodGraphInput) (*sdkmcp.CallToolResult, moodGraphOutput, error) {
	nodes := s.registry.Nodes()
	out := moodGraphOutput{
		Graph:   s.registry.Name(),
		Moods:   make([]moodInfo, 0, len(nodes)),
		Mermaid: mood.Render(s.registry),
	}
	for _, n := range nodes {
		kw := n.Keywords
		if kw == nil {
			kw = []string{}
		}
		edges := n.Edges
		if edges == nil {
			edges = []mood.Edge{}
		}
		out.Moods = append(out.Moods, moodInfo{
			ID:       n.ID,
			Keywords: kw,
			Valence:  n.Valence,
			Energy:   n.Energy,
			Step:     n.Step,
			Edges:    edges,
			Final:    n.IsFinal(),
		})
	}
	return nil, out, nil
}

func (s *Server) handleMoodPlaylist(ctx context.Context, _ *sdkmcp.CallToolRequest, in moodPlaylistInput) (*sdkmcp.CallToolResult, moodPlaylistOutput, error) {
	const tool = "get-mood-playlist"
	steps, err := stepsArg(tool, in.MaxSteps)
	if err != nil {
		return nil, moodPlaylistOutput{}, err
	}
	limit := defaultTracksPerMood
	if in.LimitPerMood != nil {
		limit = *in.LimitPerMood
		if limit < 1 || limit > maxTracksPerMood {
			return nil, moodPlaylistOutput{}, invalidArgs(tool, "limit_per_mood must be between 1 and %d, got %d", maxTracksPerMood, limit)
		}
	}
	start, err := s.resolveStart(tool, in.CurrentMood, in.Text)
	if err != nil {
		return nil, moodPlaylistOutput{}, err
	}

	// Validate the request shape once before any network work.
	probe := spotify.RecommendationsRequest{SeedGenres: in.SeedGenres, Limit: limit, TargetValence: floatPtr(0.5)}
	if err := probe.Validate(); err != nil {
		return nil, moodPlaylistOutput{}, invalidArgs(tool, "%s", strings.TrimPrefix(err.Error(), spotify.ErrInvalidRequest.Error()+": "))
	}
	if err := s.requireCatalog(); err != nil {
		return nil, moodPlaylistOutput{}, err
	}

	res, err := s.simulator.Transition(start, steps)
	if err != nil {
		return nil, moodPlaylistOutput{}, err
	}

	stages := make([]playlistStage, len(res.Path))
	for i, id := range res.Path {
		node, err := s.registry.Lookup(id)
		if err != nil {
			return nil, moodPlaylistOutput{}, err
		}
		stages[i] = playlistStage{
			Mood:          id,
			TargetValence: numeric.Round(node.Valence.Mid(), 2),
			TargetEnergy:  numeric.Round(node.Energy.Mid(), 2),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.playlistConcurrency)
	for i := range stages {
		stage := &stages[i]
		g.Go(func() error {
			rec, err := s.catalog.GetRecommendations(gctx, spotify.RecommendationsRequest{
				SeedGenres:    in.SeedGenres,
				Limit:         limit,
				Market:        in.Market,
				TargetValence: floatPtr(stage.TargetValence),
				TargetEnergy:  floatPtr(stage.TargetEnergy),
			})
			if err != nil {
				return fmt.Errorf("recommendations for %s: %w", stage.Mood, err)
			}
			stage.Tracks = summarize(rec.Tracks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, moodPlaylistOutput{}, err
	}
	return nil, moodPlaylistOutput{Transition: *res, Stages: stages}, nil
}

// resolveStart picks the starting mood: an explicit id wins, otherwise the
// text is run through the detector.
func (s *Server) resolveStart(tool, current, text string) (string, error) {
	current = strings.ToLower(strings.TrimSpace(current))
	if current != "" {
		if current == mood.Neutral && !s.registry.Has(current) {
			return "", fmt.Errorf("%w: %w", ErrNoMoodDetected, mood.ErrUnknownMood)
		}
		if !s.registry.Has(current) {
			return "", fmt.Errorf("%w: %q (known moods: %s)", mood.ErrUnknownMood, current, strings.Join(s.registry.IDs(), ", "))
		}
		return current, nil
	}
	if strings.TrimSpace(text) == "" {
		return "", invalidArgs(tool, "current_mood or text is required")
	}
	id := s.detector.Detect(text)
	if !s.registry.Has(id) {
		return "", fmt.Errorf("%w in %q: %w", ErrNoMoodDetected, text, mood.ErrUnknownMood)
	}
	return id, nil
}

func stepsArg(tool string, v *int) (int, error) {
	if v == nil {
		return mood.DefaultMaxSteps, nil
	}
	if *v < 0 || *v > maxTransitionSteps {
		return 0, invalidArgs(tool, "max_steps must be between 0 and %d, got %d", maxTransitionSteps, *v)
	}
	return *v, nil
}

func summarize(tracks []spotify.Track) []trackSummary {
	out := make([]trackSummary, 0, len(tracks))
	for _, t := range tracks {
		ts := trackSummary{ID: t.ID, Name: t.Name, URI: t.URI, Artists: make([]string, 0, len(t.Artists))}
		for _, a := range t.Artists {
			ts.Artists = append(ts.Artists, a.Name)
		}
		if t.PreviewURL != nil {
			ts.PreviewURL = *t.PreviewURL
		}
		out = append(out, ts)
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }
