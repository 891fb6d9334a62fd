package spotify

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultRecommendationLimit = 20
	MaxRecommendationLimit     = 100
	maxSeeds                   = 5
)

// RecommendationsRequest selects recommendation seeds and tunable targets.
// Target values are on the [0, 1] scale; nil means unset.
type RecommendationsRequest struct {
	SeedTracks    []string
	SeedArtists   []string
	SeedGenres    []string
	Limit         int // 0 means DefaultRecommendationLimit
	Market        string
	TargetEnergy  *float64
	TargetValence *float64
}

// Validate applies the catalog's request rules: at least one seed or target,
// at most five seeds in total, limit within [1, 100], targets within [0, 1].
func (r RecommendationsRequest) Validate() error {
	seeds := len(nonEmpty(r.SeedTracks)) + len(nonEmpty(r.SeedArtists)) + len(nonEmpty(r.SeedGenres))
	if seeds == 0 && r.TargetEnergy == nil && r.TargetValence == nil {
		return fmt.Errorf("%w: at least one of seed_tracks, seed_artists, seed_genres, target_energy or target_valence must be provided", ErrInvalidRequest)
	}
	if seeds > maxSeeds {
		return fmt.Errorf("%w: at most %d seeds in total, got %d", ErrInvalidRequest, maxSeeds, seeds)
	}
	if r.Limit != 0 && (r.Limit < 1 || r.Limit > MaxRecommendationLimit) {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidRequest, MaxRecommendationLimit, r.Limit)
	}
	if err := checkTarget("target_energy", r.TargetEnergy); err != nil {
		return err
	}
	return checkTarget("target_valence", r.TargetValence)
}

// Query encodes the request. Track and artist URIs are reduced to ids and
// genres are lowercased.
func (r RecommendationsRequest) Query() url.Values {
	q := url.Values{}
	limit := r.Limit
	if limit == 0 {
		limit = DefaultRecommendationLimit
	}
	q.Set("limit", strconv.Itoa(limit))

	if ids := mapNonEmpty(r.SeedTracks, ExtractTrackID); len(ids) > 0 {
		q.Set("seed_tracks", strings.Join(ids, ","))
	}
	if ids := mapNonEmpty(r.SeedArtists, ExtractArtistID); len(ids) > 0 {
		q.Set("seed_artists", strings.Join(ids, ","))
	}
	if genres := mapNonEmpty(r.SeedGenres, normalizeGenre); len(genres) > 0 {
		q.Set("seed_genres", strings.Join(genres, ","))
	}
	if r.TargetEnergy != nil {
		q.Set("target_energy", formatFloat(*r.TargetEnergy))
	}
	if r.TargetValence != nil {
		q.Set("target_valence", formatFloat(*r.TargetValence))
	}
	if r.Market != "" {
		q.Set("market", r.Market)
	}
	return q
}

func checkTarget(name string, v *float64) error {
	if v != nil && (*v < 0 || *v > 1) {
		return fmt.Errorf("%w: %s must be between 0 and 1, got %v", ErrInvalidRequest, name, *v)
	}
	return nil
}

func normalizeGenre(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonEmpty(ss []string) []string {
	return mapNonEmpty(ss, strings.TrimSpace)
}

func mapNonEmpty(ss []string, fn func(string) string) []string {
	var out []string
	for _, s := range ss {
		if v := fn(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}
