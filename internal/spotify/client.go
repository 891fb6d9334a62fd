// Package spotify is a small client for the Spotify Web API catalog
// endpoints used by the mood tools: tracks, audio features and
// recommendations. It authenticates with the client-credentials flow.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"camelot/internal/cache"
	"camelot/internal/logging"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	trackURIPrefix  = "spotify:track:"
	artistURIPrefix = "spotify:artist:"
)

// Config holds catalog connection settings.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // default DefaultBaseURL
	TokenURL     string // default DefaultTokenURL
	Market       string // optional ISO 3166-1 alpha-2 code sent with track lookups

	RPS     float64 // client-side request rate; <= 0 disables limiting
	Burst   int
	Timeout time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
	logger  *slog.Logger

	cache    cache.Cache
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the base client used for both token and API requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache caches track and audio-feature responses for ttl.
// Recommendations are never cached.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.cacheTTL = ttl
	}
}

// New returns a client. Tokens are fetched lazily on the first call.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret are required", ErrInvalidRequest)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	c := &Client{
		cfg:     cfg,
		http:    http.DefaultClient,
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  logging.New("spotify"),
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http
	if cfg.Timeout > 0 {
		base = &http.Client{Transport: base.Transport, Timeout: cfg.Timeout}
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	c.tokens = cc.TokenSource(tokenCtx)
	c.http = &http.Client{
		Transport: &oauth2.Transport{Source: c.tokens, Base: base.Transport},
		Timeout:   base.Timeout,
	}
	return c, nil
}

// AccessToken returns the cached bearer token, refreshing it when expired.
func (c *Client) AccessToken(ctx context.Context) (*AccessToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("access token: %w", unwrapTokenError(err))
	}
	out := &AccessToken{AccessToken: tok.AccessToken}
	if !tok.Expiry.IsZero() {
		out.ExpiresAt = tok.Expiry.UTC().Format(time.RFC3339)
	}
	return out, nil
}

// GetTrack fetches a track by bare id or spotify:track: URI.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	id = ExtractTrackID(id)
	if id == "" {
		return nil, fmt.Errorf("%w: track id is required", ErrInvalidRequest)
	}
	q := url.Values{}
	if c.cfg.Market != "" {
		q.Set("market", c.cfg.Market)
	}
	var t Track
	if err := c.get(ctx, "get track", "/tracks/"+url.PathEscape(id), q, true, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAudioFeatures fetches the audio features of a track.
func (c *Client) GetAudioFeatures(ctx context.Context, id string) (*AudioFeatures, error) {
	id = ExtractTrackID(id)
	if id == "" {
		return nil, fmt.Errorf("%w: track id is required", ErrInvalidRequest)
	}
	var f AudioFeatures
	if err := c.get(ctx, "get audio features", "/audio-features/"+url.PathEscape(id), nil, true, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetRecommendations validates req and fetches recommendations.
func (c *Client) GetRecommendations(ctx context.Context, req RecommendationsRequest) (*Recommendations, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	q := req.Query()
	if c.cfg.Market != "" && q.Get("market") == "" {
		q.Set("market", c.cfg.Market)
	}
	var r Recommendations
	if err := c.get(ctx, "get recommendations", "/recommendations", q, false, &r); err != nil {
		return nil, err
	}
	if r.Tracks == nil {
		r.Tracks = []Track{}
	}
	if r.Seeds == nil {
		r.Seeds = []RecommendationSeed{}
	}
	return &r, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, cacheable bool, out any) error {
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	key := strings.TrimPrefix(path, "/")
	if enc := query.Encode(); enc != "" {
		key += "?" + enc
	}

	if cacheable && c.cache != nil {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		} else if ok {
			if err := json.Unmarshal(data, out); err == nil {
				c.logger.Debug("cache hit", "key", key)
				return nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, unwrapTokenError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	c.logger.Debug("catalog request", "op", op, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	if cacheable && c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

// errorBody is the catalog's error envelope.
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(op string, resp *http.Response, body []byte) *APIError {
	e := &APIError{operation: op, statusCode: resp.StatusCode}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error.Message != "" {
		e.message = eb.Error.Message
	} else {
		e.message = http.StatusText(resp.StatusCode)
	}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil {
			e.retryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}

// unwrapTokenError turns a failed token exchange into an APIError so callers
// can use the same predicates for auth failures.
func unwrapTokenError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		return err
	}
	msg := re.ErrorDescription
	if msg == "" {
		msg = re.ErrorCode
	}
	if msg == "" {
		msg = http.StatusText(re.Response.StatusCode)
	}
	return &APIError{operation: "token exchange", statusCode: re.Response.StatusCode, message: msg}
}

// ExtractTrackID strips a spotify:track: URI prefix.
func ExtractTrackID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), trackURIPrefix)
}

// ExtractArtistID strips a spotify:artist: URI prefix.
func ExtractArtistID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), artistURIPrefix)
}
