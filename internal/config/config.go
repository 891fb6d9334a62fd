// Package config loads runtime settings. Precedence, lowest first: built-in
// defaults, an optional YAML file, environment variables, then CLI flags
// (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"camelot/internal/cache"
	"camelot/internal/logging"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingCredentials = errors.New("config: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	ErrInvalid            = errors.New("config: invalid value")
)

// Environment variable names.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvLogLevel     = "CAMELOT_LOG_LEVEL"
	EnvLogFormat    = "CAMELOT_LOG_FORMAT"
	EnvGraph        = "CAMELOT_GRAPH"
	EnvCacheBackend = "CAMELOT_CACHE_BACKEND"
	EnvRedisAddr    = "CAMELOT_REDIS_ADDR"
	EnvSpotifyRPS   = "CAMELOT_SPOTIFY_RPS"
)

// Config holds all runtime configuration.
type Config struct {
	Spotify SpotifyConfig `yaml:"spotify"`
	Log     LogConfig     `yaml:"log"`
	Cache   CacheConfig   `yaml:"cache"`

	// Graph is an optional path to a mood graph YAML that replaces the
	// built-in one.
	Graph string `yaml:"graph,omitempty"`
}

type SpotifyConfig struct {
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	BaseURL      string        `yaml:"base_url"`
	TokenURL     string        `yaml:"token_url"`
	Market       string        `yaml:"market,omitempty"`
	RPS          float64       `yaml:"rps"`
	Burst        int           `yaml:"burst"`
	Timeout      time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend"`
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	Password  string        `yaml:"redis_password,omitempty"`
	DB        int           `yaml:"redis_db"`
	KeyPrefix string        `yaml:"key_prefix"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Spotify: SpotifyConfig{
			BaseURL:  "https://api.spotify.com/v1",
			TokenURL: "https://accounts.spotify.com/api/token",
			RPS:      10,
			Burst:    5,
			Timeout:  10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Cache: CacheConfig{
			Backend:   cache.BackendMemory,
			TTL:       time.Hour,
			RedisAddr: "localhost:6379",
			KeyPrefix: "camelot:",
		},
	}
}

// Load applies the YAML file at path (if non-empty) and then the environment
// on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	envStr(EnvClientID, &c.Spotify.ClientID)
	envStr(EnvClientSecret, &c.Spotify.ClientSecret)
	envStr(EnvLogLevel, &c.Log.Level)
	envStr(EnvLogFormat, &c.Log.Format)
	envStr(EnvGraph, &c.Graph)
	envStr(EnvCacheBackend, &c.Cache.Backend)
	envStr(EnvRedisAddr, &c.Cache.RedisAddr)
	return envFloat(EnvSpotifyRPS, &c.Spotify.RPS)
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, key, v)
	}
	*dst = f
	return nil
}

// Validate checks value ranges. Credentials are only demanded when the caller
// is about to reach the catalog.
func (c Config) Validate(requireCredentials bool) error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalid, err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalid, c.Log.Format)
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendMemory, cache.BackendRedis:
	default:
		return fmt.Errorf("%w: cache backend %q (want none, memory or redis)", ErrInvalid, c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("%w: redis cache needs an address", ErrInvalid)
	}
	if c.Spotify.RPS <= 0 {
		return fmt.Errorf("%w: spotify rps must be positive, got %v", ErrInvalid, c.Spotify.RPS)
	}
	if c.Spotify.Burst < 1 {
		return fmt.Errorf("%w: spotify burst must be at least 1, got %d", ErrInvalid, c.Spotify.Burst)
	}
	if requireCredentials && (c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "") {
		return ErrMissingCredentials
	}
	return nil
}

// CacheOptions converts the cache section for cache.New.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		RedisAddr: c.Cache.RedisAddr,
		Password:  c.Cache.Password,
		DB:        c.Cache.DB,
		KeyPrefix: c.Cache.KeyPrefix,
	}
}
