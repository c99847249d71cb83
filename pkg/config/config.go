package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all cosmoscope configuration.
type Config struct {
	Listen      string          `yaml:"listen"`
	Environment string          `yaml:"environment"`
	ClientURL   string          `yaml:"client_url"`
	LogLevel    string          `yaml:"log_level"`
	Upstream    UpstreamConfig  `yaml:"upstream"`
	Cache       CacheConfig     `yaml:"cache"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Redis       RedisConfig     `yaml:"redis"`
	Tracker     TrackerConfig   `yaml:"tracker"`
}

// UpstreamConfig defines how the NASA API is reached.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Timeout        time.Duration `yaml:"timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	MaxRPS         float64       `yaml:"max_rps"`
	Burst          int           `yaml:"burst"`
	EPICArchiveURL string        `yaml:"epic_archive_url"`
}

// CacheConfig controls the HTTP response cache.
// Backend is "memory" (default) or "sqlite".
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	MaxEntries    int           `yaml:"max_entries"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	DBPath        string        `yaml:"db_path"`
}

// RateLimitConfig controls the per-client fixed window limiter.
// Backend is "memory" (default) or "redis".
type RateLimitConfig struct {
	Enabled            bool          `yaml:"enabled"`
	Backend            string        `yaml:"backend"`
	Window             time.Duration `yaml:"window"`
	MaxRequests        int           `yaml:"max_requests"`
	KeyHeader          string        `yaml:"key_header"`
	TrustXForwardedFor bool          `yaml:"trust_x_forwarded_for"`
	SweepInterval      time.Duration `yaml:"sweep_interval"`
}

// RedisConfig is used by the redis rate limit backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// TrackerConfig controls the SQLite request log.
type TrackerConfig struct {
	Enabled   bool          `yaml:"enabled"`
	DBPath    string        `yaml:"db_path"`
	Retention time.Duration `yaml:"retention"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:      ":5000",
		Environment: "development",
		ClientURL:   "http://localhost:3000",
		LogLevel:    "info",
		Upstream: UpstreamConfig{
			BaseURL:        "https://api.nasa.gov",
			APIKey:         "DEMO_KEY",
			Timeout:        10 * time.Second,
			CacheTTL:       15 * time.Minute,
			EPICArchiveURL: "https://epic.gsfc.nasa.gov/archive",
		},
		Cache: CacheConfig{
			Enabled:       true,
			Backend:       "memory",
			TTL:           900 * time.Second,
			MaxEntries:    10000,
			SweepInterval: time.Minute,
			DBPath:        "cosmoscope.db",
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			Backend:       "memory",
			Window:        900000 * time.Millisecond,
			MaxRequests:   100,
			SweepInterval: time.Minute,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "cosmoscope:ratelimit",
		},
		Tracker: TrackerConfig{
			Enabled:   false,
			DBPath:    "cosmoscope.db",
			Retention: 30 * 24 * time.Hour,
		},
	}
}

// Load reads a YAML config file, expands environment variables, and applies
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadOptional behaves like Load but falls back to defaults plus environment
// overrides when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("NASA_API_KEY"); v != "" {
		c.Upstream.APIKey = v
	}
	if v := os.Getenv("NASA_API_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("CLIENT_URL"); v != "" {
		c.ClientURL = v
	}
	if v := os.Getenv("NODE_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Listen = ":" + v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.Cache.TTL = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_WINDOW_MS: %w", err)
		}
		c.RateLimit.Window = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS: %w", err)
		}
		c.RateLimit.MaxRequests = n
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return errors.New("upstream.base_url is required")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be > 0")
	}
	if c.Upstream.MaxRPS < 0 {
		return errors.New("upstream.max_rps must be >= 0")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must be >= 0")
	}
	switch c.Cache.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be > 0")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return errors.New("rate_limit.max_requests must be > 0")
	}
	switch c.RateLimit.Backend {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("redis.addr is required when rate_limit.backend is redis")
		}
	default:
		return fmt.Errorf("rate_limit.backend: unknown backend %q", c.RateLimit.Backend)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
