package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "PRIX"

const (
	DefaultDataURL   = "https://donnees.roulez-eco.fr/opendata/instantane"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Config is read once at startup and never reloaded.
type Config struct {
	Environment        string
	LogLevel           zerolog.Level
	DataURL            string
	UserAgent          string
	RequestTimeout     time.Duration
	MaxRetries         int
	RetryDelay         time.Duration
	RefreshInterval    time.Duration
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
}

type Option func(*Config)

func WithDataURL(url string) Option {
	return func(c *Config) {
		c.DataURL = url
	}
}

func WithRetries(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.CacheTTL = ttl
	}
}

// New creates a configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:        "production",
		LogLevel:           zerolog.InfoLevel,
		DataURL:            DefaultDataURL,
		UserAgent:          DefaultUserAgent,
		RequestTimeout:     60 * time.Second,
		MaxRetries:         3,
		RetryDelay:         2 * time.Second,
		RefreshInterval:    time.Hour,
		CacheTTL:           30 * time.Minute,
		CacheSweepInterval: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Load reads .env (if present) and PRIX_* environment variables on top of the defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	defaults := New()
	v.SetDefault("env", defaults.Environment)
	v.SetDefault("log_level", defaults.LogLevel.String())
	v.SetDefault("data_url", defaults.DataURL)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("request_timeout", defaults.RequestTimeout.String())
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("retry_delay", defaults.RetryDelay.String())
	v.SetDefault("refresh_interval", defaults.RefreshInterval.String())
	v.SetDefault("cache_ttl", defaults.CacheTTL.String())
	v.SetDefault("cache_sweep_interval", defaults.CacheSweepInterval.String())

	level, err := zerolog.ParseLevel(v.GetString("log_level"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	cfg := &Config{
		Environment: v.GetString("env"),
		LogLevel:    level,
		DataURL:     v.GetString("data_url"),
		UserAgent:   v.GetString("user_agent"),
		MaxRetries:  v.GetInt("max_retries"),
	}

	durations := map[string]*time.Duration{
		"request_timeout":      &cfg.RequestTimeout,
		"retry_delay":          &cfg.RetryDelay,
		"refresh_interval":     &cfg.RefreshInterval,
		"cache_ttl":            &cfg.CacheTTL,
		"cache_sweep_interval": &cfg.CacheSweepInterval,
	}
	for key, target := range durations {
		d, err := parseDuration(key, v.GetString(key))
		if err != nil {
			return nil, err
		}
		*target = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration insists on a unit: a bare "60" would otherwise be read as
// nanoseconds.
func parseDuration(key, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if _, numErr := strconv.ParseFloat(raw, 64); numErr == nil {
			return 0, errors.Newf("%s_%s=%q has no unit, use e.g. %ss or %sm", envPrefix, strings.ToUpper(key), raw, raw, raw)
		}
		return 0, errors.Wrapf(err, "invalid %s_%s", envPrefix, strings.ToUpper(key))
	}
	return d, nil
}

func (c *Config) Validate() error {
	if c.DataURL == "" {
		return errors.New("data url must be set")
	}
	if c.MaxRetries < 1 {
		return errors.Newf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return errors.Newf("retry delay must not be negative, got %s", c.RetryDelay)
	}
	for name, d := range map[string]time.Duration{
		"request timeout":      c.RequestTimeout,
		"refresh interval":     c.RefreshInterval,
		"cache ttl":            c.CacheTTL,
		"cache sweep interval": c.CacheSweepInterval,
	} {
		if d <= 0 {
			return errors.Newf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}
