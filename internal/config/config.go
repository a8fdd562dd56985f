// Package config loads settings from the environment and an optional YAML
// file. Values in the file win over the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Token        string  `env:"TOKEN"         yaml:"token"`
	AllowedUsers []int64 `env:"ALLOWED_USERS" yaml:"allowed_users"`
	LogLevel     string  `env:"LOG_LEVEL"     yaml:"log_level"     envDefault:"info"`
	MetricsAddr  string  `env:"METRICS_ADDR"  yaml:"metrics_addr"`

	Summary SummaryConfig `envPrefix:"SUMMARY_" yaml:"summary"`
	Fetch   FetchConfig   `envPrefix:"FETCH_"   yaml:"fetch"`
	Cache   CacheConfig   `envPrefix:"CACHE_"   yaml:"cache"`
}

type SummaryConfig struct {
	WordBudget      int `env:"WORD_BUDGET"       yaml:"word_budget"       envDefault:"150"`
	ChunkMaxChars   int `env:"CHUNK_MAX_CHARS"   yaml:"chunk_max_chars"   envDefault:"4000"`
	ChunkWordBudget int `env:"CHUNK_WORD_BUDGET" yaml:"chunk_word_budget" envDefault:"100"`
	BulletLimit     int `env:"BULLET_LIMIT"      yaml:"bullet_limit"      envDefault:"5"`
}

type FetchConfig struct {
	Timeout         time.Duration `env:"TIMEOUT"           yaml:"timeout"           envDefault:"20s"`
	UserAgent       string        `env:"USER_AGENT"        yaml:"user_agent"`
	HostInterval    time.Duration `env:"HOST_INTERVAL"     yaml:"host_interval"     envDefault:"1s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES"    yaml:"max_body_bytes"    envDefault:"20971520"`
	YouTubeBaseURL  string        `env:"YOUTUBE_BASE_URL"  yaml:"youtube_base_url"  envDefault:"https://www.youtube.com"`
	TelegramBaseURL string        `env:"TELEGRAM_BASE_URL" yaml:"telegram_base_url" envDefault:"https://t.me"`
}

type CacheConfig struct {
	MaxEntries int           `env:"MAX_ENTRIES" yaml:"max_entries" envDefault:"1024"`
	TTL        time.Duration `env:"TTL"         yaml:"ttl"         envDefault:"24h"`
	DBPath     string        `env:"DB_PATH"     yaml:"db_path"`
	RedisURL   string        `env:"REDIS_URL"   yaml:"redis_url"`
	PruneSpec  string        `env:"PRUNE_SPEC"  yaml:"prune_spec"  envDefault:"@hourly"`
}

// Load reads the environment and overlays the YAML file at path, if any.
func Load(path string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file (path = %s): %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	positive := []struct {
		name  string
		value int64
	}{
		{"SUMMARY_WORD_BUDGET", int64(c.Summary.WordBudget)},
		{"SUMMARY_CHUNK_MAX_CHARS", int64(c.Summary.ChunkMaxChars)},
		{"SUMMARY_CHUNK_WORD_BUDGET", int64(c.Summary.ChunkWordBudget)},
		{"SUMMARY_BULLET_LIMIT", int64(c.Summary.BulletLimit)},
		{"FETCH_TIMEOUT", int64(c.Fetch.Timeout)},
		{"FETCH_MAX_BODY_BYTES", c.Fetch.MaxBodyBytes},
		{"CACHE_TTL", int64(c.Cache.TTL)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", p.name))
		}
	}

	if c.Fetch.HostInterval < 0 {
		errs = append(errs, errors.New("FETCH_HOST_INTERVAL must not be negative"))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("CACHE_MAX_ENTRIES must not be negative"))
	}

	return errors.Join(errs...)
}

// ValidateBot checks the settings only the Telegram bot needs.
func (c Config) ValidateBot() error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("TOKEN is required")
	}

	return nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return level, nil
}
