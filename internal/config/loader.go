package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from path, or BB_CONFIG when path is empty
//  3. env (prefix BB_)
//
// A .env file in the working directory is read into the process
// environment first, matching how the original deployment configured
// keys and connection strings.
func Load(_ context.Context, path string) (*Config, error) {
	// Missing .env is fine; it only exists in dev setups.
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("BB_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: BB_ADDR, BB_POSTGRES_DSN, BB_SCORER_URL, ...
	// Keys keep their underscores to match the koanf tags.
	envProvider := env.Provider("BB_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "bb_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for the postgres store", ErrInvalidConfig)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.ScorerURL == "" {
		return fmt.Errorf("%w: scorer_url must not be empty", ErrInvalidConfig)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
