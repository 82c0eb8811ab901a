package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. CREWBOARD_ADDR.
	EnvPrefix = "CREWBOARD_"
	// EnvConfigPath names an optional config file.
	EnvConfigPath = EnvPrefix + "CONFIG"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env in the working directory, if present
//  3. file (YAML, TOML or JSON) if CREWBOARD_CONFIG is set
//  4. env (prefix CREWBOARD_)
func Load(ctx context.Context) (*Config, error) {
	// .env only seeds the process environment; real env vars win.
	_ = godotenv.Load()
	return LoadFile(ctx, os.Getenv(EnvConfigPath))
}

// LoadFile is Load with an explicit config file path. An empty path skips the file layer.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: CREWBOARD_ADDR, CREWBOARD_CACHE_TTL_SECONDS, ...
	// Map env keys to flat koanf keys, preserving underscores.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", "":
		return yaml.Parser(), nil
	case ".toml":
		return TOMLParser(), nil
	case ".json":
		return JSONParser(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported config file format %q", ErrLoadConfig, filepath.Ext(path))
	}
}
