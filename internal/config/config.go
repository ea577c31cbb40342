// Package config loads application settings for the colloquy CLI and server.
//
// Settings are layered: built-in defaults, then a TOML file, then
// environment variables prefixed with COLLOQUY_ (COLLOQUY_STORE_BACKEND
// sets store.backend).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/colloquy/internal/logging"
	"github.com/aretw0/colloquy/pkg/persistence/middleware"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "COLLOQUY_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// DefaultPaths are tried in order when no config file is given.
var DefaultPaths = []string{"./colloquy.toml", "$HOME/.config/colloquy/config.toml"}

// Config represents the application configuration.
type Config struct {
	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`

	Engine struct {
		StepBudget int `koanf:"step_budget"`
	} `koanf:"engine"`

	World struct {
		Seed string `koanf:"seed"`
	} `koanf:"world"`

	Store struct {
		Backend string        `koanf:"backend"`
		Dir     string        `koanf:"dir"`
		TTL     time.Duration `koanf:"ttl"`

		// EncryptionKey (base64, 32 bytes) seals snapshots at rest.
		// FallbackKeys still open snapshots sealed before a rotation.
		EncryptionKey string   `koanf:"encryption_key"`
		FallbackKeys  []string `koanf:"fallback_keys"`
	} `koanf:"store"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
		Prefix   string `koanf:"prefix"`
	} `koanf:"redis"`

	Server struct {
		Addr    string        `koanf:"addr"`
		LockTTL time.Duration `koanf:"lock_ttl"`
	} `koanf:"server"`
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":          "info",
		"log.format":         "text",
		"engine.step_budget": 10000,
		"store.backend":      BackendMemory,
		"store.dir":          ".colloquy/suspensions",
		"store.ttl":          24 * time.Hour,
		"redis.addr":         "localhost:6379",
		"redis.prefix":       "colloquy:suspension:",
		"server.addr":        ":8080",
		"server.lock_ttl":    10 * time.Second,
	}
}

// Load reads the configuration. An explicit path must exist; otherwise the
// first readable file of DefaultPaths is used, if any.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", path, err)
		}
	} else {
		for _, p := range DefaultPaths {
			p = os.ExpandEnv(p)
			if _, err := os.Stat(p); err == nil {
				if err := k.Load(file.Provider(p), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// COLLOQUY_ENGINE_STEP_BUDGET -> engine.step_budget: only the first
	// underscore separates the section.
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the CLI cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q: want text or json", c.Log.Format))
	}
	if c.Engine.StepBudget < 0 {
		errs = append(errs, fmt.Errorf("engine step budget must not be negative, got %d", c.Engine.StepBudget))
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("file store requires store.dir"))
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis store requires redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if c.Store.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Store.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("store.encryption_key: %w", err))
		}
	}
	for i, k := range c.Store.FallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			errs = append(errs, fmt.Errorf("store.fallback_keys[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Sample is a commented configuration file with the default values.
const Sample = `# colloquy configuration

[log]
level = "info"   # debug, info, warn, error
format = "text"  # text or json

[engine]
step_budget = 10000

[world]
# seed = "world.yaml"

[store]
backend = "memory"  # memory, file or redis
dir = ".colloquy/suspensions"
ttl = "24h"
# encryption_key = ""   # base64 AES-256 key; seals snapshots at rest
# fallback_keys = []    # previous keys, tried when the active key fails

[redis]
addr = "localhost:6379"
prefix = "colloquy:suspension:"

[server]
addr = ":8080"
lock_ttl = "10s"
`

// WriteSample writes Sample to path, refusing to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists at %s", path)
	}
	return os.WriteFile(path, []byte(Sample), 0o644)
}
