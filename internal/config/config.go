// Package config loads the deckcal configuration file.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/deckcal/internal/logging"
	"github.com/aretw0/deckcal/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "deckcal.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the root of deckcal.yaml.
type Config struct {
	APILevel string        `yaml:"api_level" json:"api_level"`
	LogLevel string        `yaml:"log_level" json:"log_level"`
	Store    StoreConfig   `yaml:"store" json:"store"`
	Journal  JournalConfig `yaml:"journal" json:"journal"`
	Metrics  MetricsConfig `yaml:"metrics" json:"metrics"`
}

// StoreConfig selects where sessions live.
type StoreConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	Dir     string      `yaml:"dir" json:"dir"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
	// EncryptionKey is a hex-encoded 32 byte AES key. When set, sessions
	// are sealed before they reach the backend.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	// FallbackKeys are previous keys still accepted for reading.
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	// TTL is a Go duration ("24h"). Empty means sessions never expire.
	TTL string `yaml:"ttl" json:"ttl"`
}

// JournalConfig enables the command journal.
type JournalConfig struct {
	// SQLite is the database path. Empty disables the journal.
	SQLite string `yaml:"sqlite" json:"sqlite"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address (e.g. ":2112"). Empty disables it.
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APILevel: "2.6",
		LogLevel: "info",
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(".deckcal", "sessions"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "deckcal:session:",
			},
		},
	}
}

// Load reads a YAML (or .json) config file over the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and parses embedded values.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidArgument, c.Store.Backend)
	}
	if _, err := c.API(); err != nil {
		return err
	}
	if _, err := c.RedisTTL(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		return err
	}
	return nil
}

// EncryptionKeys decodes the active and fallback keys. A nil active key
// means encryption is off.
func (c Config) EncryptionKeys() ([]byte, [][]byte, error) {
	if c.Store.EncryptionKey == "" {
		if len(c.Store.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("%w: fallback_keys require encryption_key", domain.ErrInvalidArgument)
		}
		return nil, nil, nil
	}
	active, err := decodeKey(c.Store.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	fallback := make([][]byte, 0, len(c.Store.FallbackKeys))
	for _, k := range c.Store.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("%w: encryption keys must be 64 hex characters (AES-256)", domain.ErrInvalidArgument)
	}
	return key, nil
}

// API returns the parsed api level. Empty means zero (the latest level).
func (c Config) API() (domain.APIVersion, error) {
	if c.APILevel == "" {
		return domain.APIVersion{}, nil
	}
	return domain.ParseAPIVersion(c.APILevel)
}

// RedisTTL parses Store.Redis.TTL.
func (c Config) RedisTTL() (time.Duration, error) {
	if c.Store.Redis.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Store.Redis.TTL)
	if err != nil || ttl < 0 {
		return 0, fmt.Errorf("%w: invalid redis ttl %q", domain.ErrInvalidArgument, c.Store.Redis.TTL)
	}
	return ttl, nil
}
