package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/streamtap/intercept"
	"github.com/randalmurphal/streamtap/stream"
)

// Log levels accepted by Config.LogLevel.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Config holds settings for registries and streams created from it.
type Config struct {
	// DefaultStrategy applies to interceptions created without an explicit strategy.
	// Default: trap.
	DefaultStrategy intercept.Strategy `json:"default_strategy" yaml:"default_strategy" toml:"default_strategy"`

	// IDPrefix prefixes every interception identifier.
	// Default: "streamtap".
	IDPrefix string `json:"id_prefix" yaml:"id_prefix" toml:"id_prefix" jsonschema:"pattern=^[^*]+$"`

	// ChunkSize is the largest chunk delivered to filters per write.
	// 0 uses stream.DefaultChunkSize.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" toml:"chunk_size" jsonschema:"minimum=0"`

	// LogLevel controls which messages Logger emits.
	// Values: DEBUG, INFO, WARN, ERROR. Default: INFO.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultStrategy: intercept.Trap,
		IDPrefix:        intercept.DefaultIDPrefix,
		ChunkSize:       stream.DefaultChunkSize,
		LogLevel:        LevelInfo,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the STREAMTAP_ prefix and take precedence over
// existing values. Unparseable values are ignored.
//
// Supported variables:
//   - STREAMTAP_DEFAULT_STRATEGY: trap, pass_through or fatal_error
//   - STREAMTAP_ID_PREFIX: Identifier prefix
//   - STREAMTAP_CHUNK_SIZE: Maximum chunk size in bytes
//   - STREAMTAP_LOG_LEVEL: DEBUG, INFO, WARN or ERROR
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("STREAMTAP_DEFAULT_STRATEGY"); v != "" {
		if s, err := intercept.ParseStrategy(v); err == nil {
			c.DefaultStrategy = s
		}
	}
	if v := os.Getenv("STREAMTAP_ID_PREFIX"); v != "" {
		c.IDPrefix = v
	}
	if v := os.Getenv("STREAMTAP_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ChunkSize = n
		}
	}
	if v := os.Getenv("STREAMTAP_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToUpper(v)
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Load reads a config file over the defaults. The format is chosen by
// extension: .yaml/.yml, .toml or .json. The result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := cfg.decode(filepath.Ext(path), data); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".toml":
		return toml.Unmarshal(data, c)
	case ".json":
		return json.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !c.DefaultStrategy.Valid() {
		return fmt.Errorf("default_strategy is invalid: %d", int(c.DefaultStrategy))
	}
	if c.IDPrefix == "" {
		return fmt.Errorf("id_prefix is required")
	}
	if strings.Contains(c.IDPrefix, "*") {
		return fmt.Errorf("id_prefix must not contain '*', got %q", c.IDPrefix)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be >= 0, got %d", c.ChunkSize)
	}
	switch strings.ToUpper(c.LogLevel) {
	case "", LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("log_level must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	return nil
}

// WithDefaultStrategy returns a copy of the config with the specified strategy.
func (c Config) WithDefaultStrategy(s intercept.Strategy) Config {
	c.DefaultStrategy = s
	return c
}

// WithIDPrefix returns a copy of the config with the specified identifier prefix.
func (c Config) WithIDPrefix(prefix string) Config {
	c.IDPrefix = prefix
	return c
}

// WithChunkSize returns a copy of the config with the specified chunk size.
func (c Config) WithChunkSize(n int) Config {
	c.ChunkSize = n
	return c
}

// WithLogLevel returns a copy of the config with the specified log level.
func (c Config) WithLogLevel(level string) Config {
	c.LogLevel = level
	return c
}

// Level converts LogLevel to a slog.Level.
// Defaults to INFO if the level string is not recognized.
func (c Config) Level() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
