// Package config loads service settings. Sources are applied in order:
// built-in defaults, an optional TOML file, then environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is read when no config file is given explicitly
const DefaultPath = "userapi.toml"

// Environment variables overriding file values
const (
	EnvMongoURI   = "MONGODB_URI"
	EnvMongoDB    = "MONGODB_DB"
	EnvListenAddr = "LISTEN_ADDR"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFormat  = "LOG_FORMAT"
	EnvBasePath   = "BASE_PATH"
)

var (
	ErrDatabaseURIRequired  = errors.New("database uri is required")
	ErrDatabaseNameRequired = errors.New("database name is required")
	ErrListenAddrRequired   = errors.New("listen address is required")
	ErrInvalidLogLevel      = errors.New("invalid log level")
	ErrInvalidLogFormat     = errors.New("invalid log format")
	ErrInvalidBasePath      = errors.New("base path must start with /")
)

type Config struct {
	Database Database `toml:"database"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
}

// Database selects the backend by URI scheme: mongodb://, mongodb+srv://,
// postgres://, postgresql:// or memory://
type Database struct {
	URI  string `toml:"uri"`
	Name string `toml:"name"`
}

type Server struct {
	Listen   string `toml:"listen"`
	BasePath string `toml:"base_path"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// DefaultConfig returns the settings used when nothing overrides them
func DefaultConfig() *Config {
	return &Config{
		Database: Database{
			URI:  "mongodb://mongo:27017",
			Name: "testdb",
		},
		Server: Server{
			Listen: ":8000",
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. A missing file at DefaultPath is not an
// error; a missing file that was named explicitly is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvMongoURI, &c.Database.URI},
		{EnvMongoDB, &c.Database.Name},
		{EnvListenAddr, &c.Server.Listen},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogFormat, &c.Log.Format},
		{EnvBasePath, &c.Server.BasePath},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}

// Validate checks that required settings are present and known
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return ErrDatabaseURIRequired
	}
	if c.Database.Name == "" {
		return ErrDatabaseNameRequired
	}
	if c.Server.Listen == "" {
		return ErrListenAddrRequired
	}

	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}

	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidBasePath, c.Server.BasePath)
	}
	return nil
}
