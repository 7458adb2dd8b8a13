// Package config loads rowgraph settings from a TOML file.
//
// A missing file is not an error: every setting has a default. Example:
//
//	[layout]
//	direction = "RIGHT"
//	node_width = 180
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	rgerrors "github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/layout"
)

// FileName is the config file looked up in the working directory.
const FileName = "rowgraph.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete settings document.
type Config struct {
	Layout layout.Options `toml:"layout"`
	Cache  Cache          `toml:"cache"`
	Server Server         `toml:"server"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	// Scope namespaces every key, e.g. per dataset release, so that
	// bumping it invalidates old layouts without clearing the cache.
	Scope string `toml:"scope"`
	Redis Redis  `toml:"redis"`
}

// Redis holds the connection settings of the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr    string   `toml:"addr"`
	Timeout Duration `toml:"timeout"`
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as "30s" or "24h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Layout: layout.DefaultOptions(),
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
			Redis:   Redis{Addr: "localhost:6379", Prefix: "rowgraph:"},
		},
		Server: Server{
			Addr:         ":8080",
			Timeout:      Duration{30 * time.Second},
			MaxBodyBytes: 32 << 20,
		},
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML into cfg, keeping fields the document does not set,
// and validates the result.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return rgerrors.Wrap(rgerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return rgerrors.New(rgerrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	return cfg.Validate()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return rgerrors.New(rgerrors.ErrCodeInvalidConfig, "redis cache needs an address")
		}
	default:
		return rgerrors.New(rgerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 || c.Server.Timeout.Duration < 0 {
		return rgerrors.New(rgerrors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	if c.Server.Addr == "" {
		return rgerrors.New(rgerrors.ErrCodeInvalidConfig, "server address is empty")
	}
	return nil
}

// LayoutOptions returns the layout settings with defaults applied.
func (c *Config) LayoutOptions() layout.Options {
	return c.Layout.WithDefaults()
}
