package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/layout"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != BackendFile || cfg.LayoutOptions() != layout.DefaultOptions() {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := `
[layout]
direction = "right"
node_width = 180

[cache]
backend = "redis"
ttl = "24h"
scope = "plant-2026"

[cache.redis]
addr = "cache:6379"
db = 2

[server]
timeout = "5s"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := cfg.LayoutOptions()
	if opts.Direction != layout.DirectionRight || opts.NodeWidth != 180 || opts.NodeHeight != layout.DefaultOptions().NodeHeight {
		t.Errorf("layout = %+v", opts)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL.Duration != 24*time.Hour || cfg.Cache.Scope != "plant-2026" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Addr != "cache:6379" || cfg.Cache.Redis.DB != 2 || cfg.Cache.Redis.Prefix != "rowgraph:" {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Server.Timeout.Duration != 5*time.Second || cfg.Server.Addr != ":8080" {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadKeepsZeroGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[layout]\nmargin = 0\npadding = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := cfg.LayoutOptions()
	if opts.Margin != 0 || opts.Padding != 0 {
		t.Errorf("margin/padding = %g/%g, want 0/0", opts.Margin, opts.Padding)
	}
	if opts.NodeSpacing != layout.DefaultOptions().NodeSpacing {
		t.Errorf("node spacing = %g, want default", opts.NodeSpacing)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `[layout`},
		{"unknown key", "[layout]\ncolour = \"red\""},
		{"bad duration", "[server]\ntimeout = \"soon\""},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad direction", "[layout]\ndirection = \"diagonal\""},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n[cache.redis]\naddr = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode([]byte(tt.doc), Default())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}
