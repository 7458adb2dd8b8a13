// Package cli implements the rowgraph command-line interface.
//
// The commands follow the pipeline stages: materialize turns a mapping and
// its datasets into an unpositioned graph, layout positions it, and render
// draws a graph file as SVG, DOT, a table or a tree. browse opens an
// interactive view that re-materializes on selection, and serve exposes the
// pipeline over HTTP.
//
// # Configuration
//
// Settings are read from rowgraph.toml in the working directory, or from the
// file named by --config. A missing file yields the defaults.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rowgraph/pkg/buildinfo"
	"github.com/matzehuels/rowgraph/pkg/cache"
	"github.com/matzehuels/rowgraph/pkg/config"
	"github.com/matzehuels/rowgraph/pkg/dataset"
	"github.com/matzehuels/rowgraph/pkg/errors"
	"github.com/matzehuels/rowgraph/pkg/filter"
	"github.com/matzehuels/rowgraph/pkg/layout/dot"
	"github.com/matzehuels/rowgraph/pkg/mapping"
	"github.com/matzehuels/rowgraph/pkg/observability"
	"github.com/matzehuels/rowgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "rowgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	noCache    bool
	verbose    bool
}

// New creates a new CLI instance with a default logger and default settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "rowgraph turns tabular rows into nested, laid-out graphs",
		Long:          `rowgraph materializes categorized rows into a containment forest with edges and overlays, lays it out with Graphviz and renders the result.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", config.FileName, "config file")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log pipeline and cache events")

	// Register all subcommands
	root.AddCommand(c.materializeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)

	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.SetPipelineHooks(observability.LogPipelineHooks{Logger: c.Logger})
		observability.SetCacheHooks(observability.LogCacheHooks{Logger: c.Logger})
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache and the
// Graphviz solver.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if scope := c.Config.Cache.Scope; scope != "" {
		keyer = cache.NewScopedKeyer(nil, scope+":")
	}
	r := pipeline.NewRunner(cc, keyer, dot.New(c.Logger), c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		r := c.Config.Cache.Redis
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/rowgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath derives an output file next to input when none is given,
// e.g. data.json → data.graph.json.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix
}

// =============================================================================
// Inputs
// =============================================================================

// loadInputs reads the mapping, the datasets and the optional selection into
// pipeline options with the configured layout settings.
func (c *CLI) loadInputs(mappingPath, dataPath, filterPath string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Layout: c.Config.LayoutOptions(),
		Logger: c.Logger,
	}
	for _, p := range []string{mappingPath, dataPath, filterPath} {
		if p == "" {
			continue
		}
		if err := errors.ValidatePath(p); err != nil {
			return opts, err
		}
	}

	m, err := mapping.Load(mappingPath)
	if err != nil {
		return opts, fmt.Errorf("load mapping %s: %w", mappingPath, err)
	}
	opts.Mapping = m

	data, err := dataset.ReadFile(dataPath)
	if err != nil {
		return opts, fmt.Errorf("load data %s: %w", dataPath, err)
	}
	opts.Data = data

	if filterPath != "" {
		sel, err := filter.Load(filterPath)
		if err != nil {
			return opts, fmt.Errorf("load filter %s: %w", filterPath, err)
		}
		opts.Selection = sel
	}
	return opts, nil
}
