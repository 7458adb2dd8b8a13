package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rowgraph/pkg/cache"
	"github.com/matzehuels/rowgraph/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and renders",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and render",
		Long: `Remove every cached layout and render from the configured backend.

For the redis backend only keys under the configured prefix are deleted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := c.cacheLocation()
			if loc == "" {
				printInfo("Caching is disabled, nothing to clear")
				return nil
			}

			cc, err := c.newCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			cleared, err := cache.Clear(cmd.Context(), cc)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if !cleared {
				printWarning("The %s backend cannot be cleared", c.Config.Cache.Backend)
				return nil
			}

			printSuccess("Cache cleared")
			printKeyValue("Backend", c.Config.Cache.Backend)
			printKeyValue("Location", loc)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := c.cacheLocation()
			if loc == "" {
				printDetail("Caching is disabled")
				return nil
			}
			fmt.Println(loc)
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the file
// cache, a redis address and prefix, or "" when caching is off.
func (c *CLI) cacheLocation() string {
	if c.noCache {
		return ""
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return ""
	case config.BackendRedis:
		r := c.Config.Cache.Redis
		return fmt.Sprintf("redis://%s/%d %s*", r.Addr, r.DB, r.Prefix)
	}
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return ""
	}
	return dir
}
