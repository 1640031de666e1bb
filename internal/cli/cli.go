// Package cli implements the molpack command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molpack/pkg/buildinfo"
	"github.com/matzehuels/molpack/pkg/cache"
	"github.com/matzehuels/molpack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "molpack"
)

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

	// redisAddr selects a Redis result cache instead of the file cache.
	redisAddr string

	// cacheScope prefixes result keys so projects sharing a cache backend
	// do not see each other's results.
	cacheScope string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "molpack packs molecules into constrained regions",
		Long:         `molpack places many copies of molecular structures in space so that no two atoms of different molecules come closer than a tolerance, with each structure confined to its own geometric region.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.redisAddr, "redis", os.Getenv("MOLPACK_REDIS"), "cache results in Redis at host:port instead of on disk")
	root.PersistentFlags().StringVar(&c.cacheScope, "cache-scope", os.Getenv("MOLPACK_CACHE_SCOPE"), "prefix for result cache keys")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.kindsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	rc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(rc, c.keyer(), c.Logger), nil
}

// keyer returns the result keyer, scoped when --cache-scope is set.
func (c *CLI) keyer() cache.Keyer {
	if c.cacheScope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cacheScope+":")
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.redisAddr})
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/molpack/).
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
