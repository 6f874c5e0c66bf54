package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/exhibitnet/pkg/buildinfo"
	"github.com/matzehuels/exhibitnet/pkg/cache"
	"github.com/matzehuels/exhibitnet/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "exhibitnet"

	// Environment variables selecting a shared cache backend.
	envRedisAddr = "EXHIBITNET_REDIS_ADDR"
	envMongoURI  = "EXHIBITNET_MONGO_URI"
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
		Use:   appName,
		Short: "Exhibitnet lays out artist/exhibition co-membership networks",
		Long: `Exhibitnet builds a clustered network of artists and the exhibitions they
showed in for one year, places ambiguous (fuzzy) artists between the
exhibitions they belong to, and renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.yearsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	switch cc.(type) {
	case *cache.RedisCache, *cache.MongoCache:
		// Shared backends may hold keys of other applications.
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache selects the cache backend: Redis or MongoDB when configured in
// the environment, the local file cache otherwise. An unreachable shared
// backend falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	if addr := os.Getenv(envRedisAddr); addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", addr)
			return rc, nil
		}
		if !errors.Is(err, cache.ErrUnavailable) {
			return nil, err
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	} else if uri := os.Getenv(envMongoURI); uri != "" {
		mc, err := cache.NewMongoCache(ctx, uri, appName, "")
		if err == nil {
			c.Logger.Debug("using mongodb cache")
			return mc, nil
		}
		if !errors.Is(err, cache.ErrUnavailable) {
			return nil, err
		}
		c.Logger.Warn("mongodb cache unavailable, using file cache", "err", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/exhibitnet/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// defaultOutputBase names output files after the selected year.
func defaultOutputBase(year int) string {
	if year == 0 {
		return appName
	}
	return appName + "-" + strconv.Itoa(year)
}
