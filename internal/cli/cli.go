// Package cli implements the inkforge command-line interface.
//
// This package provides commands for rendering diagram source files into
// embeddable HTML fragments, batch-building a directory of diagrams,
// serving a live preview, and managing the render cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - render: Render a single diagram file to HTML, SVG or DOT
//   - build: Render every diagram file under a directory in parallel
//   - serve: Run the live preview server
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/inkforge/inkforge/pkg/buildinfo"
	"github.com/inkforge/inkforge/pkg/cache"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
	"github.com/inkforge/inkforge/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "inkforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

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
		Use:          appName,
		Short:        "Inkforge renders plain-text diagram DSLs to embeddable SVG",
		Long:         `Inkforge is the diagram rendering engine of a static-site generator: it compiles flowchart, gantt, sequence, class and state diagram descriptions into standalone vector graphics at build time, with no client-side interpretation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
// With a redis URL the shared cache is used; otherwise the file cache under
// the user cache dir; --no-cache disables caching entirely.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool, redisURL string) (*pipeline.Runner, error) {
	store, err := newCache(cmd, noCache, redisURL)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(cmd *cobra.Command, noCache bool, redisURL string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		return cache.NewRedisCache(cmd.Context(), redisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/inkforge/).
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

// loadTheme resolves the --theme flag: empty means the built-in defaults.
func loadTheme(path string) (*theme.Theme, error) {
	if path == "" {
		return theme.Default(), nil
	}
	return theme.Load(path)
}
