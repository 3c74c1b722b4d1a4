package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pi-bie/ocitysmap/pkg/buildinfo"
	"github.com/pi-bie/ocitysmap/pkg/cache"
	"github.com/pi-bie/ocitysmap/pkg/config"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// stdoutPath selects standard output for file flags.
	stdoutPath = "-"
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

	// configPath is the --config flag.
	configPath string
	// config is loaded lazily by Config.
	config *config.Config
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
		Short: "ocitysmap paginates city maps into atlases and posters",
		Long: `ocitysmap plans printed city maps: it splits an area into atlas or
multi-page sheets, lays reference grids over every page and builds the street
and place index that goes with them. The resulting plan drives a map renderer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.papersCommand())
	root.AddCommand(c.pagesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Config returns the effective configuration, reading it on first use.
func (c *CLI) Config() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Resolve(c.configPath, c.Logger)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", cfg.Path, "language", cfg.Language)
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	fc, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, nil, c.Logger), nil
}

func newCache(cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg != nil && cfg.CacheURL != "" {
		return cache.NewRedisCache(cfg.CacheURL)
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the plan cache directory (~/.cache/ocitysmap/ unless
// configured otherwise).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg.CacheDirectory()
}

// createOutput opens path for writing, or standard output for "-".
func createOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath || path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
