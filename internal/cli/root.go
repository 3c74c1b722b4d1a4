package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pi-bie/ocitysmap/pkg/observability"
)

// Execute runs the ocitysmap CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level, plus stage and cache events
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c.configure(verbose)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	return root.ExecuteContext(ctx)
}

// configure applies the --verbose flag. Verbose runs also log pipeline
// stage and cache events.
func (c *CLI) configure(verbose bool) {
	if !verbose {
		c.SetLogLevel(LogInfo)
		return
	}
	c.SetLogLevel(LogDebug)
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPlanHooks(hooks)
	observability.SetCacheHooks(hooks)
}
