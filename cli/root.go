// Package cli implements the statediagram command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/amp-labs/diagram-common/logger"
	"github.com/amp-labs/diagram-common/shutdown"
	"github.com/spf13/cobra"
)

const subsystemName = "statediagram"

// NewRootCommand builds a fresh command tree. Every call returns independent
// commands so callers (and tests) can set their own args and writers.
func NewRootCommand() *cobra.Command {
	var (
		logLevel string
		logJSON  bool
	)

	root := &cobra.Command{
		Use:   "statediagram",
		Short: "Resolve Mermaid state diagrams into a hierarchical model",
		Long: `statediagram reads the statement tree produced by a Mermaid stateDiagram
parser (as JSON or YAML) and resolves it into states, transitions and notes
with a single parent per state. Use "-" to read a document from stdin.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := logger.OptionsFromEnv(logger.Options{
				Subsystem: subsystemName,
				MinLevel:  slog.LevelWarn,
				Output:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("log-level") {
				if err := opts.MinLevel.UnmarshalText([]byte(logLevel)); err != nil {
					return fmt.Errorf("%w: %q", logger.ErrInvalidLogLevel, logLevel)
				}
			}

			if cmd.Flags().Changed("log-json") {
				opts.JSON = logJSON
			}

			logger.ConfigureLoggingWithOptions(opts)

			cmd.SetContext(logger.WithSubsystem(commandContext(cmd), subsystemName))

			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Minimum log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	root.AddCommand(
		newConvertCommand(),
		newRenderCommand(),
		newValidateCommand(),
		newTreeCommand(),
	)

	return root
}

// Execute runs the command tree against os.Args and exits non-zero on failure.
// SIGINT and SIGTERM cancel the command context, so a batch stops scheduling
// the conversions it has not started yet.
func Execute() {
	ctx, handler := shutdown.SetupHandler(context.Background())

	handler.BeforeShutdown(func() {
		logger.Get(ctx).WarnContext(ctx, "Interrupted, pending conversions are abandoned")
	})

	err := NewRootCommand().ExecuteContext(ctx)

	handler.Stop()

	if err != nil {
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
