// Package cli defines the command-line interface for storybook-link-comment.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/env"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	// EnvFiles are .env files overlaid on the process environment.
	EnvFiles []string
	// Vars are inline k=v pairs overlaid last.
	Vars     string
	LogLevel logging.Level
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{LogLevel: logging.LevelInfo}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
// Running the root command without a subcommand publishes the comment.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storybook-link-comment",
		Short: "Publish a Storybook preview link comment on the pull request of a CI run",
		Long: "storybook-link-comment resolves the pull request and branch of the current GitHub Actions event, " +
			"builds the Chromatic preview links and keeps a single marked comment with them up to date.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			base, err := parseBaseEnv(env.FromOS())
			if err != nil {
				return err
			}

			level := resolveLogLevel(cmd.Flag("log-level"), base)
			opts.LogLevel = level
			if !cmd.Flags().Changed("env-file") && len(base.EnvFiles) > 0 {
				opts.EnvFiles = base.EnvFiles
			}

			logger = logging.NewLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, opts)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "Path to .env file(s) merged over the process environment")
	cmd.PersistentFlags().StringVar(&opts.Vars, "vars", "", "Additional variables in k=v,k2=v2 format, e.g. INPUT_APP-ID=abc")

	cmd.AddCommand(
		newRunCommand(opts),
		newRenderCommand(opts),
		newDoctorCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
