package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/githubapi"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/metrics"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/notifier"
)

// newRunCommand creates the "run" subcommand that publishes or updates the preview comment.
func newRunCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Create or update the Storybook preview comment (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, opts)
		},
	}
}

func runPublish(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	logger := LoggerFromContext(ctx)

	sess, err := loadSession(cmd, opts)
	if err != nil {
		return err
	}

	runErr := func() error {
		cfg, ev, err := sess.load()
		if err != nil {
			return err
		}

		recorder := metrics.NewRecorder()
		defer func() {
			if cfg.PushgatewayURL == "" {
				return
			}
			if err := recorder.Push(ctx, cfg.PushgatewayURL, ev.Repository()); err != nil {
				logger.Warn("failed to push metrics", "error", err)
			}
		}()

		client, err := githubapi.NewClient(ctx, logger, cfg.Token, ev.APIURL, ev.Owner, ev.Repo, githubapi.WithObserver(recorder))
		if err != nil {
			return err
		}

		_, err = notifier.Run(ctx, notifier.Deps{
			Logger:   logger,
			Event:    ev,
			Config:   cfg,
			API:      client,
			Outputs:  sess.action,
			Observer: recorder,
		})
		return err
	}()

	if runErr != nil {
		if hint := apperrors.SuggestionOf(runErr); hint != "" {
			logger.Info("hint", "suggestion", hint)
		}
		sess.action.Errorf("%s", runErr.Error())
		return runErr
	}
	return nil
}
