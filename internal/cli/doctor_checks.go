package cli

import (
	"fmt"
	"log/slog"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/comment"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/config"
	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/resolver"
)

func runDoctorChecks(logger *slog.Logger, sess *session) error {
	if logger == nil {
		logger = slog.Default()
	}

	var fatalErrs []error
	fail := func(msg string, err error) {
		args := []any{"error", err}
		if hint := apperrors.SuggestionOf(err); hint != "" {
			args = append(args, "suggestion", hint)
		}
		logger.Error(msg, args...)
		fatalErrs = append(fatalErrs, err)
	}

	cfg, err := config.Load(sess.inputs, sess.baseDir)
	if err != nil {
		fail("configuration check failed", err)
	} else {
		logger.Info("configuration check ok",
			"preview_host", cfg.PreviewHost,
			"custom_template", cfg.Template != "",
			"metrics_push", cfg.PushgatewayURL != "",
		)
		if comment.LanguageMatched(cfg.Lang) {
			logger.Info("comment language ok", "lang", cfg.Lang)
		} else {
			logger.Warn("comment language is not supported; English will be used", "lang", cfg.Lang, "supported", comment.SupportedLanguages())
		}
		if _, err := comment.NewRenderer(comment.Options{Marker: cfg.Marker, Lang: cfg.Lang, Title: cfg.Title, Template: cfg.Template}); err != nil {
			fail("comment template check failed", err)
		} else {
			logger.Info("comment template check ok")
		}
	}

	ev, err := ghcontext.FromAction(sess.action)
	if err != nil {
		fail("event check failed", err)
	} else {
		logger.Info("event check ok", "repository", ev.Repository(), "event", ev.EventName, "kind", ev.Kind)

		branch, err := resolver.ResolveBranchName(ev)
		if err != nil {
			fail("branch check failed", err)
		} else {
			logger.Info("branch check ok", "branch", branch)
		}

		if ev.IssueNumber > 0 {
			logger.Info("issue number check ok", "issue", ev.IssueNumber)
		} else {
			logger.Warn("event carries no issue number; the pull request will be looked up by commit", "sha", ev.SHA)
		}
	}

	if len(fatalErrs) > 0 {
		return fmt.Errorf("doctor found %d fatal issue(s); see log for details", len(fatalErrs))
	}

	return nil
}
