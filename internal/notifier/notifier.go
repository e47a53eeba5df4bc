// Package notifier runs one publish cycle: resolve the target, render the comment,
// upsert it and publish outputs.
package notifier

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/comment"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/config"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghoutput"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/resolver"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/upsert"
)

// Output names published after a successful run.
const (
	OutputSuccess       = "success"
	OutputCommentID     = "comment-id"
	OutputCommentAction = "comment-action"
	OutputBranchName    = "branch-name"
	OutputStorybookURL  = "storybook-url"
	OutputBuildURL      = "build-url"
)

// API is the GitHub surface a run needs.
type API interface {
	resolver.PullRequestLookup
	upsert.CommentsAPI
}

// Outputs receives step outputs and the job summary.
type Outputs interface {
	ghoutput.Setter
	ghoutput.SummaryWriter
}

// UpsertObserver is notified of the upsert outcome.
type UpsertObserver interface {
	ObserveUpsert(action string)
	MarkSuccess()
}

// Deps are the collaborators of a run.
type Deps struct {
	Logger  *slog.Logger
	Event   ghcontext.EventContext
	Config  config.Config
	API     API
	Outputs Outputs
	// Observer is optional.
	Observer UpsertObserver
}

// Report summarizes a finished run.
type Report struct {
	Target resolver.ResolvedTarget
	Body   string
	Result upsert.Result
}

// Prepare resolves the target and renders the comment body without mutating anything.
func Prepare(ctx context.Context, logger *slog.Logger, ev ghcontext.EventContext, cfg config.Config, lookup resolver.PullRequestLookup) (resolver.ResolvedTarget, string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := comment.NewRenderer(comment.Options{
		Marker:   cfg.Marker,
		Lang:     cfg.Lang,
		Title:    cfg.Title,
		Template: cfg.Template,
	})
	if err != nil {
		return resolver.ResolvedTarget{}, "", err
	}
	if !comment.LanguageMatched(cfg.Lang) {
		logger.Warn("unsupported comment language, using fallback", "lang", cfg.Lang, "using", renderer.Language())
	}

	target, err := resolver.Resolve(ctx, logger, ev, cfg, lookup)
	if err != nil {
		return resolver.ResolvedTarget{}, "", err
	}
	logger.Debug("resolved target",
		"issue", target.IssueNumber,
		"branch", target.BranchName,
		"storybook_url", target.StorybookURL,
		"build_url", target.BuildURL,
	)

	body, err := renderer.Render(target)
	if err != nil {
		return resolver.ResolvedTarget{}, "", err
	}
	return target, body, nil
}

// Run executes a full cycle. Outputs are written only when every step succeeded.
func Run(ctx context.Context, deps Deps) (Report, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	target, body, err := Prepare(ctx, logger, deps.Event, deps.Config, deps.API)
	if err != nil {
		return Report{}, err
	}

	res, err := upsert.NewEngine(deps.API, logger).Upsert(ctx, target.IssueNumber, body, deps.Config.Marker)
	if err != nil {
		return Report{}, err
	}

	if deps.Observer != nil {
		deps.Observer.ObserveUpsert(string(res.Action))
		deps.Observer.MarkSuccess()
	}

	ghoutput.Write(deps.Outputs, outputValues(target, res))
	if res.Action != upsert.ActionSkipped {
		ghoutput.Summary(deps.Outputs, body)
	}

	logger.Info("storybook link comment published",
		"repository", target.Repository,
		"issue", target.IssueNumber,
		"action", res.Action,
		"comment_id", res.CommentID,
	)
	return Report{Target: target, Body: body, Result: res}, nil
}

func outputValues(t resolver.ResolvedTarget, res upsert.Result) map[string]string {
	values := map[string]string{
		OutputSuccess:       "true",
		OutputCommentAction: string(res.Action),
		OutputBranchName:    t.BranchName,
		OutputStorybookURL:  t.StorybookURL,
		OutputBuildURL:      t.BuildURL,
	}
	if res.CommentID != 0 {
		values[OutputCommentID] = strconv.FormatInt(res.CommentID, 10)
	}
	return values
}
