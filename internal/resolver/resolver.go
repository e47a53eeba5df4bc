// Package resolver derives the comment target (issue, branch and preview links) from an event.
package resolver

import (
	"context"
	"log/slog"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/config"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
)

// ResolvedTarget is everything the comment template needs.
type ResolvedTarget struct {
	IssueNumber int
	BranchName  string
	URLs
	// SHA and Repository are carried for templating.
	SHA        string
	Repository string
}

// Resolve validates cfg, then derives branch, issue number and links, in that order.
// No network call happens before validation and branch resolution succeed.
func Resolve(ctx context.Context, logger *slog.Logger, ev ghcontext.EventContext, cfg config.Config, lookup PullRequestLookup) (ResolvedTarget, error) {
	if err := cfg.Validate(); err != nil {
		return ResolvedTarget{}, err
	}

	branch, err := ResolveBranchName(ev)
	if err != nil {
		return ResolvedTarget{}, err
	}

	issue, err := ResolveIssueNumber(ctx, logger, ev, lookup)
	if err != nil {
		return ResolvedTarget{}, err
	}

	urls := BuildURLs(cfg.AppID, branch, Overrides{
		BuildURL:     cfg.BuildURL,
		StorybookURL: cfg.StorybookURL,
		ReviewURL:    cfg.ReviewURL,
	}, cfg.PreviewHost)

	return ResolvedTarget{
		IssueNumber: issue,
		BranchName:  branch,
		URLs:        urls,
		SHA:         ev.SHA,
		Repository:  ev.Repository(),
	}, nil
}
