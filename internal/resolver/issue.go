package resolver

import (
	"context"
	"log/slog"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
)

// PullRequestLookup finds pull requests associated with a commit.
type PullRequestLookup interface {
	ListAssociatedPullRequests(ctx context.Context, sha string) ([]int, error)
}

// ResolveIssueNumber returns the event's issue number, falling back to the first pull request
// associated with the event commit. The fallback is the only network read of the resolver.
func ResolveIssueNumber(ctx context.Context, logger *slog.Logger, ev ghcontext.EventContext, lookup PullRequestLookup) (int, error) {
	if ev.IssueNumber > 0 {
		return ev.IssueNumber, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("event carries no issue number, looking up pull requests for commit", "sha", ev.SHA)
	numbers, err := lookup.ListAssociatedPullRequests(ctx, ev.SHA)
	if err != nil {
		logger.Error("associated pull request lookup failed", "sha", ev.SHA, "error", err)
		return 0, apperrors.ErrMissingIssueNumber.WithError(err).WithContext("sha", ev.SHA)
	}
	if len(numbers) == 0 {
		return 0, apperrors.ErrMissingIssueNumber.WithContext("sha", ev.SHA)
	}

	logger.Debug("resolved issue number from associated pull request", "issue", numbers[0], "candidates", len(numbers))
	return numbers[0], nil
}
