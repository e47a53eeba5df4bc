// Package githubapi implements the issue comment and pull request lookups on top of the GitHub REST API.
package githubapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
)

const defaultAPIURL = "https://api.github.com"

// IssuesService is the subset of github.IssuesService the client uses.
type IssuesService interface {
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
	EditComment(ctx context.Context, owner, repo string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// PullRequestsService is the subset of github.PullRequestsService the client uses.
type PullRequestsService interface {
	ListPullRequestsWithCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) ([]*github.PullRequest, *github.Response, error)
}

// CallObserver is notified after every API call. It is used for metrics.
type CallObserver interface {
	ObserveCall(operation string, err error)
}

// Client talks to the GitHub REST API for one repository.
type Client struct {
	logger   *slog.Logger
	issues   IssuesService
	pulls    PullRequestsService
	observer CallObserver
	owner    string
	repo     string
}

// Option configures a Client.
type Option func(*Client)

// WithObserver registers a CallObserver.
func WithObserver(o CallObserver) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient builds a token-authenticated client. apiURL selects a GitHub Enterprise Server
// endpoint when it differs from api.github.com.
func NewClient(ctx context.Context, logger *slog.Logger, token, apiURL, owner, repo string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(repo) == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", owner+"/"+repo)
	}

	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	gh := github.NewClient(httpClient)
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL != "" && apiURL != defaultAPIURL {
		var err error
		gh, err = gh.WithEnterpriseURLs(apiURL+"/", apiURL+"/")
		if err != nil {
			return nil, fmt.Errorf("configure GitHub Enterprise URL %q: %w", apiURL, err)
		}
	}

	return NewClientWithServices(logger, gh.Issues, gh.PullRequests, owner, repo, opts...), nil
}

// NewClientWithServices builds a client on explicit services, which tests replace with fakes.
func NewClientWithServices(logger *slog.Logger, issues IssuesService, pulls PullRequestsService, owner, repo string, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		logger: logger,
		issues: issues,
		pulls:  pulls,
		owner:  owner,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAssociatedPullRequests returns the numbers of pull requests associated with sha.
func (c *Client) ListAssociatedPullRequests(ctx context.Context, sha string) ([]int, error) {
	prs, resp, err := c.pulls.ListPullRequestsWithCommit(ctx, c.owner, c.repo, sha, &github.ListOptions{PerPage: MaxPerPage})
	c.observe("list_associated_pull_requests", err)
	if err != nil {
		return nil, c.wrap(err, resp, "list pull requests associated with commit").WithContext("sha", sha)
	}

	numbers := make([]int, 0, len(prs))
	for _, pr := range prs {
		if pr.GetNumber() > 0 {
			numbers = append(numbers, pr.GetNumber())
		}
	}
	return numbers, nil
}

// ListIssueComments returns the first page of comments on an issue. perPage is capped at MaxPerPage.
func (c *Client) ListIssueComments(ctx context.Context, number, perPage int) ([]IssueComment, error) {
	if number <= 0 {
		return nil, fmt.Errorf("issue number must be positive")
	}
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	c.logger.Debug("listing issue comments", "repo", c.owner+"/"+c.repo, "issue", number, "per_page", perPage)
	comments, resp, err := c.issues.ListComments(ctx, c.owner, c.repo, number, &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	c.observe("list_issue_comments", err)
	if err != nil {
		return nil, c.wrap(err, resp, "list issue comments").WithContext("issue", number)
	}

	out := make([]IssueComment, 0, len(comments))
	for _, cm := range comments {
		out = append(out, IssueComment{
			ID:     cm.GetID(),
			Body:   cm.GetBody(),
			Author: cm.GetUser().GetLogin(),
			URL:    cm.GetHTMLURL(),
		})
	}
	return out, nil
}

// CreateIssueComment posts a new comment and returns its ID.
func (c *Client) CreateIssueComment(ctx context.Context, number int, body string) (int64, error) {
	created, resp, err := c.issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{Body: github.Ptr(body)})
	c.observe("create_issue_comment", err)
	if err != nil {
		return 0, c.wrap(err, resp, "create issue comment").WithContext("issue", number)
	}
	return created.GetID(), nil
}

// UpdateIssueComment replaces the body of an existing comment and returns its ID.
func (c *Client) UpdateIssueComment(ctx context.Context, commentID int64, body string) (int64, error) {
	updated, resp, err := c.issues.EditComment(ctx, c.owner, c.repo, commentID, &github.IssueComment{Body: github.Ptr(body)})
	c.observe("update_issue_comment", err)
	if err != nil {
		return 0, c.wrap(err, resp, "update issue comment").WithContext("comment_id", commentID)
	}
	return updated.GetID(), nil
}

func (c *Client) observe(operation string, err error) {
	if c.observer != nil {
		c.observer.ObserveCall(operation, err)
	}
}

// wrap converts an API failure into a RemoteAPIFailure with status specific hints.
func (c *Client) wrap(err error, resp *github.Response, operation string) *apperrors.AppError {
	appErr := apperrors.ErrRemoteAPIFailure.
		WithError(err).
		WithContext("operation", operation).
		WithContext("repo", c.owner+"/"+c.repo)

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return appErr.
			WithContext("reset", rateErr.Rate.Reset.Time.String()).
			WithSuggestion("GitHub API rate limit exceeded; re-run the job after the reset time")
	}

	if resp == nil || resp.Response == nil {
		return appErr
	}

	appErr = appErr.WithContext("status", resp.StatusCode)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return appErr.WithSuggestion("Check that github-token is valid")
	case http.StatusForbidden:
		return appErr.WithSuggestion("Grant the workflow token issues: write and pull-requests: read permissions")
	case http.StatusNotFound:
		return appErr.WithSuggestion("Check the repository and issue exist and the token can access them")
	case http.StatusTooManyRequests:
		return appErr.
			WithContext("retry_after", resp.Header.Get("Retry-After")).
			WithSuggestion("GitHub API rate limit exceeded; re-run the job later")
	}
	return appErr
}
