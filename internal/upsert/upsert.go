// Package upsert keeps exactly one marked comment on an issue up to date.
package upsert

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/githubapi"
)

// PageSize is the number of comments scanned. A full page without a match is treated as ambiguous.
const PageSize = githubapi.MaxPerPage

// Action is the outcome of an upsert.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped"
)

// CommentsAPI is the remote collaborator the engine needs.
type CommentsAPI interface {
	ListIssueComments(ctx context.Context, number, perPage int) ([]githubapi.IssueComment, error)
	CreateIssueComment(ctx context.Context, number int, body string) (int64, error)
	UpdateIssueComment(ctx context.Context, commentID int64, body string) (int64, error)
}

// Result describes what the engine did.
type Result struct {
	Action Action
	// CommentID is the created or updated comment, 0 when skipped.
	CommentID int64
	// Scanned is the number of comments inspected.
	Scanned int
}

// Engine finds, creates or updates the marked comment.
type Engine struct {
	api    CommentsAPI
	logger *slog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(api CommentsAPI, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{api: api, logger: logger}
}

// FindMarked returns the first comment whose body contains marker.
func FindMarked(comments []githubapi.IssueComment, marker string) (githubapi.IssueComment, bool) {
	for _, c := range comments {
		if strings.Contains(c.Body, marker) {
			return c, true
		}
	}
	return githubapi.IssueComment{}, false
}

// Upsert makes sure issue carries one comment with marker and body. It issues at most one
// mutating call: update when a marked comment exists, create when the page is not full,
// nothing otherwise since a match may exist past the first page.
func (e *Engine) Upsert(ctx context.Context, issue int, body, marker string) (Result, error) {
	comments, err := e.api.ListIssueComments(ctx, issue, PageSize)
	if err != nil {
		return Result{}, err
	}

	existing, found := FindMarked(comments, marker)
	switch {
	case found:
		e.logger.Info("updating existing comment", "issue", issue, "comment_id", existing.ID)
		id, err := e.api.UpdateIssueComment(ctx, existing.ID, body)
		if err != nil {
			return Result{}, err
		}
		return Result{Action: ActionUpdated, CommentID: id, Scanned: len(comments)}, nil

	case len(comments) < PageSize:
		e.logger.Info("creating comment", "issue", issue)
		e.logger.Debug("comment body", "body", body)
		id, err := e.api.CreateIssueComment(ctx, issue, body)
		if err != nil {
			return Result{}, err
		}
		return Result{Action: ActionCreated, CommentID: id, Scanned: len(comments)}, nil

	default:
		e.logger.Warn("no marked comment on the first page and the page is full; leaving comments untouched",
			"issue", issue,
			"comments", len(comments),
			"page_size", PageSize,
		)
		return Result{Action: ActionSkipped, Scanned: len(comments)}, nil
	}
}
