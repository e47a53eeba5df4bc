// Package errors defines the terminal error kinds a notifier run can fail with.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Kind categorizes an AppError. Two AppErrors match with errors.Is when their kinds are equal.
type Kind string

const (
	KindMissingConfiguration Kind = "MISSING_CONFIGURATION"
	KindMissingIssueNumber   Kind = "MISSING_ISSUE_NUMBER"
	KindMissingBranchName    Kind = "MISSING_BRANCH_NAME"
	KindRemoteAPIFailure     Kind = "REMOTE_API_FAILURE"
	KindInvalidConfigFile    Kind = "INVALID_CONFIG_FILE"
	KindRender               Kind = "RENDER"
)

// AppError is a domain-level error with a kind, optional cause and operator hints.
type AppError struct {
	Kind       Kind
	Message    string
	Context    map[string]any
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		fmt.Fprintf(&sb, " (%s)", strings.Join(parts, ", "))
	}
	return sb.String()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithError returns a copy of e wrapping err.
func (e *AppError) WithError(err error) *AppError {
	out := e.clone()
	out.Err = err
	return out
}

// WithContext returns a copy of e with key set to value.
func (e *AppError) WithContext(key string, value any) *AppError {
	out := e.clone()
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	out.Context = ctx
	return out
}

// WithSuggestion returns a copy of e carrying an operator hint.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	out := e.clone()
	out.Suggestion = suggestion
	return out
}

// WithMessage returns a copy of e with a more specific message.
func (e *AppError) WithMessage(msg string) *AppError {
	out := e.clone()
	out.Message = msg
	return out
}

func (e *AppError) clone() *AppError {
	return &AppError{
		Kind:       e.Kind,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

// New creates an AppError.
func New(kind Kind, msg string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: msg,
		Err:     err,
	}
}

var (
	ErrMissingConfiguration = New(KindMissingConfiguration, "missing configuration", nil).
				WithSuggestion("Set app-id, or both build-url and storybook-url, and pass github-token")

	ErrMissingIssueNumber = New(KindMissingIssueNumber,
		"No issue number found preventing any comment from being added or updated. "+
			"This will happen if your action is ran on push and an associated PR is not found", nil).
		WithSuggestion("Run on pull_request events, or push to a branch that has an open pull request")

	ErrMissingBranchName = New(KindMissingBranchName, "Could not find branch name", nil)

	ErrRemoteAPIFailure = New(KindRemoteAPIFailure, "GitHub API request failed", nil)

	ErrInvalidConfigFile = New(KindInvalidConfigFile, "invalid config file", nil).
				WithSuggestion("Use a .yml, .yaml or .toml file with previewHost, marker, title, templateFile or lang keys")

	ErrRender = New(KindRender, "failed to render comment", nil)
)

// KindOf returns the kind of the first AppError in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// SuggestionOf returns the first non-empty suggestion found in err's chain.
func SuggestionOf(err error) string {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Suggestion != "" {
			return appErr.Suggestion
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}
