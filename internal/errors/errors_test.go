package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("connection reset")
	appErr := ErrRemoteAPIFailure.WithError(baseErr)

	assert.Same(t, baseErr, appErr.Err)
	assert.Equal(t, KindRemoteAPIFailure, appErr.Kind)
	assert.Nil(t, ErrRemoteAPIFailure.Err, "sentinel must not be mutated")
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrRemoteAPIFailure.WithContext("operation", "list comments").WithContext("status", 502)

	assert.Equal(t, "list comments", appErr.Context["operation"])
	assert.Equal(t, 502, appErr.Context["status"])
	assert.Empty(t, ErrRemoteAPIFailure.Context)
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  ErrMissingBranchName,
			want: "Could not find branch name",
		},
		{
			name: "with cause",
			err:  ErrRemoteAPIFailure.WithError(errors.New("boom")),
			want: "GitHub API request failed: boom",
		},
		{
			name: "with sorted context",
			err:  ErrRemoteAPIFailure.WithContext("status", 404).WithContext("operation", "create comment"),
			want: "GitHub API request failed (operation=create comment, status=404)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_IsMatchesKind(t *testing.T) {
	remote := ErrRemoteAPIFailure.WithError(errors.New("timeout"))
	missing := ErrMissingIssueNumber.WithError(remote)
	wrapped := fmt.Errorf("resolve target: %w", missing)

	assert.ErrorIs(t, wrapped, ErrMissingIssueNumber)
	assert.ErrorIs(t, wrapped, ErrRemoteAPIFailure)
	assert.NotErrorIs(t, wrapped, ErrMissingBranchName)
	assert.Equal(t, KindMissingIssueNumber, KindOf(wrapped))
}

func TestSuggestionOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrMissingConfiguration.WithMessage("app-id is required"))
	assert.Contains(t, SuggestionOf(err), "app-id")
	assert.Empty(t, SuggestionOf(errors.New("plain")))
	assert.Empty(t, KindOf(errors.New("plain")))
}
