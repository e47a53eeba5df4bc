package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
)

func TestBranchFromRef_IndependentOfKind(t *testing.T) {
	names := []string{"main", "feature/login-page", "a/b/c/d", "release/2024/q1"}
	for _, kind := range []string{"heads", "tags", "pull", "remotes"} {
		for _, name := range names {
			assert.Equal(t, name, BranchFromRef("refs/"+kind+"/"+name), "kind %s", kind)
		}
	}
}

func TestBranchFromRef_TooShort(t *testing.T) {
	assert.Empty(t, BranchFromRef(""))
	assert.Empty(t, BranchFromRef("refs"))
	assert.Empty(t, BranchFromRef("refs/heads"))
	assert.Empty(t, BranchFromRef("refs/heads/"))
}

func TestNormalizeBranch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "main", want: "main"},
		{in: "feature/login-page", want: "feature-login-page"},
		{in: "feature/login/page", want: "feature-login/page"},
		{in: "refs/heads/feature/x", want: "feature-x"},
		{in: "dependabot/npm_and_yarn/storybook-8.0.0", want: "dependabot-npm_and_yarn/storybook-8.0"},
		{in: strings.Repeat("a", 37), want: strings.Repeat("a", 37)},
		{in: strings.Repeat("b", 60), want: strings.Repeat("b", 37)},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBranch(tt.in))
		})
	}
}

func TestNormalizeBranch_Truncation(t *testing.T) {
	for n := 0; n <= 80; n++ {
		in := strings.Repeat("x", n)
		got := NormalizeBranch(in)
		if n > MaxBranchLength {
			assert.Len(t, got, MaxBranchLength)
		} else {
			assert.Equal(t, in, got)
		}
	}
}

func TestNormalizeBranch_TruncatesRunes(t *testing.T) {
	in := strings.Repeat("é", 40)
	got := NormalizeBranch(in)
	assert.Equal(t, MaxBranchLength, len([]rune(got)))
}

func TestNormalizeBranch_IdempotentOnSingleSlashNames(t *testing.T) {
	inputs := []string{
		"main",
		"feature/x",
		"refs/heads/fix/bug-123",
		"renovate/" + strings.Repeat("long", 20),
		"already-normalized",
	}
	for _, in := range inputs {
		once := NormalizeBranch(in)
		assert.Equal(t, once, NormalizeBranch(once), in)
	}
}

func TestResolveBranchName(t *testing.T) {
	tests := []struct {
		name string
		ev   ghcontext.EventContext
		want string
	}{
		{
			name: "push parses ref",
			ev:   ghcontext.EventContext{Kind: ghcontext.EventPush, Ref: "refs/heads/feature/login-page"},
			want: "feature-login-page",
		},
		{
			name: "tag ref",
			ev:   ghcontext.EventContext{Kind: ghcontext.EventOther, Ref: "refs/tags/v1.2.3"},
			want: "v1.2.3",
		},
		{
			name: "pull request uses head ref regardless of ref",
			ev: ghcontext.EventContext{
				Kind:    ghcontext.EventPullRequest,
				Ref:     "refs/pull/42/merge",
				HeadRef: "feature/awesome",
			},
			want: "feature-awesome",
		},
		{
			name: "pull request head ref with refs/heads prefix",
			ev:   ghcontext.EventContext{Kind: ghcontext.EventPullRequest, HeadRef: "refs/heads/topic"},
			want: "topic",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBranchName(tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBranchName_Missing(t *testing.T) {
	cases := []ghcontext.EventContext{
		{Kind: ghcontext.EventPullRequest, Ref: "refs/heads/main"},
		{Kind: ghcontext.EventPush, Ref: "refs/heads"},
		{Kind: ghcontext.EventOther},
	}
	for _, ev := range cases {
		_, err := ResolveBranchName(ev)
		assert.ErrorIs(t, err, apperrors.ErrMissingBranchName)
	}
}
