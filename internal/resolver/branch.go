package resolver

import (
	"strings"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
)

// MaxBranchLength bounds branch names so that "<branch>--<appId>" fits a DNS label on the preview host.
const MaxBranchLength = 37

// BranchFromRef drops the first two segments of a ref ("refs/<kind>/") and rejoins the rest,
// so names containing "/" survive: refs/heads/feature/a -> feature/a.
func BranchFromRef(ref string) string {
	parts := strings.Split(ref, "/")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[2:], "/")
}

// NormalizeBranch removes the first "refs/heads/", replaces only the first "/" with "-"
// and truncates to MaxBranchLength runes.
func NormalizeBranch(name string) string {
	name = strings.Replace(name, "refs/heads/", "", 1)
	name = strings.Replace(name, "/", "-", 1)
	if r := []rune(name); len(r) > MaxBranchLength {
		name = string(r[:MaxBranchLength])
	}
	return name
}

// ResolveBranchName picks the raw branch by event kind and normalizes it.
// Pull request events use the head ref; everything else parses the ref.
func ResolveBranchName(ev ghcontext.EventContext) (string, error) {
	var raw string
	switch ev.Kind {
	case ghcontext.EventPullRequest:
		raw = ev.HeadRef
	default:
		raw = BranchFromRef(ev.Ref)
	}

	branch := NormalizeBranch(raw)
	if branch == "" {
		return "", apperrors.ErrMissingBranchName.
			WithContext("event", ev.EventName).
			WithContext("ref", ev.Ref)
	}
	return branch, nil
}
