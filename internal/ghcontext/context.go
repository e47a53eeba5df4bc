// Package ghcontext captures the CI event a run reacts to. It is the only place that reads
// the runner environment and event payload; everything downstream works on EventContext values.
package ghcontext

import (
	"fmt"
	"strings"

	"github.com/sethvargo/go-githubactions"

	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
)

// EventKind is the coarse event category the resolver dispatches on.
type EventKind int

const (
	// EventOther covers events without special branch handling (workflow_dispatch, release...).
	EventOther EventKind = iota
	// EventPullRequest covers pull_request and pull_request_target.
	EventPullRequest
	// EventPush covers push.
	EventPush
)

func (k EventKind) String() string {
	switch k {
	case EventPullRequest:
		return "pull_request"
	case EventPush:
		return "push"
	default:
		return "other"
	}
}

// KindOf maps a runner event name onto an EventKind.
func KindOf(eventName string) EventKind {
	switch strings.TrimSpace(eventName) {
	case "pull_request", "pull_request_target":
		return EventPullRequest
	case "push":
		return EventPush
	default:
		return EventOther
	}
}

// EventContext is the read-only input of a run.
type EventContext struct {
	Owner     string
	Repo      string
	EventName string
	Kind      EventKind
	// Ref is the full git ref, e.g. refs/heads/main or refs/tags/v1.
	Ref string
	// HeadRef is the source branch of a pull request event.
	HeadRef string
	SHA     string
	// IssueNumber is the issue or pull request number carried by the event, 0 when absent.
	IssueNumber int
	// APIURL is the REST endpoint, differing from api.github.com on GitHub Enterprise Server.
	APIURL string
}

// Repository returns owner/repo.
func (e EventContext) Repository() string {
	return e.Owner + "/" + e.Repo
}

// FromAction builds an EventContext from the runner environment and event payload of action.
func FromAction(action *githubactions.Action) (EventContext, error) {
	gh, err := action.Context()
	if err != nil {
		return EventContext{}, apperrors.ErrMissingConfiguration.
			WithMessage("failed to read the workflow event").
			WithError(err)
	}
	return New(gh)
}

// New builds an EventContext from an already parsed runner context.
func New(gh *githubactions.GitHubContext) (EventContext, error) {
	owner, repo := gh.Repo()
	if owner == "" || repo == "" {
		return EventContext{}, apperrors.ErrMissingConfiguration.
			WithMessage(fmt.Sprintf("invalid repository %q, expected owner/repo", gh.Repository)).
			WithSuggestion("Set GITHUB_REPOSITORY when running outside of GitHub Actions")
	}

	headRef := strings.TrimSpace(gh.HeadRef)
	if headRef == "" {
		headRef = stringAt(gh.Event, "pull_request", "head", "ref")
	}

	apiURL := strings.TrimSpace(gh.APIURL)
	if apiURL == "" {
		apiURL = "https://api.github.com"
	}

	return EventContext{
		Owner:       owner,
		Repo:        repo,
		EventName:   gh.EventName,
		Kind:        KindOf(gh.EventName),
		Ref:         gh.Ref,
		HeadRef:     headRef,
		SHA:         gh.SHA,
		IssueNumber: IssueNumberFromEvent(gh.Event),
		APIURL:      apiURL,
	}, nil
}

// IssueNumberFromEvent returns issue.number, pull_request.number or the top-level number of
// an event payload, in that order, or 0 when none is present.
func IssueNumberFromEvent(event map[string]any) int {
	for _, path := range [][]string{{"issue", "number"}, {"pull_request", "number"}, {"number"}} {
		if n := intAt(event, path...); n > 0 {
			return n
		}
	}
	return 0
}

func lookup(event map[string]any, path ...string) (any, bool) {
	var cur any = event
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func intAt(event map[string]any, path ...string) int {
	v, ok := lookup(event, path...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func stringAt(event map[string]any, path ...string) string {
	v, ok := lookup(event, path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
