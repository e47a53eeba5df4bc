package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/config"
	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/ghcontext"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/githubapi"
)

type fakeAPI struct {
	prs      []int
	prErr    error
	comments []githubapi.IssueComment
	listErr  error
	nextID   int64
	creates  int
	updates  int
	lookups  int
}

func (f *fakeAPI) ListAssociatedPullRequests(_ context.Context, _ string) ([]int, error) {
	f.lookups++
	return f.prs, f.prErr
}

func (f *fakeAPI) ListIssueComments(_ context.Context, _ int, perPage int) ([]githubapi.IssueComment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.comments) > perPage {
		return f.comments[:perPage], nil
	}
	return f.comments, nil
}

func (f *fakeAPI) CreateIssueComment(_ context.Context, _ int, body string) (int64, error) {
	f.creates++
	f.nextID++
	f.comments = append(f.comments, githubapi.IssueComment{ID: f.nextID, Body: body})
	return f.nextID, nil
}

func (f *fakeAPI) UpdateIssueComment(_ context.Context, id int64, body string) (int64, error) {
	f.updates++
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments[i].Body = body
		}
	}
	return id, nil
}

type fakeOutputs struct {
	values  map[string]string
	summary []string
}

func (f *fakeOutputs) SetOutput(key, value string) {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
}

func (f *fakeOutputs) AddStepSummary(markdown string) {
	f.summary = append(f.summary, markdown)
}

type fakeObserver struct {
	actions []string
	success int
}

func (f *fakeObserver) ObserveUpsert(action string) { f.actions = append(f.actions, action) }
func (f *fakeObserver) MarkSuccess()                { f.success++ }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig() config.Config {
	return config.Config{
		Token:       "t0ken",
		AppID:       config.Some("myapp123"),
		PreviewHost: config.DefaultPreviewHost,
		Marker:      config.DefaultMarker,
		Lang:        config.DefaultLang,
	}
}

func prEvent() ghcontext.EventContext {
	return ghcontext.EventContext{
		Owner:       "octo",
		Repo:        "site",
		EventName:   "pull_request",
		Kind:        ghcontext.EventPullRequest,
		Ref:         "refs/pull/42/merge",
		HeadRef:     "feature-x",
		SHA:         "0123456789abcdef",
		IssueNumber: 42,
	}
}

func TestRun_CreatesThenUpdates(t *testing.T) {
	api := &fakeAPI{nextID: 100}
	obs := &fakeObserver{}

	out := &fakeOutputs{}
	rep, err := Run(context.Background(), Deps{
		Logger:   quietLogger(),
		Event:    prEvent(),
		Config:   baseConfig(),
		API:      api,
		Outputs:  out,
		Observer: obs,
	})
	require.NoError(t, err)

	assert.Equal(t, "created", string(rep.Result.Action))
	assert.Equal(t, "true", out.values[OutputSuccess])
	assert.Equal(t, "101", out.values[OutputCommentID])
	assert.Equal(t, "created", out.values[OutputCommentAction])
	assert.Equal(t, "feature-x", out.values[OutputBranchName])
	assert.Equal(t, "https://feature-x--myapp123.chromatic.com", out.values[OutputStorybookURL])
	assert.Equal(t, "https://chromatic.com/build?appId=myapp123", out.values[OutputBuildURL])
	require.Len(t, out.summary, 1)
	assert.True(t, strings.HasPrefix(rep.Body, config.DefaultMarker))

	out2 := &fakeOutputs{}
	rep2, err := Run(context.Background(), Deps{
		Logger:   quietLogger(),
		Event:    prEvent(),
		Config:   baseConfig(),
		API:      api,
		Outputs:  out2,
		Observer: obs,
	})
	require.NoError(t, err)

	assert.Equal(t, "updated", string(rep2.Result.Action))
	assert.Equal(t, "101", out2.values[OutputCommentID])
	assert.Equal(t, 1, api.creates)
	assert.Equal(t, 1, api.updates)
	assert.Len(t, api.comments, 1)
	assert.Equal(t, []string{"created", "updated"}, obs.actions)
	assert.Equal(t, 2, obs.success)
	assert.Zero(t, api.lookups)
}

func TestRun_PushUsesAssociatedPullRequest(t *testing.T) {
	api := &fakeAPI{prs: []int{9, 3}}
	ev := ghcontext.EventContext{
		Owner:     "octo",
		Repo:      "site",
		EventName: "push",
		Kind:      ghcontext.EventPush,
		Ref:       "refs/heads/feature/login-page",
		SHA:       "abc",
	}
	out := &fakeOutputs{}

	rep, err := Run(context.Background(), Deps{Logger: quietLogger(), Event: ev, Config: baseConfig(), API: api, Outputs: out})
	require.NoError(t, err)

	assert.Equal(t, 9, rep.Target.IssueNumber)
	assert.Equal(t, "feature-login-page", out.values[OutputBranchName])
	assert.Equal(t, 1, api.lookups)
}

func TestRun_SkippedFullPageWritesNoSummary(t *testing.T) {
	api := &fakeAPI{}
	for i := 0; i < githubapi.MaxPerPage; i++ {
		api.comments = append(api.comments, githubapi.IssueComment{ID: int64(i + 1), Body: "lgtm"})
	}
	out := &fakeOutputs{}

	rep, err := Run(context.Background(), Deps{Logger: quietLogger(), Event: prEvent(), Config: baseConfig(), API: api, Outputs: out})
	require.NoError(t, err)

	assert.Equal(t, "skipped", string(rep.Result.Action))
	assert.Equal(t, "true", out.values[OutputSuccess])
	assert.NotContains(t, out.values, OutputCommentID)
	assert.Empty(t, out.summary)
	assert.Zero(t, api.creates+api.updates)
}

func TestRun_FailuresWriteNoOutputs(t *testing.T) {
	tests := []struct {
		name   string
		cfg    func() config.Config
		ev     func() ghcontext.EventContext
		api    *fakeAPI
		wantIs error
	}{
		{
			name:   "missing token",
			cfg:    func() config.Config { c := baseConfig(); c.Token = ""; return c },
			ev:     prEvent,
			api:    &fakeAPI{},
			wantIs: apperrors.ErrMissingConfiguration,
		},
		{
			name: "no associated pull request",
			cfg:  baseConfig,
			ev: func() ghcontext.EventContext {
				ev := prEvent()
				ev.Kind, ev.EventName, ev.IssueNumber, ev.Ref = ghcontext.EventPush, "push", 0, "refs/heads/main"
				return ev
			},
			api:    &fakeAPI{},
			wantIs: apperrors.ErrMissingIssueNumber,
		},
		{
			name:   "list comments failure",
			cfg:    baseConfig,
			ev:     prEvent,
			api:    &fakeAPI{listErr: apperrors.ErrRemoteAPIFailure.WithError(errors.New("502"))},
			wantIs: apperrors.ErrRemoteAPIFailure,
		},
		{
			name:   "bad custom template",
			cfg:    func() config.Config { c := baseConfig(); c.Template = "{{ .Nope "; return c },
			ev:     prEvent,
			api:    &fakeAPI{},
			wantIs: apperrors.ErrRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &fakeOutputs{}
			_, err := Run(context.Background(), Deps{Logger: quietLogger(), Event: tt.ev(), Config: tt.cfg(), API: tt.api, Outputs: out})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Empty(t, out.values)
			assert.Empty(t, out.summary)
			assert.Zero(t, tt.api.creates+tt.api.updates)
		})
	}
}

func TestPrepare_DoesNotMutate(t *testing.T) {
	api := &fakeAPI{}
	target, body, err := Prepare(context.Background(), quietLogger(), prEvent(), baseConfig(), api)
	require.NoError(t, err)

	assert.Equal(t, 42, target.IssueNumber)
	assert.Contains(t, body, "https://feature-x--myapp123.chromatic.com")
	assert.Zero(t, api.creates+api.updates)
}
