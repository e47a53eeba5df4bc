// Package config turns action inputs and the optional settings file into a validated Config.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-githubactions"

	"github.com/dannyhw/storybook-chromatic-link-comment/internal/env"
	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
)

// Action input names.
const (
	InputGitHubToken    = "github-token"
	InputAppID          = "app-id"
	InputBuildURL       = "build-url"
	InputStorybookURL   = "storybook-url"
	InputReviewURL      = "review-url"
	InputConfigFile     = "config-file"
	InputCommentLang    = "comment-lang"
	InputPushgatewayURL = "metrics-pushgateway-url"
)

const (
	// DefaultPreviewHost is the domain branch previews are served from.
	DefaultPreviewHost = "chromatic.com"
	// DefaultMarker identifies the comment this tool owns.
	DefaultMarker = "<!-- Created by storybook-link-comment -->"
	// DefaultLang is the comment language used when none is configured.
	DefaultLang = "en"
)

// Inputs holds raw action inputs with presence preserved.
type Inputs struct {
	GitHubToken    Optional
	AppID          Optional
	BuildURL       Optional
	StorybookURL   Optional
	ReviewURL      Optional
	ConfigFile     Optional
	CommentLang    Optional
	PushgatewayURL Optional
}

// Config is the validated configuration of a single run.
type Config struct {
	// Token authenticates against the GitHub API.
	Token string
	// AppID is the preview host application identifier.
	AppID Optional
	// BuildURL overrides the default build link.
	BuildURL Optional
	// StorybookURL overrides the default storybook link.
	StorybookURL Optional
	// ReviewURL adds an optional review link.
	ReviewURL Optional
	// PreviewHost is the domain used for branch previews.
	PreviewHost string
	// Marker identifies our comment among all issue comments.
	Marker string
	// Title overrides the comment heading.
	Title string
	// Template is a custom comment template; empty selects the builtin one.
	Template string
	// Lang selects the comment language.
	Lang string
	// PushgatewayURL enables pushing run metrics when not empty.
	PushgatewayURL string
}

// InputEnvKey returns the environment variable a runner uses for an action input.
func InputEnvKey(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// inputNames lists every known input.
var inputNames = []string{
	InputGitHubToken,
	InputAppID,
	InputBuildURL,
	InputStorybookURL,
	InputReviewURL,
	InputConfigFile,
	InputCommentLang,
	InputPushgatewayURL,
}

// WithInputAliases returns a copy of vars where inputs spelled with underscores
// (INPUT_APP_ID, as .env files require) also appear under the runner key (INPUT_APP-ID).
// The runner key wins when both are present.
func WithInputAliases(vars env.Vars) env.Vars {
	out := env.Merge(vars)
	for _, name := range inputNames {
		key := InputEnvKey(name)
		alias := strings.ReplaceAll(key, "-", "_")
		if alias == key {
			continue
		}
		if _, ok := out.Lookup(key); ok {
			continue
		}
		if v, ok := out.Lookup(alias); ok {
			out[key] = v
		}
	}
	return out
}

// ReadInputs reads all known inputs. Values come from the action (trimmed as the runner toolkit does);
// presence comes from vars so "unset" and "set to empty" stay distinguishable.
func ReadInputs(action *githubactions.Action, vars env.Vars) Inputs {
	read := func(name string) Optional {
		if _, ok := vars.Lookup(InputEnvKey(name)); !ok {
			return None()
		}
		return Some(action.GetInput(name))
	}
	return Inputs{
		GitHubToken:    read(InputGitHubToken),
		AppID:          read(InputAppID),
		BuildURL:       read(InputBuildURL),
		StorybookURL:   read(InputStorybookURL),
		ReviewURL:      read(InputReviewURL),
		ConfigFile:     read(InputConfigFile),
		CommentLang:    read(InputCommentLang),
		PushgatewayURL: read(InputPushgatewayURL),
	}
}

// Load builds a Config from inputs, reading the settings file (relative paths resolve against baseDir).
// The result is validated.
func Load(in Inputs, baseDir string) (Config, error) {
	cfg := Config{
		Token:          in.GitHubToken.Value,
		AppID:          in.AppID,
		BuildURL:       in.BuildURL,
		StorybookURL:   in.StorybookURL,
		ReviewURL:      in.ReviewURL,
		PreviewHost:    DefaultPreviewHost,
		Marker:         DefaultMarker,
		Lang:           DefaultLang,
		PushgatewayURL: in.PushgatewayURL.Value,
	}

	if in.ConfigFile.NonEmpty() {
		path := in.ConfigFile.Value
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		settings, err := LoadSettings(path)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.apply(settings, filepath.Dir(path)); err != nil {
			return Config{}, err
		}
	}

	cfg.Lang = in.CommentLang.OrElse(cfg.Lang)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(s Settings, dir string) error {
	if v := strings.TrimSpace(s.PreviewHost); v != "" {
		c.PreviewHost = strings.TrimSuffix(strings.TrimPrefix(v, "https://"), "/")
	}
	if v := strings.TrimSpace(s.Marker); v != "" {
		c.Marker = v
	}
	if v := strings.TrimSpace(s.Title); v != "" {
		c.Title = v
	}
	if v := strings.TrimSpace(s.Lang); v != "" {
		c.Lang = v
	}
	if v := strings.TrimSpace(s.TemplateFile); v != "" {
		if !filepath.IsAbs(v) {
			v = filepath.Join(dir, v)
		}
		raw, err := os.ReadFile(v)
		if err != nil {
			return apperrors.ErrInvalidConfigFile.WithError(err).WithContext("template", v)
		}
		c.Template = string(raw)
	}
	return nil
}

// Validate checks the configuration. It never touches the network.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return apperrors.ErrMissingConfiguration.WithMessage("github-token is required")
	}
	if !c.AppID.NonEmpty() && !(c.BuildURL.NonEmpty() && c.StorybookURL.NonEmpty()) {
		return apperrors.ErrMissingConfiguration.WithMessage("app-id is required unless both build-url and storybook-url are set")
	}
	if strings.TrimSpace(c.Marker) == "" {
		return apperrors.ErrMissingConfiguration.WithMessage("comment marker must not be empty")
	}
	return nil
}
