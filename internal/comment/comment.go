// Package comment renders the markdown body of the preview comment.
package comment

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
	"github.com/dannyhw/storybook-chromatic-link-comment/internal/resolver"
)

//go:embed templates/*.tmpl
var commentTemplates embed.FS

const builtinTemplate = "templates/comment.md.tmpl"

// Options configure a Renderer.
type Options struct {
	// Marker is embedded in every body.
	Marker string
	// Lang selects the message language.
	Lang string
	// Title overrides the localized heading.
	Title string
	// Template replaces the builtin template when not empty.
	Template string
}

// Renderer turns a resolved target into a comment body.
type Renderer struct {
	tr     *Translator
	tmpl   *template.Template
	marker string
	title  string
}

// Data is what templates are executed with. Custom templates may use any field.
type Data struct {
	Marker        string
	Title         string
	StorybookLine string
	BranchLine    string
	BuildLine     string
	ReviewLine    string
	Footer        string
	Target        resolver.ResolvedTarget
	Lang          string
}

// NewRenderer parses the template and prepares translations.
// An unsupported language falls back to English; LanguageMatched tells the caller.
func NewRenderer(opts Options) (*Renderer, error) {
	tr, _, err := NewTranslator(opts.Lang)
	if err != nil {
		return nil, apperrors.ErrRender.WithError(err)
	}

	name := builtinTemplate
	src := opts.Template
	if strings.TrimSpace(src) == "" {
		raw, err := commentTemplates.ReadFile(builtinTemplate)
		if err != nil {
			return nil, apperrors.ErrRender.WithError(fmt.Errorf("load comment template %s: %w", builtinTemplate, err))
		}
		src = string(raw)
	} else {
		name = "custom"
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, apperrors.ErrRender.WithError(fmt.Errorf("parse comment template: %w", err))
	}

	return &Renderer{
		tr:     tr,
		tmpl:   tmpl,
		marker: opts.Marker,
		title:  opts.Title,
	}, nil
}

// LanguageMatched reports whether lang resolved to a supported language.
func LanguageMatched(lang string) bool {
	_, ok, err := NewTranslator(lang)
	return err == nil && ok
}

// Language returns the language the renderer writes in.
func (r *Renderer) Language() string {
	return r.tr.Language().String()
}

// Render returns the comment body. The marker is always present, even if a custom
// template forgets it, since it is the only way to find the comment again.
func (r *Renderer) Render(t resolver.ResolvedTarget) (string, error) {
	data, err := r.data(t)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return "", apperrors.ErrRender.WithError(fmt.Errorf("execute comment template: %w", err))
	}

	body := strings.TrimSpace(sb.String()) + "\n"
	if !strings.Contains(body, r.marker) {
		body = r.marker + "\n" + body
	}
	return body, nil
}

func (r *Renderer) data(t resolver.ResolvedTarget) (Data, error) {
	d := Data{
		Marker: r.marker,
		Title:  r.title,
		Target: t,
		Lang:   r.Language(),
	}

	var err error
	if d.Title == "" {
		if d.Title, err = r.msg("title", nil); err != nil {
			return Data{}, err
		}
	}
	if t.StorybookURL != "" {
		if d.StorybookLine, err = r.msg("storybook_link", map[string]any{"URL": t.StorybookURL}); err != nil {
			return Data{}, err
		}
	}
	if t.BranchStorybookURL != "" && t.BranchStorybookURL != t.StorybookURL {
		if d.BranchLine, err = r.msg("branch_link", map[string]any{"URL": t.BranchStorybookURL, "Branch": t.BranchName}); err != nil {
			return Data{}, err
		}
	}
	if t.BuildURL != "" {
		if d.BuildLine, err = r.msg("build_link", map[string]any{"URL": t.BuildURL}); err != nil {
			return Data{}, err
		}
	}
	if t.ReviewURL != "" {
		if d.ReviewLine, err = r.msg("review_link", map[string]any{"URL": t.ReviewURL}); err != nil {
			return Data{}, err
		}
	}
	if sha := ShortSHA(t.SHA); sha != "" {
		if d.Footer, err = r.msg("footer", map[string]any{"SHA": sha}); err != nil {
			return Data{}, err
		}
	}
	return d, nil
}

func (r *Renderer) msg(id string, data map[string]any) (string, error) {
	out, err := r.tr.Message(id, data)
	if err != nil {
		return "", apperrors.ErrRender.WithError(err).WithContext("message", id)
	}
	return out, nil
}

// ShortSHA abbreviates a commit SHA to 7 characters.
func ShortSHA(sha string) string {
	sha = strings.TrimSpace(sha)
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
