package comment

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Translator localizes comment strings.
type Translator struct {
	localizer *i18n.Localizer
	lang      language.Tag
}

func newBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", file, err)
		}
	}
	return bundle, nil
}

// SupportedLanguages returns the languages comments can be rendered in.
func SupportedLanguages() []language.Tag {
	bundle, err := newBundle()
	if err != nil {
		return []language.Tag{language.English}
	}
	return bundle.LanguageTags()
}

// NewTranslator returns a Translator for the closest supported match of lang.
// The bool result is false when lang had no usable match and English was chosen.
func NewTranslator(lang string) (*Translator, bool, error) {
	bundle, err := newBundle()
	if err != nil {
		return nil, false, err
	}

	tag := language.English
	matched := false
	if requested, err := language.Parse(lang); err == nil {
		supported := bundle.LanguageTags()
		_, idx, conf := language.NewMatcher(supported).Match(requested)
		if conf != language.No {
			tag = supported[idx]
			matched = true
		}
	}

	return &Translator{
		localizer: i18n.NewLocalizer(bundle, tag.String()),
		lang:      tag,
	}, matched, nil
}

// Language returns the tag the translator renders in.
func (t *Translator) Language() language.Tag {
	return t.lang
}

// Message localizes id with data.
func (t *Translator) Message(id string, data map[string]any) (string, error) {
	return t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
}
