package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/dannyhw/storybook-chromatic-link-comment/internal/errors"
)

// Settings is the optional repository-level settings file.
type Settings struct {
	// PreviewHost replaces chromatic.com in generated links.
	PreviewHost string `yaml:"previewHost,omitempty" toml:"previewHost"`
	// Marker replaces the default hidden comment marker.
	Marker string `yaml:"marker,omitempty" toml:"marker"`
	// Title replaces the localized comment heading.
	Title string `yaml:"title,omitempty" toml:"title"`
	// TemplateFile points to a text/template used instead of the builtin comment.
	TemplateFile string `yaml:"templateFile,omitempty" toml:"templateFile"`
	// Lang is the default comment language.
	Lang string `yaml:"lang,omitempty" toml:"lang"`
}

// LoadSettings reads a settings file; the format is picked by extension (.yml, .yaml, .toml).
// Unknown keys are rejected.
func LoadSettings(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, apperrors.ErrInvalidConfigFile.WithError(err).WithContext("path", path)
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return Settings{}, apperrors.ErrInvalidConfigFile.WithError(err).WithContext("path", path)
		}
	case ".toml":
		md, err := toml.Decode(string(raw), &s)
		if err != nil {
			return Settings{}, apperrors.ErrInvalidConfigFile.WithError(err).WithContext("path", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Settings{}, apperrors.ErrInvalidConfigFile.
				WithContext("path", path).
				WithContext("unknown", undecoded[0].String())
		}
	default:
		return Settings{}, apperrors.ErrInvalidConfigFile.WithContext("path", path).WithContext("ext", filepath.Ext(path))
	}
	return s, nil
}
