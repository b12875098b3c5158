package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds the environment-derived configuration for a release run.
// The publish token is carried here as an explicit value and handed to the
// registry client at construction time; nothing reads it ambiently later.
type Settings struct {
	Token         string `env:"RELGATE_TOKEN"`
	IndexURL      string `env:"RELGATE_INDEX_URL" envDefault:"https://pypi.org/pypi"`
	UploadURL     string `env:"RELGATE_UPLOAD_URL" envDefault:"https://upload.pypi.org/legacy/"`
	TestUploadURL string `env:"RELGATE_TEST_UPLOAD_URL" envDefault:"https://test.pypi.org/legacy/"`
	TagPrefix     string `env:"RELGATE_TAG_PREFIX" envDefault:"v"`
	Manifest      string `env:"RELGATE_MANIFEST" envDefault:"pyproject.toml"`
	DistDir       string `env:"RELGATE_DIST" envDefault:"dist"`
	GitRemote     string `env:"RELGATE_GIT_REMOTE" envDefault:"origin"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
