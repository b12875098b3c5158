// Package manifest reads the project manifest (pyproject.toml) that declares
// the package name and the version to release. The version is read once per
// run and treated as immutable afterwards.
package manifest

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/VoxDroid/relgate/internal/gate"
)

// Project is the subset of the manifest the gatekeeper needs.
type Project struct {
	Name    string
	Version string
}

type pyproject struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"project"`
}

// Read extracts [project] name and version from the manifest at path. A
// missing file, unparsable TOML, or an absent version field yields a
// *gate.ManifestError; a present but malformed version a *gate.ConfigError.
func Read(path string) (Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Project{}, &gate.ManifestError{Path: path, Reason: err.Error()}
	}
	var doc pyproject
	if err := toml.Unmarshal(b, &doc); err != nil {
		return Project{}, &gate.ManifestError{Path: path, Reason: "parse: " + err.Error()}
	}
	if doc.Project.Version == "" {
		return Project{}, &gate.ManifestError{Path: path, Reason: "missing [project] version"}
	}
	if err := gate.ValidateVersion(doc.Project.Version); err != nil {
		return Project{}, err
	}
	return Project{Name: doc.Project.Name, Version: doc.Project.Version}, nil
}
