// Package pipeline models the ordered quality gates (format, types, dead
// code, tests) and runs them through the executor. The gatekeeper only ever
// consumes the aggregate pass/fail; per-step results exist for operator
// output.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step is one quality gate: a named single-line command.
type Step struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

// Config is the pipeline definition loaded from .relgate.yaml.
type Config struct {
	Steps []Step `yaml:"steps"`
	Build Step   `yaml:"build,omitempty"`
}

// ConfigFile is the default pipeline definition location, resolved relative
// to the project root.
const ConfigFile = ".relgate.yaml"

// Default returns the built-in pipeline mirroring the project's Makefile
// targets: ruff for formatting, mypy for types, vulture for dead code,
// pytest for tests.
func Default() Config {
	return Config{
		Steps: []Step{
			{Name: "format", Command: "ruff format --check ."},
			{Name: "types", Command: "mypy src"},
			{Name: "deadcode", Command: "vulture src"},
			{Name: "test", Command: "pytest"},
		},
		Build: Step{Name: "build", Command: "python -m build"},
	}
}

// Coverage is the test-with-coverage variant of the test gate. It is not part
// of the gating pipeline; `relgate check coverage` runs it on demand.
func Coverage() Step {
	return Step{Name: "coverage", Command: "pytest --cov=src --cov-report=term-missing"}
}

// Load reads the pipeline definition from path. A missing file yields the
// built-in defaults; a present but unparsable file is an error.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read pipeline config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Steps) == 0 {
		cfg.Steps = Default().Steps
	}
	if cfg.Build.Command == "" {
		cfg.Build = Default().Build
	}
	for _, s := range cfg.Steps {
		if s.Name == "" || s.Command == "" {
			return Config{}, fmt.Errorf("parse %s: every step needs a name and a command", path)
		}
	}
	return cfg, nil
}

// Find returns the step with the given name, looking through the gating steps
// plus the build and coverage variants.
func (c Config) Find(name string) (Step, bool) {
	for _, s := range c.Steps {
		if s.Name == name {
			return s, true
		}
	}
	if name == c.Build.Name {
		return c.Build, true
	}
	if cov := Coverage(); name == cov.Name {
		return cov, true
	}
	return Step{}, false
}
