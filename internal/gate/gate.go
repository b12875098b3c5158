// Package gate implements the release gatekeeper: given a declared version
// and the state of the tag store and package registry, it decides exactly one
// of skip, publish, or abort, and performs the tag and publish side effects
// at most once per version.
package gate

import (
	"context"
	"fmt"
	"regexp"
)

// Outcome is the result of a gatekeeper run.
type Outcome string

const (
	// OutcomeSkipped means the version was already released (tag or registry
	// entry exists); the run performed no side effects.
	OutcomeSkipped Outcome = "skipped"
	// OutcomePublished means the tag was created and the upload was accepted
	// and verified.
	OutcomePublished Outcome = "published"
	// OutcomeAborted means the quality pipeline failed; nothing was tagged or
	// uploaded.
	OutcomeAborted Outcome = "aborted"
)

// TagStore records release attempts as immutable tags.
type TagStore interface {
	Exists(ctx context.Context, tag string) (bool, error)
	Create(ctx context.Context, tag string) error
}

// Registry answers version-existence queries and accepts uploads. Publish is
// expected to return *PublishError on failure and VerifyPublished
// *PublishVerificationError when the version stays invisible. Preflight
// reports missing credentials without contacting the network, so the
// gatekeeper can refuse before any side effect.
type Registry interface {
	Preflight() error
	IsPublished(ctx context.Context, version string) (bool, error)
	Publish(ctx context.Context, version string) error
	VerifyPublished(ctx context.Context, version string) error
}

// Pipeline runs the quality gates (format, types, dead code, tests) and
// reports the aggregate result. The error return is for infrastructure
// failures only; a failing gate is (false, nil).
type Pipeline interface {
	Run(ctx context.Context) (bool, error)
}

// Recorder appends a completed decision to the release journal.
type Recorder interface {
	Record(version string, outcome Outcome, detail string) error
}

// versionRE accepts release versions as declared in a project manifest:
// MAJOR.MINOR.PATCH with an optional pre/post/dev suffix (1.2.0, 1.2.0rc1,
// 1.2.0.post1). The tag prefix is not part of the version.
var versionRE = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(?:[-.]?[0-9A-Za-z][0-9A-Za-z.-]*)?$`)

// ValidateVersion rejects empty or malformed version strings before any
// collaborator is contacted.
func ValidateVersion(version string) error {
	if version == "" {
		return &ConfigError{Reason: "version is empty"}
	}
	if !versionRE.MatchString(version) {
		return &ConfigError{Reason: fmt.Sprintf("version %q is not a semantic version", version)}
	}
	return nil
}

// Decide applies the gating rules in priority order. It is pure: side effects
// belong to Run.
func Decide(tagExists, alreadyPublished, pipelinePassed bool) Outcome {
	switch {
	case tagExists || alreadyPublished:
		return OutcomeSkipped
	case !pipelinePassed:
		return OutcomeAborted
	default:
		return OutcomePublished
	}
}

// Gatekeeper wires the collaborators for a release run. It performs no
// network access itself; the tag store and registry own their transports.
type Gatekeeper struct {
	Tags      TagStore
	Registry  Registry
	Pipeline  Pipeline
	TagPrefix string

	// Journal is optional; when set, every completed decision is recorded.
	Journal Recorder
}

// TagName derives the tag for a version (prefix + version).
func (g *Gatekeeper) TagName(version string) string {
	return g.TagPrefix + version
}

// Run executes one gating decision for version. When the version is already
// tagged or published the pipeline is not run at all: the skip is decided
// from registry state alone, so re-runs stay cheap and side-effect free.
//
// On the publish path the tag is created before the upload and is not rolled
// back if the upload fails; a failed publish still leaves a durable record
// that an attempt was made for that version.
func (g *Gatekeeper) Run(ctx context.Context, version string) (Outcome, error) {
	if err := ValidateVersion(version); err != nil {
		return "", err
	}

	tag := g.TagName(version)
	tagExists, err := g.Tags.Exists(ctx, tag)
	if err != nil {
		return "", fmt.Errorf("check tag %s: %w", tag, err)
	}
	published, err := g.Registry.IsPublished(ctx, version)
	if err != nil {
		return "", fmt.Errorf("check registry for %s: %w", version, err)
	}
	if tagExists || published {
		g.record(version, OutcomeSkipped, skipDetail(tagExists, published))
		return OutcomeSkipped, nil
	}

	// A new version will need credentials to publish. Refuse here, before the
	// pipeline and before any side effect: a tag created ahead of a doomed
	// upload would turn every later run into a skip for a version that never
	// reached the registry.
	if err := g.Registry.Preflight(); err != nil {
		return "", err
	}

	passed, err := g.Pipeline.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("run pipeline: %w", err)
	}
	if outcome := Decide(tagExists, published, passed); outcome == OutcomeAborted {
		g.record(version, OutcomeAborted, "pipeline failed")
		return OutcomeAborted, nil
	}

	if err := g.Tags.Create(ctx, tag); err != nil {
		return "", &TagCreationError{Tag: tag, Err: err}
	}
	if err := g.Registry.Publish(ctx, version); err != nil {
		return "", err
	}
	if err := g.Registry.VerifyPublished(ctx, version); err != nil {
		return "", err
	}
	g.record(version, OutcomePublished, "tag "+tag)
	return OutcomePublished, nil
}

func (g *Gatekeeper) record(version string, outcome Outcome, detail string) {
	if g.Journal == nil {
		return
	}
	// Journal failures must not change the release outcome.
	_ = g.Journal.Record(version, outcome, detail)
}

func skipDetail(tagExists, published bool) string {
	switch {
	case tagExists && published:
		return "tag exists; already on registry"
	case tagExists:
		return "tag exists"
	default:
		return "already on registry"
	}
}
