package gate

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeTags struct {
	exists    bool
	existsErr error
	createErr error

	existsCalls int
	createCalls int
	created     []string
}

func (f *fakeTags) Exists(_ context.Context, _ string) (bool, error) {
	f.existsCalls++
	return f.exists, f.existsErr
}

func (f *fakeTags) Create(_ context.Context, tag string) error {
	f.createCalls++
	f.created = append(f.created, tag)
	return f.createErr
}

type fakeRegistry struct {
	published    bool
	preflightErr error
	publishErr   error
	verifyErr    error

	order        *[]string
	publishCalls int
	verifyCalls  int
}

func (f *fakeRegistry) Preflight() error {
	return f.preflightErr
}

func (f *fakeRegistry) IsPublished(_ context.Context, _ string) (bool, error) {
	return f.published, nil
}

func (f *fakeRegistry) Publish(_ context.Context, _ string) error {
	f.publishCalls++
	if f.order != nil {
		*f.order = append(*f.order, "publish")
	}
	return f.publishErr
}

func (f *fakeRegistry) VerifyPublished(_ context.Context, version string) error {
	f.verifyCalls++
	if f.verifyErr != nil {
		return &PublishVerificationError{Version: version, Err: f.verifyErr}
	}
	return nil
}

type fakePipeline struct {
	passed bool
	err    error
	calls  int
}

func (f *fakePipeline) Run(_ context.Context) (bool, error) {
	f.calls++
	return f.passed, f.err
}

type memJournal struct {
	entries []string
}

func (m *memJournal) Record(version string, outcome Outcome, detail string) error {
	m.entries = append(m.entries, fmt.Sprintf("%s=%s", version, outcome))
	return nil
}

func newKeeper(tags *fakeTags, reg *fakeRegistry, pl *fakePipeline) *Gatekeeper {
	return &Gatekeeper{Tags: tags, Registry: reg, Pipeline: pl, TagPrefix: "v"}
}

func TestRunSkipsAlreadyPublished(t *testing.T) {
	tags := &fakeTags{}
	reg := &fakeRegistry{published: true}
	pl := &fakePipeline{passed: false} // result must not matter

	out, err := newKeeper(tags, reg, pl).Run(context.Background(), "1.2.0")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != OutcomeSkipped {
		t.Fatalf("expected skipped, got %s", out)
	}
	if tags.createCalls != 0 || reg.publishCalls != 0 {
		t.Fatalf("skip must have no side effects: creates=%d publishes=%d", tags.createCalls, reg.publishCalls)
	}
}

func TestRunSkipsWhenTagExists(t *testing.T) {
	tags := &fakeTags{exists: true}
	reg := &fakeRegistry{published: false}
	pl := &fakePipeline{passed: true}

	out, err := newKeeper(tags, reg, pl).Run(context.Background(), "1.2.0")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != OutcomeSkipped {
		t.Fatalf("tag existence alone should skip, got %s", out)
	}
	if reg.publishCalls != 0 {
		t.Fatalf("expected no publish, got %d", reg.publishCalls)
	}
}

func TestRunAbortsOnFailedPipeline(t *testing.T) {
	tags := &fakeTags{}
	reg := &fakeRegistry{}
	pl := &fakePipeline{passed: false}

	out, err := newKeeper(tags, reg, pl).Run(context.Background(), "1.2.0")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != OutcomeAborted {
		t.Fatalf("expected aborted, got %s", out)
	}
	if tags.createCalls != 0 || reg.publishCalls != 0 {
		t.Fatalf("abort must have no side effects: creates=%d publishes=%d", tags.createCalls, reg.publishCalls)
	}
}

func TestRunPublishesNewVersion(t *testing.T) {
	var order []string
	tags := &fakeTags{}
	reg := &fakeRegistry{order: &order}
	pl := &fakePipeline{passed: true}
	journal := &memJournal{}

	gk := newKeeper(tags, reg, pl)
	gk.Journal = journal
	out, err := gk.Run(context.Background(), "1.2.0")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != OutcomePublished {
		t.Fatalf("expected published, got %s", out)
	}
	if tags.createCalls != 1 || reg.publishCalls != 1 || reg.verifyCalls != 1 {
		t.Fatalf("expected one create, one publish, one verify: %d/%d/%d", tags.createCalls, reg.publishCalls, reg.verifyCalls)
	}
	if len(tags.created) != 1 || tags.created[0] != "v1.2.0" {
		t.Fatalf("expected tag v1.2.0, got %v", tags.created)
	}
	// Tag creation is recorded before publish in the fake's view: the create
	// happened, then the publish appended to order.
	if len(order) != 1 || order[0] != "publish" {
		t.Fatalf("expected exactly one publish after tag, got %v", order)
	}
	if len(journal.entries) != 1 || journal.entries[0] != "1.2.0=published" {
		t.Fatalf("expected journal entry, got %v", journal.entries)
	}
}

func TestRunSurfacesVerificationFailure(t *testing.T) {
	tags := &fakeTags{}
	reg := &fakeRegistry{verifyErr: errors.New("not visible")}
	pl := &fakePipeline{passed: true}

	_, err := newKeeper(tags, reg, pl).Run(context.Background(), "1.2.0")
	var verr *PublishVerificationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected PublishVerificationError, got %v", err)
	}
	if reg.publishCalls != 1 {
		t.Fatalf("publish should have been attempted once, got %d", reg.publishCalls)
	}
}

func TestRunMissingCredentialsRefusesBeforeTag(t *testing.T) {
	tags := &fakeTags{}
	reg := &fakeRegistry{preflightErr: &ConfigError{Reason: "publish token is not set"}}
	pl := &fakePipeline{passed: true}

	_, err := newKeeper(tags, reg, pl).Run(context.Background(), "1.0.0")
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if len(tags.created) != 0 {
		t.Fatalf("no tag may be created before the credential check: %v", tags.created)
	}
	if reg.publishCalls != 0 || pl.calls != 0 {
		t.Fatalf("missing credentials must stop before pipeline and publish: publishes=%d pipeline=%d", reg.publishCalls, pl.calls)
	}
}

func TestRunMissingCredentialsStillSkipsReleased(t *testing.T) {
	// Re-running for an already-released version needs no token; the skip
	// must win over the credential check.
	tags := &fakeTags{exists: true}
	reg := &fakeRegistry{preflightErr: &ConfigError{Reason: "publish token is not set"}}
	pl := &fakePipeline{passed: true}

	out, err := newKeeper(tags, reg, pl).Run(context.Background(), "1.0.0")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != OutcomeSkipped {
		t.Fatalf("expected skipped, got %s", out)
	}
}

func TestRunTagFailureStopsPublish(t *testing.T) {
	tags := &fakeTags{createErr: errors.New("remote rejected")}
	reg := &fakeRegistry{}
	pl := &fakePipeline{passed: true}

	_, err := newKeeper(tags, reg, pl).Run(context.Background(), "1.2.0")
	var terr *TagCreationError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TagCreationError, got %v", err)
	}
	if reg.publishCalls != 0 {
		t.Fatalf("publish must not run after tag failure, got %d", reg.publishCalls)
	}
}

func TestRunIsIdempotentForPublishedVersion(t *testing.T) {
	tags := &fakeTags{}
	reg := &fakeRegistry{published: true}
	pl := &fakePipeline{passed: true}
	gk := newKeeper(tags, reg, pl)

	for i := 0; i < 2; i++ {
		out, err := gk.Run(context.Background(), "2.0.0")
		if err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		if out != OutcomeSkipped {
			t.Fatalf("run %d: expected skipped, got %s", i, out)
		}
	}
	if tags.createCalls != 0 || reg.publishCalls != 0 {
		t.Fatalf("repeat runs added side effects: creates=%d publishes=%d", tags.createCalls, reg.publishCalls)
	}
}

func TestRunRejectsMalformedVersion(t *testing.T) {
	tags := &fakeTags{}
	reg := &fakeRegistry{}
	pl := &fakePipeline{passed: true}
	gk := newKeeper(tags, reg, pl)

	for _, v := range []string{"", "abc", "1.2", "v1.2.0", "1.2.0 "} {
		_, err := gk.Run(context.Background(), v)
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("version %q: expected ConfigError, got %v", v, err)
		}
	}
	if tags.existsCalls != 0 || pl.calls != 0 {
		t.Fatalf("no collaborator may be contacted for a bad version: exists=%d pipeline=%d", tags.existsCalls, pl.calls)
	}
}

func TestDecidePriorityOrder(t *testing.T) {
	cases := []struct {
		tag, published, passed bool
		want                   Outcome
	}{
		{true, false, true, OutcomeSkipped},
		{false, true, false, OutcomeSkipped},
		{true, true, false, OutcomeSkipped},
		{false, false, false, OutcomeAborted},
		{false, false, true, OutcomePublished},
	}
	for _, c := range cases {
		if got := Decide(c.tag, c.published, c.passed); got != c.want {
			t.Fatalf("Decide(%v,%v,%v) = %s, want %s", c.tag, c.published, c.passed, got, c.want)
		}
	}
}

func TestValidateVersionAcceptsSuffixes(t *testing.T) {
	for _, v := range []string{"1.2.0", "0.1.0", "1.2.0rc1", "1.2.0.post1", "1.2.0-dev3"} {
		if err := ValidateVersion(v); err != nil {
			t.Fatalf("expected %q to be valid: %v", v, err)
		}
	}
}
