// Package gitstore implements the tag store over the git CLI. A tag is the
// durable record that a release attempt happened for a version; it is created
// once and never deleted.
package gitstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/VoxDroid/relgate/internal/executor"
)

// Store runs git through the executor. When Remote is non-empty, Create also
// pushes the tag: a tag that exists only locally cannot gate a re-run on
// another machine.
type Store struct {
	Exec   executor.Runner
	Dir    string
	Remote string
	Stderr io.Writer
}

// New returns a Store using the given runner and working directory.
func New(run executor.Runner, dir, remote string) *Store {
	return &Store{Exec: run, Dir: dir, Remote: remote, Stderr: io.Discard}
}

// Exists reports whether the tag is present in the local repository.
// `git tag --list` exits zero either way and prints the tag when it exists,
// which keeps "absent" distinguishable from "git failed".
func (s *Store) Exists(ctx context.Context, tag string) (bool, error) {
	var out bytes.Buffer
	cmd := shellquote.Join("git", "tag", "--list", tag)
	if err := s.Exec.Execute(ctx, cmd, s.Dir, &out, s.stderr()); err != nil {
		return false, fmt.Errorf("git tag --list: %w", err)
	}
	return strings.TrimSpace(out.String()) != "", nil
}

// Create creates the tag and, when a remote is configured, pushes it.
func (s *Store) Create(ctx context.Context, tag string) error {
	var out bytes.Buffer
	if err := s.Exec.Execute(ctx, shellquote.Join("git", "tag", tag), s.Dir, &out, s.stderr()); err != nil {
		return err
	}
	if s.Remote == "" {
		return nil
	}
	if err := s.Exec.Execute(ctx, shellquote.Join("git", "push", s.Remote, tag), s.Dir, &out, s.stderr()); err != nil {
		return fmt.Errorf("push tag: %w", err)
	}
	return nil
}

func (s *Store) stderr() io.Writer {
	if s.Stderr != nil {
		return s.Stderr
	}
	return io.Discard
}
