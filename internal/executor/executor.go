// Package executor runs the external tools behind the quality gates and the
// tag store. Commands are single-line strings; plain commands run without a
// shell, anything with shell metacharacters goes through the platform shell.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without running real tools.
type Runner interface {
	Execute(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error
}

// Executor runs commands in an OS-aware way. Unlike an interactive runner it
// treats every non-zero exit code as a failure: the gates it serves (format
// check, type check, tests) signal violations through exit codes.
type Executor struct {
	DryRun  bool
	Verbose bool
	Shell   string // optional override (e.g., "pwsh")
}

// New returns a Runner backed by the real Executor implementation.
func New(dry, verbose bool) Runner {
	return &Executor{DryRun: dry, Verbose: verbose}
}

// Execute runs the given command string. stdout and stderr are written to the
// provided writers. If cwd is non-empty, the command runs in that directory.
func (e *Executor) Execute(ctx context.Context, command string, cwd string, stdout io.Writer, stderr io.Writer) error {
	command, err := validateAndSanitize(command)
	if err != nil {
		return err
	}

	if e.DryRun {
		_, _ = fmt.Fprintf(stdout, "dry-run: %s\n", command)
		return nil
	}
	if e.Verbose {
		_, _ = fmt.Fprintf(stdout, "+ %s\n", command)
	}

	// Plain commands bypass the shell entirely; only commands that use shell
	// features (pipes, redirects, expansion) need one.
	if e.Shell == "" && !strings.ContainsAny(command, "|&;<>$`*?()") {
		if toks, err := shellquote.Split(command); err == nil && len(toks) > 0 {
			return runArgv(ctx, toks, cwd, stdout, stderr)
		}
	}

	shell, args := shellInvocation(command, e.Shell)
	if _, err := exec.LookPath(shell); err != nil {
		return fmt.Errorf("shell not found in PATH: %s", shell)
	}
	return runArgv(ctx, append([]string{shell}, args...), cwd, stdout, stderr)
}

func runArgv(ctx context.Context, argv []string, cwd string, stdout io.Writer, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr
	runErr := cmd.Run()

	_, _ = stdout.Write(bout.Bytes())
	_, _ = stderr.Write(berr.Bytes())

	if runErr != nil {
		errStr := strings.TrimSpace(berr.String())
		if errStr != "" {
			return fmt.Errorf("command failed: %w (argv=%q stderr=%q)", runErr, argv, errStr)
		}
		return fmt.Errorf("command failed: %w (argv=%q)", runErr, argv)
	}
	return nil
}

// shellInvocation returns the shell executable and arguments for the platform.
// Optional `override` lets callers request an alternate shell (e.g., pwsh).
func shellInvocation(command string, override string) (string, []string) {
	if override != "" {
		switch override {
		case "pwsh", "powershell":
			return "pwsh", []string{"-Command", command}
		default:
			return override, []string{"-c", command}
		}
	}
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "bash", []string{"-c", command}
}

// sanitizeCommand normalizes unicode characters that editors commonly insert
// (smart quotes, NBSP, zero-width spaces) and drops embedded NUL runes.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201C", "\"", // left double quote
		"\u201D", "\"", // right double quote
		"\u00A0", " ", // NO-BREAK SPACE
		"\u200B", "", // zero width space
	)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, r.Replace(s))
}

func validateAndSanitize(command string) (string, error) {
	command = sanitizeCommand(command)
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("invalid command: empty")
	}
	if strings.Contains(command, "\n") {
		return "", fmt.Errorf("invalid command: contains newline characters; each command must be a single line")
	}
	if strings.IndexFunc(command, func(r rune) bool { return r < 32 && r != '\t' || r == 0x7f }) != -1 {
		return "", fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return command, nil
}
