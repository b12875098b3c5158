package cmd

import (
	"bytes"
	"runtime"
	"testing"
)

func TestBuildRunsConfiguredCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix echo")
	}
	cfg := writePipelineConfig(t, `
build:
  name: build
  command: echo building-artifacts
`)
	out, err := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"build", "--config", cfg})
		return rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("build finished")) {
		t.Fatalf("expected build finished, got: %s", out)
	}
}

func TestBuildDryRunPrintsCommand(t *testing.T) {
	cfg := writePipelineConfig(t, `
build:
  name: build
  command: python -m build
`)
	out, err := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"build", "--config", cfg, "--dry-run"})
		return rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("build dry-run failed: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("dry-run: python -m build")) {
		t.Fatalf("expected dry-run command echo, got: %s", out)
	}
}
