package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := buildRoot()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "vnshell") {
		t.Fatalf("output: %q", out)
	}
}

func TestLogsCommandWithDirFlag(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vn-sidecar.stdout.log"), []byte("captured line\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "logs", "--dir", dir)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "=== vn-sidecar.stdout.log ===") || !strings.Contains(out, "captured line") {
		t.Fatalf("output: %q", out)
	}
}

func TestLogsCommandEmptyDirPrintsSentinel(t *testing.T) {
	out, err := execute(t, "logs", "--dir", t.TempDir())
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "No log files found") {
		t.Fatalf("output: %q", out)
	}
}

func TestServeMissingConfigFails(t *testing.T) {
	if _, err := execute(t, "serve", "-c", filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestLogsMissingConfigFails(t *testing.T) {
	if _, err := execute(t, "logs", "-c", filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error when neither --dir nor config is usable")
	}
}
