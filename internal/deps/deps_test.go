package deps

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	present := writeScript(t, t.TempDir(), "present", "exit 0\n")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Path != present {
		t.Fatalf("expected resolved path %q, got %q", present, results[0].Path)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected blank command to be reported as unconfigured, got %#v", results[2])
	}
}

func TestEngineRequirements(t *testing.T) {
	reqs := Engine("ffmpeg", "ffprobe")
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Optional {
		t.Fatal("expected ffmpeg to be required")
	}
	if !reqs[1].Optional {
		t.Fatal("expected ffprobe to be optional")
	}
}

func TestVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	good := writeScript(t, dir, "ffmpeg", "echo\necho 'ffmpeg version 7.1 Copyright'\necho 'built with gcc'\n")
	line, err := Version(context.Background(), good)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if line != "ffmpeg version 7.1 Copyright" {
		t.Fatalf("unexpected version line %q", line)
	}

	broken := writeScript(t, dir, "broken", "echo 'cannot load' >&2\nexit 3\n")
	if _, err := Version(context.Background(), broken); err == nil {
		t.Fatal("expected error for failing binary")
	}

	silent := writeScript(t, dir, "silent", "exit 0\n")
	if _, err := Version(context.Background(), silent); err == nil {
		t.Fatal("expected error for binary without output")
	}

	if _, err := Version(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
