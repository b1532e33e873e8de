package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"clipforge/internal/engine"
	"clipforge/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEngine(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(testsupport.StubCopy))
	result := CheckEngine(context.Background(), cfg.FFmpegBinary())
	if !result.Passed || result.Detail != "ffmpeg version clipforge-stub" {
		t.Fatalf("unexpected result %+v", result)
	}
	missing := CheckEngine(context.Background(), filepath.Join(t.TempDir(), "ffmpeg"))
	if missing.Passed {
		t.Fatal("expected failure for missing binary")
	}
}

func TestCheckWorkspaceLock(t *testing.T) {
	workspace := filepath.Join(t.TempDir(), "engine")
	if result := CheckWorkspaceLock(workspace); !result.Passed {
		t.Fatalf("expected free lock, got %+v", result)
	}
	holder := flock.New(engine.LockPath(workspace))
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer holder.Unlock()
	if result := CheckWorkspaceLock(workspace); result.Passed {
		t.Fatal("expected held lock to fail the check")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(testsupport.StubCopy))
	cfg.Paths.LogDir = filepath.Join(testsupport.BaseDir(cfg), "missing-logs")
	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Logs" {
		t.Fatalf("expected only the log directory to fail, got %+v", failed)
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("nil config should yield no results")
	}
}
