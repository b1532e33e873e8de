package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"clipforge/internal/config"
	"clipforge/internal/deps"
	"clipforge/internal/logging"
	"clipforge/internal/services"
)

// globalArgs are prepended to every invocation. They keep ffmpeg quiet,
// non-interactive and free to replace stale outputs.
var globalArgs = []string{"-hide_banner", "-nostdin", "-y", "-loglevel", "error"}

// FFmpeg drives an ffmpeg binary over a flat workspace directory. Input files
// are staged into the workspace, the binary runs with the workspace as its
// working directory, and outputs are read back from it.
type FFmpeg struct {
	binary    string
	workspace string
	logger    *slog.Logger
	lock      *flock.Flock

	initOnce sync.Once
	initErr  error
	version  string
	path     string

	// execMu serializes engine calls.
	execMu sync.Mutex

	stateMu sync.RWMutex
	ready   bool
}

// New creates an uninitialized handle for cfg.
func New(cfg *config.Config, logger *slog.Logger) *FFmpeg {
	workspace := strings.TrimSpace(cfg.Paths.WorkspaceDir)
	return &FFmpeg{
		binary:    cfg.FFmpegBinary(),
		workspace: workspace,
		logger:    logging.NewComponentLogger(logger, "engine"),
		lock:      flock.New(LockPath(workspace)),
	}
}

// LockPath returns the lock file guarding workspace.
func LockPath(workspace string) string {
	return filepath.Clean(workspace) + ".lock"
}

// Initialize resolves and verifies the binary, creates the workspace and
// takes the workspace lock. It runs once; a failure is returned again on every
// later call.
func (f *FFmpeg) Initialize(ctx context.Context) error {
	f.initOnce.Do(func() {
		f.initErr = f.initialize(ctx)
		if f.initErr != nil {
			f.logger.Error("engine initialization failed",
				logging.Error(f.initErr),
				logging.String(logging.FieldEventType, "engine_init_failed"),
				logging.String(logging.FieldErrorHint, "install ffmpeg or set engine.ffmpeg_binary"),
			)
			return
		}
		f.stateMu.Lock()
		f.ready = true
		f.stateMu.Unlock()
		f.logger.Info("engine ready",
			logging.String(logging.FieldEventType, "engine_ready"),
			logging.String("binary", f.path),
			logging.String("version", f.version),
			logging.String("workspace", f.workspace),
		)
	})
	return f.initErr
}

func (f *FFmpeg) initialize(ctx context.Context) error {
	if f.workspace == "" {
		return services.Wrap(services.ErrEngineNotReady, "engine", "initialize", "workspace directory not configured", nil)
	}
	status := deps.CheckBinaries([]deps.Requirement{{Name: "FFmpeg", Command: f.binary, Description: "Transcoding engine"}})[0]
	if !status.Available {
		return services.Wrap(services.ErrEngineNotReady, "engine", "initialize", status.Detail, nil)
	}
	version, err := deps.Version(ctx, status.Path)
	if err != nil {
		return services.Wrap(services.ErrEngineNotReady, "engine", "initialize", "verify binary", err)
	}
	if err := os.MkdirAll(f.workspace, 0o755); err != nil {
		return services.Wrap(services.ErrEngineNotReady, "engine", "initialize", "create workspace", err)
	}
	ok, err := f.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrEngineNotReady, "engine", "initialize", "acquire workspace lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrEngineNotReady, "engine", "initialize",
			fmt.Sprintf("workspace %s is in use by another clipforge process", f.workspace), nil)
	}
	f.path = status.Path
	f.version = version
	return nil
}

// Ready reports whether Initialize succeeded.
func (f *FFmpeg) Ready() bool {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.ready
}

// Version returns the first line of "ffmpeg -version" once initialized.
func (f *FFmpeg) Version() string {
	if !f.Ready() {
		return ""
	}
	return f.version
}

// Workspace returns the workspace directory.
func (f *FFmpeg) Workspace() string {
	return f.workspace
}

// WriteInput stages data under name, replacing any existing file.
func (f *FFmpeg) WriteInput(name string, data []byte) error {
	target, err := f.resolve("write input", name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return services.Wrap(services.ErrConversion, "engine", "write input", name, err)
	}
	return nil
}

// ReadOutput returns the contents of name.
func (f *FFmpeg) ReadOutput(name string) ([]byte, error) {
	target, err := f.resolve("read output", name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConversion, "engine", "read output",
				fmt.Sprintf("engine produced no %s", name), nil)
		}
		return nil, services.Wrap(services.ErrConversion, "engine", "read output", name, err)
	}
	return data, nil
}

// Remove deletes name from the workspace. A missing file is not an error.
func (f *FFmpeg) Remove(name string) error {
	target, err := f.resolve("remove", name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrConversion, "engine", "remove", name, err)
	}
	return nil
}

// Execute runs the binary with args inside the workspace. Calls are
// serialized. A non-zero exit is reported with the engine's stderr.
func (f *FFmpeg) Execute(ctx context.Context, args []string) error {
	if !f.Ready() {
		return notReady("execute")
	}
	f.execMu.Lock()
	defer f.execMu.Unlock()

	full := CommandLine(args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.path, full...)
	cmd.Dir = f.workspace
	cmd.Stderr = &stderr

	started := time.Now()
	f.logger.Debug("engine command",
		logging.String(logging.FieldEventType, "engine_exec"),
		logging.String("args", strings.Join(full, " ")),
	)
	err := cmd.Run()
	elapsed := time.Since(started)
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "ffmpeg failed"
		}
		f.logger.Warn("engine command failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "engine_exec_failed"),
			logging.String("stderr", detail),
			logging.Duration("elapsed", elapsed),
		)
		return services.Wrap(services.ErrConversion, "engine", "execute", detail, err)
	}
	f.logger.Debug("engine command finished",
		logging.String(logging.FieldEventType, "engine_exec_done"),
		logging.Duration("elapsed", elapsed),
	)
	return nil
}

// CommandLine returns the full argument list Execute passes to ffmpeg.
func CommandLine(args []string) []string {
	full := make([]string, 0, len(globalArgs)+len(args))
	full = append(full, globalArgs...)
	return append(full, args...)
}

// Close releases the workspace lock.
func (f *FFmpeg) Close() error {
	f.stateMu.Lock()
	wasReady := f.ready
	f.ready = false
	f.stateMu.Unlock()
	if !wasReady {
		return nil
	}
	if err := f.lock.Unlock(); err != nil {
		return fmt.Errorf("release workspace lock: %w", err)
	}
	return nil
}

func (f *FFmpeg) resolve(operation, name string) (string, error) {
	if !f.Ready() {
		return "", notReady(operation)
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(f.workspace, name), nil
}

// ValidateName reports whether name is usable as a flat workspace file name.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return services.Wrap(services.ErrInput, "engine", "validate name", "empty file name", nil)
	case name == "." || name == "..":
		return services.Wrap(services.ErrInput, "engine", "validate name", fmt.Sprintf("invalid file name %q", name), nil)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return services.Wrap(services.ErrInput, "engine", "validate name", fmt.Sprintf("file name %q must not contain path separators", name), nil)
	}
	return nil
}

func notReady(operation string) error {
	return services.Wrap(services.ErrEngineNotReady, "engine", operation, "engine not initialized", nil)
}
