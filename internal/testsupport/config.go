package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"clipforge/internal/config"
)

// FFmpeg stub behaviours.
const (
	// StubCopy copies the -i input to the last argument, like a successful encode.
	StubCopy = `in=""; prev=""; last=""
for arg in "$@"; do
  if [ "$prev" = "-i" ]; then in="$arg"; fi
  prev="$arg"; last="$arg"
done
cat "$in" > "$last"
`
	// StubFail prints an engine diagnostic and exits non-zero.
	StubFail = `echo "Invalid data found when processing input" >&2
exit 1
`
	// StubNoOutput exits cleanly without writing the output file.
	StubNoOutput = "exit 0\n"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkspaceDir = filepath.Join(base, "engine")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = ""
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithStubbedFFmpeg writes an ffmpeg stand-in running behaviour (one of the
// Stub constants) and points the config at it. Every invocation records its
// arguments, one per line, in ffmpeg.args next to the stub. Tests using it are
// skipped on Windows.
func WithStubbedFFmpeg(behaviour string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.FFmpegBinary = WriteFFmpegStub(b.t, filepath.Join(b.baseDir, "bin"), behaviour)
	}
}

// WriteFFmpegStub writes an ffmpeg stand-in into dir and returns its path.
func WriteFFmpegStub(t testing.TB, dir, behaviour string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("ffmpeg stubs require a POSIX shell")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"-version\" ]; then echo \"ffmpeg version clipforge-stub\"; exit 0; fi\n" +
		"printf '%s\\n' \"$@\" > \"$(dirname \"$0\")/ffmpeg.args\"\n" +
		behaviour
	target := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return target
}

// StubArgs returns the arguments recorded by the most recent stub invocation.
func StubArgs(t testing.TB, cfg *config.Config) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(cfg.Engine.FFmpegBinary), "ffmpeg.args"))
	if err != nil {
		t.Fatalf("read stub args: %v", err)
	}
	var args []string
	start := 0
	for i, c := range data {
		if c == '\n' {
			args = append(args, string(data[start:i]))
			start = i + 1
		}
	}
	return args
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkspaceDir)
}
