package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"clipforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem and engine checks for cfg. Optional paths
// are only checked when configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckEngine(ctx, cfg.FFmpegBinary()),
		CheckDirectoryAccess("Workspace", cfg.Paths.WorkspaceDir),
		CheckWorkspaceLock(cfg.Paths.WorkspaceDir),
		CheckDirectoryAccess("Output", cfg.Paths.OutputDir),
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Logs", cfg.Paths.LogDir))
	}
	if textfile := strings.TrimSpace(cfg.Metrics.Textfile); textfile != "" {
		results = append(results, CheckDirectoryAccess("Metrics", filepath.Dir(textfile)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
