package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"clipforge/internal/deps"
	"clipforge/internal/engine"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckEngine verifies that the ffmpeg binary resolves and answers -version
// within five seconds.
func CheckEngine(ctx context.Context, binary string) Result {
	const name = "Engine"

	status := deps.CheckBinaries([]deps.Requirement{{Name: "FFmpeg", Command: binary}})[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	version, err := deps.Version(checkCtx, status.Path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", status.Path, err)}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckWorkspaceLock reports whether another process holds the workspace.
func CheckWorkspaceLock(workspace string) Result {
	const name = "Workspace lock"

	lock := flock.New(engine.LockPath(workspace))
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	if !ok {
		return Result{Name: name, Detail: "held by another clipforge process"}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: "free"}
}
