package delivery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"clipforge/internal/fileutil"
	"clipforge/internal/textutil"
)

// maxSuffix bounds the "name (n).ext" search.
const maxSuffix = 1000

// Saver persists a delivered file and returns where it ended up.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// DirSaver writes files into a directory. Existing files are kept unless
// Overwrite is set; a numbered variant of the name is used instead.
type DirSaver struct {
	Dir       string
	Overwrite bool
}

// NewDirSaver returns a saver writing into dir.
func NewDirSaver(dir string, overwrite bool) *DirSaver {
	return &DirSaver{Dir: dir, Overwrite: overwrite}
}

// Save writes data atomically under name.
func (s *DirSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := textutil.SanitizeFileName(filepath.Base(name))
	if clean == "" {
		return "", fmt.Errorf("invalid output name %q", name)
	}
	if strings.TrimSpace(s.Dir) == "" {
		return "", errors.New("output directory not configured")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	target := filepath.Join(s.Dir, clean)
	if !s.Overwrite {
		unique, err := uniquePath(target)
		if err != nil {
			return "", err
		}
		target = unique
	}
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// uniquePath returns path, or "base (n).ext" for the first n that is free.
func uniquePath(path string) (string, error) {
	if free, err := isFree(path); err != nil || free {
		return path, err
	}
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	base := textutil.StripExtension(name)
	ext := strings.TrimPrefix(name, base)
	for n := 1; n <= maxSuffix; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		free, err := isFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", name, maxSuffix)
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
