package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"clipforge/internal/services"
)

// Input is a selected source file held in memory for the lifetime of a session.
type Input struct {
	Data        []byte
	DisplayName string
	ObjectURL   string
	MIMEType    string
	Path        string
}

// Size returns the number of bytes held.
func (in Input) Size() int {
	return len(in.Data)
}

// Empty reports whether no input is held.
func (in Input) Empty() bool {
	return in.DisplayName == "" && len(in.Data) == 0
}

// OpenOptions constrains which files Open accepts.
type OpenOptions struct {
	RequireVideo bool
	MaxBytes     int64
}

// Open reads path into memory and sniffs its media type. The returned Input
// has no ObjectURL; the session allocates one.
func Open(path string, opts OpenOptions) (Input, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Input{}, services.Wrap(services.ErrInput, "media", "open", "no file selected", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Input{}, services.Wrap(services.ErrInput, "media", "open", fmt.Sprintf("file does not exist: %s", path), nil)
		}
		return Input{}, services.Wrap(services.ErrInput, "media", "open", "stat file", err)
	}
	if info.IsDir() {
		return Input{}, services.Wrap(services.ErrInput, "media", "open", fmt.Sprintf("%s is a directory", path), nil)
	}
	if info.Size() == 0 {
		return Input{}, services.Wrap(services.ErrInput, "media", "open", fmt.Sprintf("%s is empty", path), nil)
	}
	if opts.MaxBytes > 0 && info.Size() > opts.MaxBytes {
		return Input{}, services.Wrap(services.ErrInput, "media", "open",
			fmt.Sprintf("%s is %d bytes, limit is %d", path, info.Size(), opts.MaxBytes), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, services.Wrap(services.ErrInput, "media", "open", "read file", err)
	}

	mimeType, video := sniff(data)
	if opts.RequireVideo && !video {
		return Input{}, services.Wrap(services.ErrInput, "media", "open",
			fmt.Sprintf("%s is %s, not a video", filepath.Base(path), mimeType), nil)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Input{
		Data:        data,
		DisplayName: filepath.Base(path),
		MIMEType:    mimeType,
		Path:        abs,
	}, nil
}

// sniff returns the detected MIME type and whether it, or one of its parents
// in the detection tree, is a video type.
func sniff(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	mimeType := baseType(detected.String())
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(baseType(m.String()), "video/") {
			return mimeType, true
		}
	}
	return mimeType, false
}

func baseType(value string) string {
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}
