package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// mp4Header is the smallest ftyp box content sniffers recognise as video/mp4.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
	'm', 'p', '4', '2', 'i', 's', 'o', 'm',
}

// VideoBytes returns an MP4-looking buffer of at least size bytes.
func VideoBytes(size int) []byte {
	if size < len(mp4Header) {
		size = len(mp4Header)
	}
	buf := make([]byte, size)
	copy(buf, mp4Header)
	for i := len(mp4Header); i < size; i++ {
		buf[i] = 0x42
	}
	return buf
}

// WriteVideo writes an MP4-looking file at path and returns its contents.
func WriteVideo(t testing.TB, path string, size int) []byte {
	t.Helper()
	data := VideoBytes(size)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return data
}
