package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2}
  ],
  "format": {"filename": "clip.mov", "duration": "12.500000", "size": "1000", "bit_rate": "32000", "format_name": "mov,mp4,m4a"}
}`

func TestParseAndHelpers(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	video, ok := result.FirstVideo()
	if !ok {
		t.Fatal("expected a video stream")
	}
	if video.Resolution() != "1920x1080" {
		t.Fatalf("unexpected resolution %q", video.Resolution())
	}
	if fps := video.FramesPerSecond(); math.Abs(fps-29.97) > 0.01 {
		t.Fatalf("unexpected fps %v", fps)
	}
	if !result.HasVideo() || !result.HasAudio() {
		t.Fatal("expected both video and audio")
	}
	if result.DurationSeconds() != 12.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestHelpersHandleMissingAndInvalidValues(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", FrameRate: "0/0"}},
		Format:  Format{Duration: "bad", Size: "-1"},
	}
	if result.HasVideo() {
		t.Fatal("expected no video stream")
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if fps := result.Streams[0].FramesPerSecond(); fps != 0 {
		t.Fatalf("expected fps 0 for 0/0, got %v", fps)
	}
	if (Stream{FrameRate: "25"}).FramesPerSecond() != 25 {
		t.Fatal("expected plain frame rate to parse")
	}
	if (Stream{}).Resolution() != "" {
		t.Fatal("expected empty resolution")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n" + sampleJSON + "\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	result, err := Inspect(context.Background(), stub, "clip.mov")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.Format.FormatName != "mov,mp4,m4a" {
		t.Fatalf("unexpected format %q", result.Format.FormatName)
	}

	failing := filepath.Join(dir, "ffprobe-fail")
	if err := os.WriteFile(failing, []byte("#!/bin/sh\necho 'No such file' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Inspect(context.Background(), failing, "clip.mov"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
