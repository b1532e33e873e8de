package delivery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clipforge/internal/refs"
	"clipforge/internal/services"
)

func TestDirSaverWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	saver := NewDirSaver(dir, false)
	location, err := saver.Save(context.Background(), "clip.gif", []byte("GIF89a"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if location != filepath.Join(dir, "clip.gif") {
		t.Fatalf("unexpected location %q", location)
	}
	data, err := os.ReadFile(location)
	if err != nil || string(data) != "GIF89a" {
		t.Fatalf("unexpected contents %q (%v)", data, err)
	}
}

func TestDirSaverPicksNumberedName(t *testing.T) {
	dir := t.TempDir()
	saver := NewDirSaver(dir, false)
	want := []string{"clip.mp3", "clip (1).mp3", "clip (2).mp3"}
	for i, expected := range want {
		location, err := saver.Save(context.Background(), "clip.mp3", []byte{byte(i)})
		if err != nil {
			t.Fatalf("Save #%d returned error: %v", i, err)
		}
		if filepath.Base(location) != expected {
			t.Fatalf("Save #%d wrote %q, want %q", i, filepath.Base(location), expected)
		}
	}
}

func TestDirSaverOverwrite(t *testing.T) {
	dir := t.TempDir()
	saver := NewDirSaver(dir, true)
	for _, payload := range []string{"first", "second"} {
		if _, err := saver.Save(context.Background(), "clip.gif", []byte(payload)); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "clip.gif"))
	if err != nil || string(data) != "second" {
		t.Fatalf("expected overwritten contents, got %q (%v)", data, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected a single file, got %d", len(entries))
	}
}

func TestDirSaverRejectsBadNames(t *testing.T) {
	saver := NewDirSaver(t.TempDir(), false)
	if _, err := saver.Save(context.Background(), "..", []byte("x")); err == nil {
		t.Fatal("expected error for invalid name")
	}
	if _, err := NewDirSaver("", false).Save(context.Background(), "a.gif", []byte("x")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

type failingSaver struct{ err error }

func (f failingSaver) Save(context.Context, string, []byte) (string, error) {
	return "", f.err
}

type recordingSaver struct {
	registry *refs.Registry
	live     int
	name     string
	data     []byte
}

func (r *recordingSaver) Save(_ context.Context, name string, data []byte) (string, error) {
	r.live = r.registry.Len()
	r.name = name
	r.data = data
	return "/saved/" + name, nil
}

func TestDelivererReleasesReference(t *testing.T) {
	registry := refs.NewRegistry()
	saver := &recordingSaver{registry: registry}
	d := NewDeliverer(registry, saver, nil)
	payload := []byte("GIF89a")
	location, err := d.Deliver(context.Background(), payload, "image/gif", "clip.gif")
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if location != "/saved/clip.gif" || saver.name != "clip.gif" || string(saver.data) != "GIF89a" {
		t.Fatalf("unexpected delivery %q %q %q", location, saver.name, saver.data)
	}
	if &saver.data[0] != &payload[0] {
		t.Fatal("expected the saver to receive the delivered buffer")
	}
	if saver.live != 1 {
		t.Fatalf("expected the reference to be live during save, got %d", saver.live)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected reference released, %d live", registry.Len())
	}
}

func TestDelivererFailureIsDeliveryError(t *testing.T) {
	registry := refs.NewRegistry()
	cause := errors.New("disk full")
	d := NewDeliverer(registry, failingSaver{err: cause}, nil)
	_, err := d.Deliver(context.Background(), []byte("x"), "audio/mp3", "clip.mp3")
	if !errors.Is(err, services.ErrDelivery) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrDelivery wrapping cause, got %v", err)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected reference released on failure, %d live", registry.Len())
	}
	if _, err := NewDeliverer(nil, nil, nil).Deliver(context.Background(), nil, "", "x.gif"); !errors.Is(err, services.ErrDelivery) {
		t.Fatalf("expected ErrDelivery without saver, got %v", err)
	}
}
