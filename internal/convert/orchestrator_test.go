package convert

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"clipforge/internal/command"
	"clipforge/internal/delivery"
	"clipforge/internal/engine"
	"clipforge/internal/media"
	"clipforge/internal/metrics"
	"clipforge/internal/refs"
	"clipforge/internal/services"
	"clipforge/internal/session"
	"clipforge/internal/testsupport"
)

type fakeEngine struct {
	mu       sync.Mutex
	files    map[string][]byte
	calls    [][]string
	writes   int
	execErr  error
	release  chan struct{}
	started  chan struct{}
	noOutput bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{files: make(map[string][]byte)}
}

func (f *fakeEngine) WriteInput(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.files[name] = append([]byte(nil), data...)
	return nil
}

func (f *fakeEngine) Execute(_ context.Context, args []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	started, release := f.started, f.release
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	if f.execErr != nil {
		return f.execErr
	}
	if f.noOutput {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[args[len(args)-1]] = []byte("converted:" + args[1])
	return nil
}

func (f *fakeEngine) ReadOutput(name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[name]
	if !ok {
		return nil, services.Wrap(services.ErrConversion, "engine", "read output", "missing "+name, nil)
	}
	return data, nil
}

func (f *fakeEngine) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, name)
	return nil
}

func (f *fakeEngine) executions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeDeliverer struct {
	mu        sync.Mutex
	err       error
	delivered []string
	mimeTypes []string
}

func (d *fakeDeliverer) Deliver(_ context.Context, _ []byte, mimeType, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return "", d.err
	}
	d.delivered = append(d.delivered, name)
	d.mimeTypes = append(d.mimeTypes, mimeType)
	return "/out/" + name, nil
}

type fixture struct {
	session   *session.Session
	engine    *fakeEngine
	deliverer *fakeDeliverer
	orch      *Orchestrator
	registry  *refs.Registry
	path      string
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	testsupport.WriteVideo(t, path, 128)
	registry := refs.NewRegistry()
	sess := session.New(registry, command.KindAnimatedImage, media.OpenOptions{RequireVideo: true})
	if _, err := sess.Select(path); err != nil {
		t.Fatalf("Select: %v", err)
	}
	eng := newFakeEngine()
	del := &fakeDeliverer{}
	return &fixture{
		session:   sess,
		engine:    eng,
		deliverer: del,
		orch:      New(sess, eng, del, command.DefaultLimits(), WithMetrics(metrics.New())),
		registry:  registry,
		path:      path,
	}
}

func TestSubmitAnimatedImage(t *testing.T) {
	fx := newFixture(t, "clip.mov")
	result, err := fx.orch.Submit(context.Background(), command.Form{Start: "5", Time: "8", Kind: command.KindAnimatedImage})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	want := []string{"-i", "clip.mov", "-ss", "5", "-t", "8", "-f", "gif", "clip.gif"}
	if !reflect.DeepEqual(result.Args, want) || !reflect.DeepEqual(fx.engine.calls[0], want) {
		t.Fatalf("unexpected args %q", result.Args)
	}
	if result.OutputName != "clip.gif" || result.MIMEType != "image/gif" || result.Path != "/out/clip.gif" {
		t.Fatalf("unexpected result %+v", result)
	}
	snap := fx.session.Snapshot()
	if snap.HasInput() || snap.Status != session.StatusIdle {
		t.Fatalf("expected empty idle session after success, got %+v", snap)
	}
	if fx.registry.Len() != 0 {
		t.Fatalf("expected preview URL revoked, %d live", fx.registry.Len())
	}
	if len(fx.engine.files) != 0 {
		t.Fatalf("expected clean workspace, found %d files", len(fx.engine.files))
	}
}

func TestSubmitUsesSessionKind(t *testing.T) {
	fx := newFixture(t, "clip.mov")
	if err := fx.session.SetKind(command.KindAudio); err != nil {
		t.Fatalf("SetKind: %v", err)
	}
	result, err := fx.orch.Submit(context.Background(), command.Form{Name: "myclip"})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	want := []string{"-i", "clip.mov", "-ss", "0", "-t", "10", "-f", "mp3", "myclip.mp3"}
	if !reflect.DeepEqual(result.Args, want) {
		t.Fatalf("args = %q, want %q", result.Args, want)
	}
	if fx.deliverer.mimeTypes[0] != "audio/mp3" {
		t.Fatalf("unexpected mime %q", fx.deliverer.mimeTypes[0])
	}
}

func TestStartWhileBusyIsRejectedWithoutStaging(t *testing.T) {
	fx := newFixture(t, "clip.mov")
	fx.engine.started = make(chan struct{})
	fx.engine.release = make(chan struct{})

	task, err := fx.orch.Start(context.Background(), command.Form{})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	<-fx.engine.started

	if _, err := fx.orch.Start(context.Background(), command.Form{}); !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := fx.session.Close(); !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected ErrBusy from Close, got %v", err)
	}
	if fx.engine.writes != 1 || fx.engine.executions() != 1 {
		t.Fatalf("expected one staging and one execution, got %d/%d", fx.engine.writes, fx.engine.executions())
	}

	close(fx.engine.release)
	if _, err := task.Wait(); err != nil {
		t.Fatalf("task failed: %v", err)
	}
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Wait")
	}
}

func TestExecuteFailureKeepsInput(t *testing.T) {
	fx := newFixture(t, "clip.mov")
	fx.engine.execErr = errors.New("exit status 1")
	_, err := fx.orch.Submit(context.Background(), command.Form{})
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
	snap := fx.session.Snapshot()
	if snap.Status != session.StatusIdle || snap.DisplayName != "clip.mov" {
		t.Fatalf("expected idle session with input, got %+v", snap)
	}
	if len(fx.deliverer.delivered) != 0 {
		t.Fatal("nothing should be delivered after a failed conversion")
	}
	if _, ok := fx.engine.files["clip.mov"]; !ok || len(fx.engine.files) != 1 {
		t.Fatalf("expected only the staged input in the workspace, found %d files", len(fx.engine.files))
	}

	fx.engine.execErr = nil
	if _, err := fx.orch.Submit(context.Background(), command.Form{}); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestMissingOutputIsConversionError(t *testing.T) {
	fx := newFixture(t, "clip.mov")
	fx.engine.noOutput = true
	if _, err := fx.orch.Submit(context.Background(), command.Form{}); !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
	if !fx.session.Snapshot().HasInput() {
		t.Fatal("input should be retained")
	}
}

func TestDeliveryFailureKeepsInput(t *testing.T) {
	fx := newFixture(t, "clip.mov")
	fx.deliverer.err = errors.New("disk full")
	_, err := fx.orch.Submit(context.Background(), command.Form{})
	if !errors.Is(err, services.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	snap := fx.session.Snapshot()
	if snap.Status != session.StatusIdle || !snap.HasInput() {
		t.Fatalf("expected idle session with input, got %+v", snap)
	}
}

func TestInvalidFormReleasesSession(t *testing.T) {
	fx := newFixture(t, "clip.mov")
	for _, form := range []command.Form{{Start: "-1"}, {Time: "abc"}, {Time: "31"}} {
		if _, err := fx.orch.Start(context.Background(), form); !errors.Is(err, services.ErrInput) {
			t.Fatalf("Start(%+v) expected ErrInput, got %v", form, err)
		}
		if fx.session.Status() != session.StatusIdle {
			t.Fatalf("session left busy after invalid form %+v", form)
		}
	}
	if fx.engine.writes != 0 || fx.engine.executions() != 0 {
		t.Fatal("engine touched by invalid form")
	}
}

func TestOutputNameCollidingWithInputIsRejected(t *testing.T) {
	fx := newFixture(t, "clip.gif")
	_, err := fx.orch.Start(context.Background(), command.Form{Name: "clip", Kind: command.KindAnimatedImage})
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
	if fx.session.Status() != session.StatusIdle {
		t.Fatal("session should be idle after rejection")
	}
}

func TestSubmitWithoutInput(t *testing.T) {
	sess := session.New(nil, command.KindAnimatedImage, media.OpenOptions{})
	eng := newFakeEngine()
	orch := New(sess, eng, &fakeDeliverer{}, command.DefaultLimits())
	if _, err := orch.Submit(context.Background(), command.Form{}); !errors.Is(err, services.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	if eng.writes != 0 {
		t.Fatal("engine touched without input")
	}
}

func TestSubmitThroughStubbedEngine(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(testsupport.StubCopy))
	eng := engine.New(cfg, nil)
	if err := eng.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer eng.Close()

	path := filepath.Join(testsupport.BaseDir(cfg), "in", "holiday.mp4")
	payload := testsupport.WriteVideo(t, path, 512)
	registry := refs.NewRegistry()
	sess := session.New(registry, command.KindAudio, media.OpenOptions{RequireVideo: true})
	if _, err := sess.Select(path); err != nil {
		t.Fatalf("Select: %v", err)
	}
	deliverer := delivery.NewDeliverer(registry, delivery.NewDirSaver(cfg.Paths.OutputDir, false), nil)
	orch := New(sess, eng, deliverer, command.LimitsFromConfig(cfg))

	result, err := orch.Submit(context.Background(), command.Form{Time: "3"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Path != filepath.Join(cfg.Paths.OutputDir, "holiday.mp3") || result.Bytes != len(payload) {
		t.Fatalf("unexpected result %+v", result)
	}
	args := testsupport.StubArgs(t, cfg)
	tail := args[len(args)-9:]
	want := []string{"-i", "holiday.mp4", "-ss", "0", "-t", "3", "-f", "mp3", "holiday.mp3"}
	if !reflect.DeepEqual(tail, want) {
		t.Fatalf("engine args = %q, want suffix %q", args, want)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected all references released, %d live", registry.Len())
	}
}
