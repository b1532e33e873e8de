package convert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clipforge/internal/command"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/metrics"
	"clipforge/internal/services"
	"clipforge/internal/session"
)

// Engine is the transcoding engine contract.
type Engine interface {
	WriteInput(name string, data []byte) error
	Execute(ctx context.Context, args []string) error
	ReadOutput(name string) ([]byte, error)
	Remove(name string) error
}

// Deliverer hands finished output to the user.
type Deliverer interface {
	Deliver(ctx context.Context, data []byte, mimeType, name string) (string, error)
}

// Result describes a delivered conversion.
type Result struct {
	OutputName string
	MIMEType   string
	Path       string
	Bytes      int
	Elapsed    time.Duration
	Args       []string
}

// Orchestrator runs conversions for one session, one at a time.
type Orchestrator struct {
	session   *session.Session
	engine    Engine
	deliverer Deliverer
	limits    command.Limits
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logging.NewComponentLogger(logger, "convert")
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(o *Orchestrator) {
		o.metrics = recorder
	}
}

// New builds an Orchestrator.
func New(sess *session.Session, eng Engine, deliverer Deliverer, limits command.Limits, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		session:   sess,
		engine:    eng,
		deliverer: deliverer,
		limits:    limits,
		logger:    logging.NewComponentLogger(nil, "convert"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit starts a conversion and waits for it to finish.
func (o *Orchestrator) Submit(ctx context.Context, form command.Form) (Result, error) {
	task, err := o.Start(ctx, form)
	if err != nil {
		return Result{}, err
	}
	return task.Wait()
}

// Start admits a conversion and runs it in the background. Admission,
// form validation and command construction happen before Start returns; a
// rejected submission never touches the engine. Once admitted the conversion
// runs to completion even if ctx is cancelled.
func (o *Orchestrator) Start(ctx context.Context, form command.Form) (*Task, error) {
	if form.Kind == command.KindUnset {
		form.Kind = o.session.Kind()
	}
	ctx = services.WithSessionID(ctx, o.session.ID())
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, o.logger).With(logging.String(logging.FieldKind, form.Kind.Token()))

	input, err := o.session.Begin()
	if err != nil {
		o.reject(logger, form.Kind, err)
		return nil, err
	}

	req, err := command.ParseForm(form, input.DisplayName, o.limits)
	if err != nil {
		o.release(logger, form.Kind, err)
		return nil, err
	}
	cmd := command.Build(input.DisplayName, req)
	if err := command.ValidateOutput(input.DisplayName, cmd); err != nil {
		o.release(logger, form.Kind, err)
		return nil, err
	}

	task := newTask(req, cmd)
	logger.Info("conversion started",
		logging.String(logging.FieldEventType, "conversion_started"),
		logging.String("input", input.DisplayName),
		logging.String("output", cmd.OutputName),
		logging.Float64("start_seconds", req.StartSeconds),
		logging.Float64("duration_seconds", req.DurationSeconds),
	)
	go o.run(context.WithoutCancel(ctx), logger, task, input)
	return task, nil
}

func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger, task *Task, input media.Input) {
	cmd := task.Command
	started := time.Now()
	data, err := o.transcode(ctx, logger, input, cmd)
	elapsed := time.Since(started)
	if err != nil {
		o.session.End()
		o.metrics.ObserveConversion(task.Request.Kind.Token(), err, elapsed)
		logger.Error("conversion failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "conversion_failed"),
			logging.String(logging.FieldErrorHint, "check the input file and trim window"),
			logging.Duration("elapsed", elapsed),
		)
		task.finish(Result{}, err)
		return
	}

	location, err := o.deliverer.Deliver(ctx, data, cmd.MIMEType, cmd.OutputName)
	if err != nil {
		if !errors.Is(err, services.ErrDelivery) {
			err = services.Wrap(services.ErrDelivery, "convert", "deliver", cmd.OutputName, err)
		}
		o.session.End()
		o.metrics.ObserveConversion(task.Request.Kind.Token(), err, elapsed)
		logger.Error("conversion delivery failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "conversion_delivery_failed"),
		)
		task.finish(Result{}, err)
		return
	}

	o.session.Reset()
	o.metrics.ObserveConversion(task.Request.Kind.Token(), nil, elapsed)
	o.metrics.AddOutputBytes(len(data))
	logger.Info("conversion completed",
		logging.String(logging.FieldEventType, "conversion_completed"),
		logging.String("output", cmd.OutputName),
		logging.String("location", location),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", elapsed),
	)
	task.finish(Result{
		OutputName: cmd.OutputName,
		MIMEType:   cmd.MIMEType,
		Path:       location,
		Bytes:      len(data),
		Elapsed:    elapsed,
		Args:       append([]string(nil), cmd.Args...),
	}, nil)
}

// transcode stages the input, runs the engine and reads the output back. A
// successful read clears both files from the workspace. On failure only the
// output is removed; the staged input stays until the next attempt replaces it.
func (o *Orchestrator) transcode(ctx context.Context, logger *slog.Logger, input media.Input, cmd command.Command) ([]byte, error) {
	if err := o.engine.WriteInput(input.DisplayName, input.Data); err != nil {
		return nil, services.Wrap(services.ErrConversion, "convert", "stage input", input.DisplayName, err)
	}
	if err := o.engine.Remove(cmd.OutputName); err != nil {
		return nil, services.Wrap(services.ErrConversion, "convert", "clear output", cmd.OutputName, err)
	}
	if err := o.engine.Execute(ctx, cmd.Args); err != nil {
		o.cleanup(logger, cmd.OutputName)
		return nil, services.Wrap(services.ErrConversion, "convert", "execute", "", err)
	}
	data, err := o.engine.ReadOutput(cmd.OutputName)
	if err != nil {
		return nil, services.Wrap(services.ErrConversion, "convert", "read output", cmd.OutputName, err)
	}
	o.cleanup(logger, input.DisplayName, cmd.OutputName)
	return data, nil
}

func (o *Orchestrator) cleanup(logger *slog.Logger, names ...string) {
	for _, name := range names {
		if err := o.engine.Remove(name); err != nil {
			logger.Debug("workspace cleanup failed", logging.String("file", name), logging.Error(err))
		}
	}
}

// reject records a submission refused at admission. Session state is untouched.
func (o *Orchestrator) reject(logger *slog.Logger, kind command.Kind, err error) {
	o.metrics.ObserveConversion(kind.Token(), err, 0)
	logger.Warn("conversion rejected",
		logging.Error(err),
		logging.String(logging.FieldEventType, "conversion_rejected"),
		logging.String("outcome", services.Outcome(err)),
	)
}

// release undoes a successful admission whose form turned out invalid.
func (o *Orchestrator) release(logger *slog.Logger, kind command.Kind, err error) {
	o.session.End()
	o.reject(logger, kind, err)
}
