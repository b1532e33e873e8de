package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"clipforge/internal/command"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/refs"
	"clipforge/internal/services"
)

// Status is the conversion state of a session.
type Status int

const (
	// StatusIdle allows selecting, closing and converting.
	StatusIdle Status = iota
	// StatusBusy means a conversion is running against the engine.
	StatusBusy
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusBusy:
		return "BUSY"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is a point-in-time copy of session state for display.
type Snapshot struct {
	ID          string
	Status      Status
	Kind        command.Kind
	DisplayName string
	ObjectURL   string
	MIMEType    string
	Size        int
}

// HasInput reports whether the snapshot holds a selected file.
func (s Snapshot) HasInput() bool {
	return s.DisplayName != ""
}

// Observer is notified whenever the status changes.
type Observer func(Status)

// Session holds the selected input, the output kind and the busy flag.
type Session struct {
	// notifyMu is held across a status change and its notification so the
	// observer sees changes in the order they happen.
	notifyMu sync.Mutex
	mu       sync.Mutex
	id       string
	input    media.Input
	status   Status
	kind     command.Kind
	refs     *refs.Registry
	opts     media.OpenOptions
	logger   *slog.Logger
	observer Observer
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logging.NewComponentLogger(logger, "session").With(logging.String(logging.FieldSessionID, s.id))
	}
}

// WithObserver registers a status observer. Changes are delivered in order.
// The observer may read the session but must not change its status.
func WithObserver(observer Observer) Option {
	return func(s *Session) {
		s.observer = observer
	}
}

// New creates an idle, empty session. kind is the initial output kind.
func New(registry *refs.Registry, kind command.Kind, opts media.OpenOptions, options ...Option) *Session {
	if registry == nil {
		registry = refs.NewRegistry()
	}
	if !kind.Valid() {
		kind = command.KindAnimatedImage
	}
	s := &Session{
		id:     uuid.NewString(),
		kind:   kind,
		refs:   registry,
		opts:   opts,
		logger: logging.NewNop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Select reads path and makes it the session input, replacing any previous
// input. On failure the session is unchanged.
func (s *Session) Select(path string) (media.Input, error) {
	s.mu.Lock()
	busy := s.status == StatusBusy
	s.mu.Unlock()
	if busy {
		return media.Input{}, services.Wrap(services.ErrBusy, "session", "select", "cannot change the input while converting", nil)
	}

	input, err := media.Open(path, s.opts)
	if err != nil {
		return media.Input{}, err
	}

	s.mu.Lock()
	if s.status == StatusBusy {
		s.mu.Unlock()
		return media.Input{}, services.Wrap(services.ErrBusy, "session", "select", "cannot change the input while converting", nil)
	}
	previous := s.input.ObjectURL
	input.ObjectURL = s.refs.Create(input.Data, input.MIMEType)
	s.input = input
	s.mu.Unlock()

	s.refs.Revoke(previous)
	s.logger.Info("input selected",
		logging.String(logging.FieldEventType, "input_selected"),
		logging.String("input", input.DisplayName),
		logging.String("mime_type", input.MIMEType),
		logging.Int("bytes", input.Size()),
		logging.Bool("replaced", previous != ""),
	)
	return input, nil
}

// Close discards the input. It is a no-op for an empty session and fails
// with ErrBusy while a conversion runs.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.status == StatusBusy {
		s.mu.Unlock()
		return services.Wrap(services.ErrBusy, "session", "close", "cannot close while converting", nil)
	}
	if s.input.Empty() {
		s.mu.Unlock()
		return nil
	}
	closed := s.clearLocked()
	s.mu.Unlock()

	s.logger.Info("input closed",
		logging.String(logging.FieldEventType, "input_closed"),
		logging.String("input", closed),
	)
	return nil
}

// SetStatus moves the session between IDLE and BUSY. BUSY requires an input.
func (s *Session) SetStatus(status Status) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	switch status {
	case StatusBusy:
		if s.input.Empty() {
			s.mu.Unlock()
			return services.Wrap(services.ErrNoInput, "session", "set status", "select a file first", nil)
		}
	case StatusIdle:
	default:
		s.mu.Unlock()
		return services.Wrap(services.ErrInput, "session", "set status", "unknown status "+status.String(), nil)
	}
	changed := s.status != status
	s.status = status
	s.mu.Unlock()
	if changed {
		s.notify(status)
	}
	return nil
}

// Begin atomically checks that an input is held and no conversion runs, then
// marks the session BUSY. It returns the input to convert.
func (s *Session) Begin() (media.Input, error) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	if s.input.Empty() {
		s.mu.Unlock()
		return media.Input{}, services.Wrap(services.ErrNoInput, "session", "begin", "select a file first", nil)
	}
	if s.status == StatusBusy {
		s.mu.Unlock()
		return media.Input{}, services.Wrap(services.ErrBusy, "session", "begin", "a conversion is already running", nil)
	}
	s.status = StatusBusy
	input := s.input
	s.mu.Unlock()
	s.notify(StatusBusy)
	return input, nil
}

// End returns the session to IDLE after a failed conversion; the input is kept.
func (s *Session) End() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	changed := s.status != StatusIdle
	s.status = StatusIdle
	s.mu.Unlock()
	if changed {
		s.notify(StatusIdle)
	}
}

// Reset clears the input and returns the session to IDLE after a delivered
// conversion.
func (s *Session) Reset() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	changed := s.status != StatusIdle
	s.clearLocked()
	s.status = StatusIdle
	s.mu.Unlock()
	if changed {
		s.notify(StatusIdle)
	}
}

// Kind returns the selected output kind.
func (s *Session) Kind() command.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// SetKind changes the output kind for the next submission.
func (s *Session) SetKind(kind command.Kind) error {
	if !kind.Valid() {
		return services.Wrap(services.ErrInput, "session", "set kind", "unknown output kind "+kind.String(), nil)
	}
	s.mu.Lock()
	s.kind = kind
	s.mu.Unlock()
	return nil
}

// Status returns the current status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot copies the displayable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.id,
		Status:      s.status,
		Kind:        s.kind,
		DisplayName: s.input.DisplayName,
		ObjectURL:   s.input.ObjectURL,
		MIMEType:    s.input.MIMEType,
		Size:        s.input.Size(),
	}
}

// clearLocked drops the input and revokes its URL. It returns the display
// name that was held.
func (s *Session) clearLocked() string {
	name := s.input.DisplayName
	s.refs.Revoke(s.input.ObjectURL)
	s.input = media.Input{}
	return name
}

func (s *Session) notify(status Status) {
	if s.observer != nil {
		s.observer(status)
	}
}
