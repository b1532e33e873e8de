package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/command"
	"clipforge/internal/services"
	"clipforge/internal/session"
)

const shellHelp = `Commands:
  open <file>                 select a video file
  close                       discard the selected file
  kind gif|mp3                choose the output kind
  convert [name=] [start=] [time=] [kind=]
                              convert the selected file in the background
  status                      show the session state
  help                        show this help
  quit                        wait for a running conversion and exit`

func newShellCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive conversion session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.newConversionRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			sh := newShell(rt, cmd.OutOrStdout())
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// lockedWriter serializes writes from the prompt loop and background tasks.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type shell struct {
	rt          *conversionRuntime
	out         *lockedWriter
	interactive bool
	tasks       sync.WaitGroup
}

func newShell(rt *conversionRuntime, out io.Writer) *shell {
	return &shell{
		rt:          rt,
		out:         &lockedWriter{w: out},
		interactive: isTerminal(out),
	}
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	defer s.wait()

	scanner := bufio.NewScanner(in)
	s.prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			s.prompt()
			continue
		}
		quit, err := s.dispatch(ctx, line)
		if err != nil {
			s.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *shell) dispatch(ctx context.Context, line string) (bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(name) {
	case "open":
		return false, s.open(rest)
	case "close":
		return false, s.close()
	case "kind":
		return false, s.kind(rest)
	case "convert":
		return false, s.convert(ctx, rest)
	case "status":
		s.status()
		return false, nil
	case "help", "?":
		s.printf("%s\n", shellHelp)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try help)", name)
	}
}

func (s *shell) open(path string) error {
	if path == "" {
		return errors.New("usage: open <file>")
	}
	input, err := s.rt.session.Select(path)
	if err != nil {
		return err
	}
	s.printf("Opened %s (%s, %s) %s\n", input.DisplayName, input.MIMEType, formatBytes(input.Size()), input.ObjectURL)
	return nil
}

func (s *shell) close() error {
	if err := s.rt.session.Close(); err != nil {
		return err
	}
	s.printf("Closed\n")
	return nil
}

func (s *shell) kind(value string) error {
	kind, err := command.ParseKind(value)
	if err != nil {
		return err
	}
	if err := s.rt.session.SetKind(kind); err != nil {
		return err
	}
	s.printf("Output kind: %s\n", kind.Label())
	return nil
}

func (s *shell) convert(ctx context.Context, rest string) error {
	form, err := parseShellForm(rest)
	if err != nil {
		return err
	}
	snap := s.rt.session.Snapshot()
	task, err := s.rt.orchestrator.Start(ctx, form)
	if err != nil {
		return err
	}
	s.printf("Converting %s to %s in the background\n", snap.DisplayName, task.Command.OutputName)

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		result, err := task.Wait()
		if err != nil {
			s.printf("\nconversion failed: %v\n", err)
		} else {
			s.printf("\nSaved %s (%s) in %s\n", result.Path, formatBytes(result.Bytes), result.Elapsed.Round(time.Millisecond))
		}
		s.prompt()
	}()
	return nil
}

func (s *shell) status() {
	snap := s.rt.session.Snapshot()
	rows := [][]string{
		{"Status", snap.Status.String()},
		{"Kind", snap.Kind.Label()},
	}
	if snap.HasInput() {
		rows = append(rows,
			[]string{"Input", snap.DisplayName},
			[]string{"Type", snap.MIMEType},
			[]string{"Size", formatBytes(snap.Size)},
			[]string{"Preview", snap.ObjectURL},
		)
	} else {
		rows = append(rows, []string{"Input", "none"})
	}
	s.printf("%s\n", renderKeyValues(rows))
}

// wait blocks until background conversions finish.
func (s *shell) wait() {
	if s.rt.session.Status() == session.StatusBusy {
		s.printf("Waiting for the running conversion to finish\n")
	}
	s.tasks.Wait()
}

func (s *shell) prompt() {
	if s.interactive {
		s.printf("clipforge> ")
	}
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// parseShellForm reads key=value pairs for the convert command.
func parseShellForm(rest string) (command.Form, error) {
	var form command.Form
	for _, field := range strings.Fields(rest) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return command.Form{}, services.Wrap(services.ErrInput, "shell", "convert", fmt.Sprintf("expected key=value, got %q", field), nil)
		}
		switch strings.ToLower(key) {
		case "name":
			form.Name = value
		case "start":
			form.Start = value
		case "time":
			form.Time = value
		case "kind":
			kind, err := command.ParseKind(value)
			if err != nil {
				return command.Form{}, err
			}
			form.Kind = kind
		default:
			return command.Form{}, services.Wrap(services.ErrInput, "shell", "convert", fmt.Sprintf("unknown field %q", key), nil)
		}
	}
	return form, nil
}
