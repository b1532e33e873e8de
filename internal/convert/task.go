package convert

import "clipforge/internal/command"

// Task is an admitted conversion running in the background.
type Task struct {
	// Request and Command are fixed at admission.
	Request command.Request
	Command command.Command

	done   chan struct{}
	result Result
	err    error
}

func newTask(req command.Request, cmd command.Command) *Task {
	return &Task{Request: req, Command: cmd, done: make(chan struct{})}
}

// Done is closed when the conversion has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the conversion finishes and returns its outcome.
func (t *Task) Wait() (Result, error) {
	<-t.done
	return t.result, t.err
}

func (t *Task) finish(result Result, err error) {
	t.result = result
	t.err = err
	close(t.done)
}
