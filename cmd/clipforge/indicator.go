package main

import (
	"fmt"
	"io"
	"time"

	"clipforge/internal/convert"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

const spinnerInterval = 120 * time.Millisecond

// waitWithIndicator waits for task, animating a busy line on terminals.
// Non-terminal writers get no indicator output.
func waitWithIndicator(out io.Writer, task *convert.Task, label string) (convert.Result, error) {
	if !isTerminal(out) {
		return task.Wait()
	}
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	started := time.Now()
	for frame := 0; ; frame++ {
		select {
		case <-task.Done():
			fmt.Fprint(out, "\r\x1b[K")
			return task.Wait()
		case <-ticker.C:
			fmt.Fprintf(out, "\r%s %s (%s)", spinnerFrames[frame%len(spinnerFrames)], label, time.Since(started).Truncate(time.Second))
		}
	}
}
