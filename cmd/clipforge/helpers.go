package main

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"clipforge/internal/command"
)

// formFlags binds the conversion form fields to command flags. Unset flags
// stay empty so defaults apply.
type formFlags struct {
	name  string
	start string
	time  string
	kind  string
}

func (f *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Output base name (default: input name without extension)")
	cmd.Flags().StringVar(&f.start, "start", "", "Trim start in seconds (default 0)")
	cmd.Flags().StringVar(&f.time, "time", "", "Clip duration in seconds (default from config)")
	cmd.Flags().StringVar(&f.kind, "kind", "", "Output kind: gif or mp3 (default from config)")
}

func (f *formFlags) form() (command.Form, error) {
	form := command.Form{Name: f.name, Start: f.start, Time: f.time}
	if strings.TrimSpace(f.kind) != "" {
		kind, err := command.ParseKind(f.kind)
		if err != nil {
			return command.Form{}, err
		}
		form.Kind = kind
	}
	return form, nil
}

func formatBytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
