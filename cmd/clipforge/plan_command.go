package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clipforge/internal/command"
	"clipforge/internal/engine"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Show the ffmpeg command a conversion would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			form, err := flags.form()
			if err != nil {
				return err
			}
			if form.Kind == command.KindUnset {
				if form.Kind, err = command.ParseKind(cfg.Conversion.DefaultKind); err != nil {
					return err
				}
			}

			inputName := filepath.Base(strings.TrimSpace(args[0]))
			req, err := command.ParseForm(form, inputName, command.LimitsFromConfig(cfg))
			if err != nil {
				return err
			}
			built := command.Build(inputName, req)
			if err := command.ValidateOutput(inputName, built); err != nil {
				return err
			}

			rows := [][]string{
				{"Input", inputName},
				{"Kind", req.Kind.Label()},
				{"Start", fmt.Sprintf("%ss", built.Args[3])},
				{"Duration", fmt.Sprintf("%ss", built.Args[5])},
				{"Output", built.OutputName},
				{"MIME type", built.MIMEType},
				{"Saved to", filepath.Join(cfg.Paths.OutputDir, built.OutputName)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValues(rows))
			fmt.Fprintf(out, "%s %s\n", cfg.FFmpegBinary(), strings.Join(engine.CommandLine(built.Args), " "))
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}
