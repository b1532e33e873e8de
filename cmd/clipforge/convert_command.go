package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a video file to GIF or MP3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form()
			if err != nil {
				return err
			}
			rt, err := ctx.newConversionRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			input, err := rt.session.Select(args[0])
			if err != nil {
				return err
			}
			task, err := rt.orchestrator.Start(cmd.Context(), form)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			label := fmt.Sprintf("Converting %s to %s", input.DisplayName, task.Command.OutputName)
			result, err := waitWithIndicator(out, task, label)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s (%s, %s) in %s\n",
				result.Path, result.MIMEType, formatBytes(result.Bytes), result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}
