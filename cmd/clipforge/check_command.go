package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/deps"
	"clipforge/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that ffmpeg and the clipforge directories are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			fmt.Fprintln(out, "Dependencies:")
			missing := 0
			for _, status := range deps.CheckBinaries(deps.Engine(cfg.FFmpegBinary(), cfg.FFprobeBinary())) {
				switch {
				case status.Available:
					fmt.Fprintln(out, renderStatusLine(status.Name, statusOK, status.Path, colorize))
				case status.Optional:
					fmt.Fprintln(out, renderStatusLine(status.Name, statusWarn, status.Detail+" ("+status.Description+" disabled)", colorize))
				default:
					missing++
					fmt.Fprintln(out, renderStatusLine(status.Name, statusError, status.Detail, colorize))
				}
			}

			fmt.Fprintln(out, "Preflight:")
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if failed := preflight.Failed(results); missing > 0 || len(failed) > 0 {
				return fmt.Errorf("%d required dependencies missing, %d checks failed", missing, len(failed))
			}
			return nil
		},
	}
}
