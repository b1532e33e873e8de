package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"clipforge/internal/media/ffprobe"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize the streams in a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValues(inspectSummaryRows(result)))
			if len(result.Streams) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Type", "Codec", "Details"},
					inspectStreamRows(result),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}
}

func inspectSummaryRows(result ffprobe.Result) [][]string {
	duration := "unknown"
	if seconds := result.DurationSeconds(); seconds > 0 && !math.IsNaN(seconds) {
		duration = strconv.FormatFloat(seconds, 'f', 2, 64) + "s"
	}
	return [][]string{
		{"Container", result.Format.FormatName},
		{"Duration", duration},
		{"Size", formatBytes(int(result.SizeBytes()))},
		{"GIF", yesNo(result.HasVideo())},
		{"MP3", yesNo(result.HasAudio())},
	}
}

func inspectStreamRows(result ffprobe.Result) [][]string {
	rows := make([][]string, 0, len(result.Streams))
	for _, stream := range result.Streams {
		details := ""
		switch stream.CodecType {
		case "video":
			details = stream.Resolution()
			if fps := stream.FramesPerSecond(); fps > 0 {
				details += fmt.Sprintf(" @ %s fps", strconv.FormatFloat(fps, 'f', 2, 64))
			}
		case "audio":
			details = fmt.Sprintf("%s Hz, %d ch", stream.SampleRate, stream.Channels)
		}
		rows = append(rows, []string{strconv.Itoa(stream.Index), stream.CodecType, stream.CodecName, details})
	}
	return rows
}
