package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"bcimerge/internal/convert"
	"bcimerge/internal/logging"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Rewrite legacy recordings into the canonical log formats",
	}
	convertCmd.AddCommand(newConvertEmotivCommand(ctx))
	convertCmd.AddCommand(newConvertEventsCommand(ctx))
	return convertCmd
}

func newConvertEmotivCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "emotiv SRC",
		Short: "Convert a raw Emotiv export into an emotiv signal log",
		Long: `Convert a raw Emotiv export into an emotiv signal log.

The first row of the export must carry "timestamp started:<seconds>" in
column 2 and "sampling:<hz>" in column 3. Timestamps are synthesized from
them in microseconds. Without --output the source file is rewritten in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, ctx, "emotiv", args[0], output, convert.EmotivExport)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination (default: overwrite SRC)")
	return cmd
}

func newConvertEventsCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "events SRC",
		Short: "Convert float-second event timestamps to integer microseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, ctx, "events", args[0], output, convert.EventTimestamps)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination (default: overwrite SRC)")
	return cmd
}

func runConversion(cmd *cobra.Command, ctx *commandContext, kind, src, dst string, fn func(string, string) (convert.Report, error)) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	logger = logging.NewComponentLogger(logger, "convert")

	if strings.TrimSpace(dst) == "" {
		dst = src
	}
	report, err := fn(src, dst)
	if err != nil {
		logger.Error("conversion failed", slog.String("kind", kind), slog.String(logging.FieldPath, src), logging.Error(err))
		return err
	}
	logger.Info("conversion complete",
		slog.String("kind", kind),
		slog.String(logging.FieldPath, dst),
		slog.Int("rows", report.Rows),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d rows from %s to %s\n", report.Rows, src, dst)
	return nil
}
