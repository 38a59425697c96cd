package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bcimerge/internal/build"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Align session logs and write a training dataset",
		Example: `  bcimerge build --manifest level4.toml
  bcimerge build --pair bci/l4_01.csv,speller/l4_01.csv --output merged.json --shift 200 --length 38`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			job, err := flags.load(cmd, cfg)
			if err != nil {
				return err
			}
			if err := job.Validate(); err != nil {
				return err
			}

			result, err := build.New(cfg, logger).Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}
			printBuildResult(cmd, result)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the build result as JSON")
	return cmd
}

func printBuildResult(cmd *cobra.Command, result *build.Result) {
	out := cmd.OutOrStdout()
	s := result.Summary
	fmt.Fprintf(out, "Dataset written to %s\n", result.Output)
	fmt.Fprintf(out, "  Run ID:      %s\n", result.RunID)
	fmt.Fprintf(out, "  Device:      %s\n", result.Device)
	fmt.Fprintf(out, "  Window:      %d samples, shift %d\n", result.Length, result.Shift)
	fmt.Fprintf(out, "  Datapoints:  %d (%d correct, %d incorrect)\n", s.Datapoints, s.Correct, s.Incorrect)
	if s.Truncated > 0 {
		fmt.Fprintf(out, "  Truncated:   %d\n", s.Truncated)
	}
	fmt.Fprintf(out, "  SHA-256:     %s\n", result.SHA256)
	fmt.Fprintf(out, "  Recorded:    %s\n", yesNo(result.Recorded))

	rows := make([][]string, 0, len(result.Sessions))
	for i, stats := range result.Sessions {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			stats.Session.Signal,
			stats.Session.Events,
			strconv.Itoa(stats.Samples),
			strconv.Itoa(stats.Events),
			strconv.Itoa(stats.Datapoints),
			strconv.Itoa(stats.Truncated),
		})
	}
	table := renderTable(
		[]string{"#", "Signal", "Events", "Samples", "Events", "Datapoints", "Truncated"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
	fmt.Fprintln(out, strings.TrimRight(table, "\n"))
}
