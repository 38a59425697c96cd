package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bcimerge/internal/faults"
	"bcimerge/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate session logs and alignment without writing a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			job, err := flags.load(cmd, cfg)
			if err != nil {
				return err
			}
			if err := job.ValidateInputs(); err != nil {
				return err
			}

			report, err := preflight.RunAll(cmd.Context(), cfg, job)
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printCheckReport(cmd, report)
			}
			if !report.Passed() {
				return faults.Wrap(faults.ErrValidation, "check", "", "one or more checks failed", nil)
			}
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func printCheckReport(cmd *cobra.Command, report preflight.Report) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	if len(report.Environment) > 0 {
		fmt.Fprintln(out, renderSectionHeader("Environment", colorize))
		for _, res := range report.Environment {
			fmt.Fprintln(out, renderStatusLine(res.Name, passFail(res.Passed), res.Detail, colorize))
		}
	}
	for _, s := range report.Sessions {
		fmt.Fprintln(out, renderSectionHeader(fmt.Sprintf("Session %d", s.Position), colorize))
		fmt.Fprintln(out, renderStatusLine(s.Signal.Name, passFail(s.Signal.Passed), s.Signal.Detail, colorize))
		fmt.Fprintln(out, renderStatusLine(s.Events.Name, passFail(s.Events.Passed), s.Events.Detail, colorize))
		if s.Samples > 0 && s.EventCount > 0 {
			span := fmt.Sprintf("signal %d..%d, events %d..%d", s.SignalSpan.First, s.SignalSpan.Last, s.EventSpan.First, s.EventSpan.Last)
			fmt.Fprintln(out, renderStatusLine("Spans", statusInfo, span, colorize))
		}
		kind := passFail(s.Overlap.Passed)
		if s.Overlap.Passed && s.Truncated > 0 {
			kind = statusWarn
		}
		if s.Overlap.Detail == "skipped" {
			kind = statusInfo
		}
		fmt.Fprintln(out, renderStatusLine(s.Overlap.Name, kind, s.Overlap.Detail, colorize))
	}
	if report.Passed() {
		fmt.Fprintln(out, "All checks passed")
	}
}
