package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bcimerge/internal/dataset"
	"bcimerge/internal/fileutil"
)

type inspectReport struct {
	Path        string          `json:"path"`
	Description string          `json:"desc"`
	SHA256      string          `json:"sha256"`
	Bytes       int64           `json:"bytes"`
	Summary     dataset.Summary `json:"summary"`
}

func newInspectCommand() *cobra.Command {
	var jsonOutput bool
	var length int

	cmd := &cobra.Command{
		Use:         "inspect DATASET",
		Short:       "Summarize a dataset file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ds, err := dataset.ReadFile(path)
			if err != nil {
				return err
			}
			sum, size, err := fileutil.HashFile(path)
			if err != nil {
				return err
			}
			report := inspectReport{
				Path:        path,
				Description: ds.Description,
				SHA256:      sum,
				Bytes:       size,
				Summary:     ds.Summarize(length),
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			s := report.Summary
			window := strconv.Itoa(s.MinWindow)
			if s.MinWindow != s.MaxWindow {
				window = fmt.Sprintf("%d-%d", s.MinWindow, s.MaxWindow)
			}
			rows := [][]string{
				{"Description", report.Description},
				{"Datapoints", strconv.Itoa(s.Datapoints)},
				{"Correct", strconv.Itoa(s.Correct)},
				{"Incorrect", strconv.Itoa(s.Incorrect)},
				{"Channels", strconv.Itoa(s.Channels)},
				{"Window samples", window},
				{"Truncated", strconv.Itoa(s.Truncated)},
				{"Size", strconv.FormatInt(report.Bytes, 10) + " bytes"},
				{"SHA-256", report.SHA256},
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(renderTable([]string{"Field", "Value"}, rows, nil), "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	cmd.Flags().IntVar(&length, "length", 0, "Expected window length for truncation counts (default: longest window)")
	return cmd
}
