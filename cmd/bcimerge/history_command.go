package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bcimerge/internal/catalog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded dataset builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Catalog.Enabled {
				return fmt.Errorf("build catalog is disabled (set [catalog] enabled = true)")
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			builds, err := store.ListBuilds(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if builds == nil {
					builds = []*catalog.Build{}
				}
				return writeJSON(cmd, builds)
			}

			out := cmd.OutOrStdout()
			if len(builds) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			rows := make([][]string, 0, len(builds))
			for _, b := range builds {
				rows = append(rows, []string{
					b.CreatedAt.Local().Format(time.DateTime),
					shortID(b.RunID),
					b.Output,
					b.Device,
					strconv.Itoa(len(b.Sessions)),
					strconv.Itoa(b.Datapoints),
					fmt.Sprintf("%d/%d", b.Length, b.Shift),
				})
			}
			table := renderTable(
				[]string{"Created", "Run", "Output", "Device", "Sessions", "Datapoints", "Length/Shift"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			)
			fmt.Fprintln(out, strings.TrimRight(table, "\n"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of builds to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print builds as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
