package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bcimerge/internal/device"
)

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "devices",
		Short:       "List supported signal log devices and their headers",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			names := device.Names()
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				adapter, err := device.Lookup(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					adapter.Name(),
					strconv.Itoa(len(adapter.Channels())),
					device.ExpectedHeader(adapter),
				})
			}
			table := renderTable([]string{"Device", "Channels", "Header"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(table, "\n"))
			return nil
		},
	}
}
