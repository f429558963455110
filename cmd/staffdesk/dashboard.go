package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/client"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print record counts per resource and status",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	con, err := loadConsole()
	if err != nil {
		return err
	}
	dash, err := client.LoadDashboard(cmd.Context(), con.client)
	if err != nil {
		return err
	}

	tw := newTabWriter(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(tw, "RESOURCE\tTOTAL\tBY STATUS")
	for _, s := range dash.Summaries {
		parts := make([]string, 0, len(s.ByStatus))
		for _, status := range s.Statuses() {
			parts = append(parts, fmt.Sprintf("%s=%d", status, s.ByStatus[status]))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Resource, s.Total, strings.Join(parts, " "))
	}
	return tw.Flush()
}
