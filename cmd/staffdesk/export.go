package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/client"
)

var exportCmd = &cobra.Command{
	Use:   "export <resource>",
	Short: "Download records as CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var (
	exportFormat  string
	exportOut     string
	exportSearch  string
	exportFilters []string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format: csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, - for stdout (default <resource>.<format>)")
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Only export rows matching this text")
	exportCmd.Flags().StringArrayVarP(&exportFilters, "filter", "f", nil, "Column filter as key=value (repeatable)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	resource := args[0]
	if err := checkResource(resource); err != nil {
		return err
	}
	if exportFormat != "csv" && exportFormat != "xlsx" {
		return fmt.Errorf("unsupported format %q (csv or xlsx)", exportFormat)
	}
	filters, err := parseFilters(exportFilters)
	if err != nil {
		return err
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = resource + "." + exportFormat
	}
	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	q := client.Query{Search: exportSearch, Filters: filters}
	if err := con.client.Export(cmd.Context(), resource, exportFormat, q, w); err != nil {
		if out != "-" {
			_ = os.Remove(out)
		}
		return err
	}
	if out != "-" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	}
	return nil
}
