package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/observability"
)

var importTimesheetsCmd = &cobra.Command{
	Use:   "import-timesheets",
	Short: "Import timesheet lines from an XLSX workbook",
	Long: `Upload a workbook whose first sheet has the columns employee_email, date, hours,
status and notes. Lines that cannot be imported are listed with their row number.`,
	RunE: runImportTimesheets,
}

var uploadResumeCmd = &cobra.Command{
	Use:   "upload-resume <submission-id>",
	Short: "Attach a resume file to a submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadResume,
}

var attachmentsCmd = &cobra.Command{
	Use:   "attachments <owner-type> <owner-id>",
	Short: "List the files attached to a record",
	Long:  "List the files attached to a record. owner-type is submission, requirement, client or employee.",
	Args:  cobra.ExactArgs(2),
	RunE:  runAttachments,
}

var downloadCmd = &cobra.Command{
	Use:   "download <attachment-id>",
	Short: "Download an attachment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

var (
	importFile  string
	uploadFile  string
	downloadOut string
)

func init() {
	importTimesheetsCmd.Flags().StringVar(&importFile, "file", "", "Path to the XLSX workbook (required)")
	if err := importTimesheetsCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	uploadResumeCmd.Flags().StringVar(&uploadFile, "file", "", "Path to the resume (required)")
	if err := uploadResumeCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "Output path (default: the stored file name)")

	rootCmd.AddCommand(importTimesheetsCmd, uploadResumeCmd, attachmentsCmd, downloadCmd)
}

func runImportTimesheets(cmd *cobra.Command, _ []string) error {
	con, err := loadConsole()
	if err != nil {
		return err
	}
	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	result, err := con.client.ImportTimesheets(cmd.Context(), filepath.Base(importFile), f)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintImportResult(result)
	return nil
}

func runUploadResume(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid submission id %q: %w", args[0], err)
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}
	f, err := os.Open(uploadFile)
	if err != nil {
		return fmt.Errorf("failed to open resume: %w", err)
	}
	defer func() { _ = f.Close() }()

	att, err := con.client.UploadResume(cmd.Context(), id, filepath.Base(uploadFile), f)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintAttachment(att)
	return nil
}

func runAttachments(cmd *cobra.Command, args []string) error {
	ownerType := args[0]
	id, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", args[1], err)
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}
	list, err := con.client.Attachments(cmd.Context(), ownerType, id)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No attachments")
		return nil
	}

	tw := newTabWriter(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(tw, "ID\tFILE\tTYPE\tSIZE\tUPLOADED")
	for _, a := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", a.ID, a.FileName, a.ContentType, a.Size, a.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runDownload(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid attachment id %q: %w", args[0], err)
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(".", ".staffdesk-download-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	name, err := con.client.Download(cmd.Context(), id, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	out := downloadOut
	if out == "" {
		out = name
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", out)
	return nil
}
