package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/client"
)

var createCmd = &cobra.Command{
	Use:   "create <resource>",
	Short: "Create a record from a JSON file",
	Long: `Create a record from a JSON file. The field rules are checked before anything is sent,
so an invalid record never reaches the backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <resource> <id>",
	Short: "Replace a record with the contents of a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

var (
	createFile string
	updateFile string
)

func init() {
	createCmd.Flags().StringVar(&createFile, "file", "", "Path to the JSON record (required)")
	if err := createCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	updateCmd.Flags().StringVar(&updateFile, "file", "", "Path to the JSON record (required)")
	if err := updateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(createCmd, updateCmd, deleteCmd)
}

// mutator returns the store of resource, reporting its notices on out.
func (c *console) mutator(resource string, out io.Writer) (client.Mutator, error) {
	if err := checkResource(resource); err != nil {
		return nil, err
	}
	notifier := client.NewNotifier(0)
	notifier.OnNotice = func(n client.Notice) {
		if n.Level == client.LevelError {
			_, _ = fmt.Fprintf(out, "Error: %s\n", n.Message)
			return
		}
		_, _ = fmt.Fprintln(out, n.Message)
	}
	return client.NewStores(c.client, notifier).For(resource), nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(createFile)
	if err != nil {
		return fmt.Errorf("failed to read record file: %w", err)
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	m, err := con.mutator(args[0], out)
	if err != nil {
		return err
	}

	if _, err := m.CreateJSON(cmd.Context(), data); err != nil {
		printFieldErrors(out, err)
		return err
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[1], err)
	}
	data, err := os.ReadFile(updateFile)
	if err != nil {
		return fmt.Errorf("failed to read record file: %w", err)
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	m, err := con.mutator(args[0], out)
	if err != nil {
		return err
	}

	if err := m.UpdateJSON(cmd.Context(), id, data); err != nil {
		printFieldErrors(out, err)
		return err
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[1], err)
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}
	m, err := con.mutator(args[0], cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return m.Remove(cmd.Context(), id)
}
