// Package main provides the staffdesk command: the REST backend and a console that talks to it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "staffdesk",
	Short: "Recruitment agency back office",
	Long: "staffdesk serves the requirements, submissions, interviews, clients, employees and " +
		"timesheets of a recruitment agency over REST, and browses them from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	apiURLFlag     string
	configPathFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (overrides api_url from the config file)")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Console config file (default: STAFFDESK_CONFIG or the user config directory)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
