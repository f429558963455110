package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/events"
	"github.com/jonathan/staffdesk/internal/server"
	"github.com/jonathan/staffdesk/internal/storage"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the staffdesk REST endpoints.

Requires DATABASE_URL and JWT_SECRET. RABBITMQ_URL enables event publishing; STORAGE_BACKEND
selects local, s3 or gcs attachment storage.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Get database URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	queue := os.Getenv("EVENTS_QUEUE")
	if queue == "" {
		queue = events.DefaultQueue
	}

	cfg := server.Config{
		Port:        servePort,
		DatabaseURL: databaseURL,
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		EventsQueue: queue,
		Storage:     storage.LoadConfig(),
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
