package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Record lifecycle events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print record changes as they happen",
	Long: `Print created, updated and deleted events until interrupted.

By default events come from the backend's live stream. With --broker they are consumed from
the RabbitMQ queue instead (RABBITMQ_URL, EVENTS_QUEUE), which removes them from the queue.`,
	RunE: runEventsTail,
}

var (
	tailResource string
	tailBroker   bool
)

func init() {
	eventsTailCmd.Flags().StringVarP(&tailResource, "resource", "r", "", "Only show events of this resource")
	eventsTailCmd.Flags().BoolVar(&tailBroker, "broker", false, "Consume from RabbitMQ instead of the backend stream")
	eventsCmd.AddCommand(eventsTailCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsTail(cmd *cobra.Command, _ []string) error {
	if tailResource != "" {
		if err := checkResource(tailResource); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if tailBroker {
		url := os.Getenv("RABBITMQ_URL")
		if url == "" {
			return fmt.Errorf("RABBITMQ_URL environment variable is required with --broker")
		}
		mq, err := events.Dial(url, os.Getenv("EVENTS_QUEUE"))
		if err != nil {
			return err
		}
		defer func() { _ = mq.Close() }()
		return mq.Consume(ctx, func(e events.Event) {
			if tailResource == "" || e.Resource == tailResource {
				printEvent(out, e)
			}
		})
	}

	con, err := loadConsole()
	if err != nil {
		return err
	}
	return con.client.Follow(ctx, tailResource, func(e events.Event) {
		printEvent(out, e)
	})
}

func printEvent(w io.Writer, e events.Event) {
	actor := e.Actor
	if actor == "" {
		actor = "-"
	}
	_, _ = fmt.Fprintf(w, "%s  %-22s %s  by %s\n", e.OccurredAt.Local().Format("2006-01-02 15:04:05"), e.Type, e.ID, actor)
}
