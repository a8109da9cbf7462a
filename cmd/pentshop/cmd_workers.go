package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pentshop/pentshop/config"
	"github.com/pentshop/pentshop/internal/server"
	"github.com/pentshop/pentshop/pkg/queue"
)

var queueWorkersFlag int

// pentshop queue:work — run notification workers without the HTTP API.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the notification queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := config.Load(); err != nil {
			return err
		}
		if err := server.Bootstrap(ctx); err != nil {
			return err
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}
		queue.StartWorkers(ctx, workers)
		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
