package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pentshop/pentshop/config"
	"github.com/pentshop/pentshop/pkg/database"
)

// pentshop db:index — create the Mongo indexes and exit.
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create MongoDB indexes (unique order references, user emails)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(ctx); err != nil {
			return err
		}
		defer database.Disconnect(ctx) //nolint:errcheck

		if err := database.EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Println("Indexes created.")
		return nil
	},
}
