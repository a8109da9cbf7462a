package main

import (
	"github.com/spf13/cobra"

	"github.com/pentshop/pentshop/internal/server"
)

// pentshop serve — start the HTTP and gRPC servers.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}
