package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pentshop",
	Short: "Pent-Shop backend CLI",
	Long:  "Pent-Shop is the church shop backend: orders, payments, catalogue and notifications.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(dbIndexCmd)
}
