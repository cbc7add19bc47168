package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Seeders register themselves from init().
	_ "github.com/shashiranjanraj/glamify/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Glamify storefront API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dbIndexCmd)
}
