package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/database/seeders"
	"github.com/shashiranjanraj/glamify/internal/bootstrap"
)

// storefront seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New(cmd.Context())
		defer closeApp(app)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(cmd.Context(), seeders.Env{Repos: app.Repos, Services: app.Services}, cmd.OutOrStdout())
	},
}

// storefront db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New(cmd.Context())
		defer closeApp(app)
		if err != nil {
			return err
		}
		if app.DB == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Memory store configured; nothing to index.")
			return nil
		}
		if err := repositories.EnsureIndexes(cmd.Context(), app.DB); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Indexes ready.")
		return nil
	},
}
