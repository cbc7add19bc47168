package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/glamify/app/repositories/memory"
	"github.com/shashiranjanraj/glamify/app/routes"
	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/config"
	"github.com/shashiranjanraj/glamify/database/seeders"
	"github.com/shashiranjanraj/glamify/internal/bootstrap"
	"github.com/shashiranjanraj/glamify/internal/kernel"
	"github.com/shashiranjanraj/glamify/internal/server"
	"github.com/shashiranjanraj/glamify/pkg/auth"
	"github.com/shashiranjanraj/glamify/pkg/logger"
)

var skipSeed bool

// storefront serve — start the HTTP and gRPC servers.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := bootstrap.New(ctx)
		defer closeApp(app)
		if err != nil {
			return err
		}

		if !skipSeed {
			env := seeders.Env{Repos: app.Repos, Services: app.Services}
			if err := seeders.SeedProducts(ctx, env); err != nil {
				logger.Error("seeding sample products failed", "error", err)
			}
		}

		return server.Run(ctx, app, server.Config{
			HTTPAddr: ":" + config.AppPort(),
			GRPCPort: config.GRPCPort(),
		})
	},
}

// storefront route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipSeed, "no-seed", false, "do not insert sample products into an empty catalog")
}

// printRoutes builds the kernel against in-memory backends; only the route
// table is read.
func printRoutes(out io.Writer) error {
	placeholder := http.NotFoundHandler()
	k := kernel.NewHTTPKernel(routes.API{
		Services:    services.New(services.Deps{Repos: memory.NewSet()}),
		Tokens:      auth.NewManager("route-list", time.Minute),
		GraphQL:     placeholder,
		StockFeed:   placeholder,
		StockStream: placeholder,
	}, kernel.Options{Storage: placeholder})

	infos := k.Router().Routes()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No named routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

func closeApp(app *bootstrap.App) {
	if app == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Close(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
