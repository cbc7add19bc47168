// Package server runs the HTTP and gRPC listeners until the context is
// cancelled, then drains them.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/shashiranjanraj/glamify/internal/bootstrap"
	grpcserver "github.com/shashiranjanraj/glamify/pkg/grpc"
	"github.com/shashiranjanraj/glamify/pkg/logger"
)

type Config struct {
	HTTPAddr string
	// GRPCPort empty disables the gRPC health endpoint.
	GRPCPort        string
	ShutdownTimeout time.Duration
}

// Run serves app until ctx is done. In-flight HTTP requests get
// ShutdownTimeout to finish.
func Run(ctx context.Context, app *bootstrap.App, cfg Config) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Kernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		grpcSrv = grpcserver.NewServer(app.Health)
		if _, err := grpcserver.Start(grpcSrv, cfg.GRPCPort); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcSrv != nil {
		g.Go(func() error {
			<-ctx.Done()
			grpcserver.Stop(grpcSrv, cfg.ShutdownTimeout)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
