package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/glamify/config"
	"github.com/shashiranjanraj/glamify/internal/bootstrap"
)

func TestRunStopsCleanlyOnCancel(t *testing.T) {
	require.NoError(t, config.LoadFrom("", ""))
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("STORAGE_LOCAL_ROOT", t.TempDir())

	app, err := bootstrap.New(context.Background())
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, app, Config{HTTPAddr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
