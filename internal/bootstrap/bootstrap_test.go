package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/glamify/config"
)

func TestNewWithInMemoryBackends(t *testing.T) {
	require.NoError(t, config.LoadFrom("", ""))
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("STORAGE_LOCAL_ROOT", t.TempDir())

	app, err := New(context.Background())
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	require.NoError(t, err)

	assert.Nil(t, app.Mongo)
	assert.Nil(t, app.Redis)
	assert.NoError(t, app.Health(context.Background()))

	rec := httptest.NewRecorder()
	app.Kernel.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, ok := app.Kernel.Router().Path("storage")
	assert.True(t, ok, "local disk is served under /storage")
}

func TestCloseRunsInReverseOrder(t *testing.T) {
	var order []int
	a := &App{}
	a.onClose(func(context.Context) error { order = append(order, 1); return nil })
	a.onClose(func(context.Context) error { order = append(order, 2); return nil })

	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, []int{2, 1}, order)

	var nilApp *App
	assert.NoError(t, nilApp.Close(context.Background()))
}
