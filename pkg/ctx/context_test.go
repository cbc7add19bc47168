package ctx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	appctx "github.com/shashiranjanraj/glamify/pkg/ctx"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"ok": true})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":{"ok":true}`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestParamAndQuery(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}", appctx.Wrap(func(c *appctx.Context) {
		if got := c.Param("id"); got != "abc" {
			t.Errorf("expected abc, got %s", got)
		}
		if got := c.QueryInt("page", 1); got != 3 {
			t.Errorf("expected page 3, got %d", got)
		}
		if got := c.QueryInt("limit", 10); got != 10 {
			t.Errorf("expected default limit 10, got %d", got)
		}
		if got := c.DefaultQuery("sort", "newest"); got != "newest" {
			t.Errorf("expected default sort, got %s", got)
		}
		c.Success(nil)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc?page=3&limit=lots", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name string `json:"name" validate:"required"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
		if c.WrittenStatus() != http.StatusUnprocessableEntity {
			t.Errorf("expected tracked status 422, got %d", c.WrittenStatus())
		}
	})(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestBindJSONMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct{}
		c.BindJSON(&input)
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	appctx.Wrap(func(c *appctx.Context) {
		if ip := c.ClientIP(); ip != "1.2.3.4" {
			t.Errorf("expected 1.2.3.4, got %s", ip)
		}
	})(rec, req)
}
