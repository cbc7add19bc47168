// Package ctx gives handlers a single *Context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func (c *ProductController) Show(ctx *appctx.Context) {
//	    product, err := c.catalog.Get(ctx.Context(), ctx.Param("id"))
//	    ...
//	    ctx.Success(product)
//	}
//
//	api.Get("/products/{id}", "products.show", appctx.Wrap(c.Show))
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/glamify/pkg/auth"
	"github.com/shashiranjanraj/glamify/pkg/bind"
	"github.com/shashiranjanraj/glamify/pkg/middleware"
	"github.com/shashiranjanraj/glamify/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	clear(c.store)
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, "" when absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt parses a query value as an integer, returning def when the value
// is absent or not a number.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func (c *Context) Header(key string) string { return c.R.Header.Get(key) }

func (c *Context) ClientIP() string { return middleware.ClientIP(c.R) }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the id of the authenticated caller, "" on public routes.
func (c *Context) UserID() string { return auth.UserID(c.R.Context()) }

// ─── Per-request store ────────────────────────────────────────────────────────

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation. On a decode
// error it sends 400, on a validation failure 422, and returns false; the
// handler should return immediately.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v unwrapped with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Success sends a 200 envelope.
func (c *Context) Success(data any) {
	c.status = http.StatusOK
	response.Success(c.W, data)
}

// SuccessMessage sends a 200 envelope with a message.
func (c *Context) SuccessMessage(message string, data any) {
	c.status = http.StatusOK
	response.SuccessMessage(c.W, message, data)
}

// Created sends a 201 envelope.
func (c *Context) Created(message string, data any) {
	c.status = http.StatusCreated
	response.Created(c.W, message, data)
}

// Error sends an error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// Internal sends a 500 carrying err's text.
func (c *Context) Internal(err error) {
	c.status = http.StatusInternalServerError
	response.Internal(c.W, err)
}

// ValidationError sends a 422 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, errs)
}

func (c *Context) NotFound(message string) { c.Error(http.StatusNotFound, message) }

// WrittenStatus returns the status written through this Context, or 0.
func (c *Context) WrittenStatus() int { return c.status }
