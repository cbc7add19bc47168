package kernel_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/app/repositories/memory"
	"github.com/shashiranjanraj/glamify/app/routes"
	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/internal/kernel"
	"github.com/shashiranjanraj/glamify/pkg/auth"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

type api struct {
	t       *testing.T
	handler http.Handler
	repos   repositories.Set
}

func newAPI(t *testing.T) *api {
	t.Helper()
	repos := memory.NewSet()
	tokens := auth.NewManager("kernel-test", time.Hour)
	svc := services.New(services.Deps{Repos: repos, Tokens: tokens})

	k := kernel.NewHTTPKernel(routes.API{Services: svc, Tokens: tokens}, kernel.Options{})
	return &api{t: t, handler: k.Handler(), repos: repos}
}

func (a *api) do(method, path string, body any, token string) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (a *api) register(email string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ada", "email": email, "password": "secret1",
	}, "")
	require.Equal(a.t, http.StatusCreated, code, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func (a *api) product(name string, stock int) models.Product {
	a.t.Helper()
	p := models.Product{Name: name, Category: "makeup", Price: 20, Description: name, Stock: stock}
	require.NoError(a.t, a.repos.Products.Create(context.Background(), &p))
	return p
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	a.register("ada@example.com")

	code, env := a.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ADA@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already exists", env.Message)

	code, env = a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "nope-nope",
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid credentials", env.Message)

	code, env = a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", env.Message)

	code, env = a.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "x"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "password")
}

func TestBearerTokenRequired(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/api/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access token required", env.Message)

	code, env = a.do(http.MethodGet, "/api/orders", nil, "not.a.token")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestCatalogEndpoints(t *testing.T) {
	a := newAPI(t)
	p := a.product("Velvet Matte Lipstick", 30)
	a.product("Volume Mascara", 10)

	code, env := a.do(http.MethodGet, "/api/products?limit=1&sort=price-low", nil, "")
	require.Equal(t, http.StatusOK, code)
	var page services.ProductPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Products, 1)

	code, _ = a.do(http.MethodGet, "/api/products/"+p.ID.Hex(), nil, "")
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodGet, "/api/products/64b0a1b2c3d4e5f601234567", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product not found", env.Message)

	code, env = a.do(http.MethodGet, "/api/search/suggestions?q=vol", nil, "")
	require.Equal(t, http.StatusOK, code)
	var names []string
	require.NoError(t, json.Unmarshal(env.Data, &names))
	assert.Equal(t, []string{"Volume Mascara"}, names)

	code, env = a.do(http.MethodPost, "/api/products", map[string]any{
		"name": "Serum", "category": "skincare", "price": 32.5, "originalPrice": 40,
		"image": "https://img.test/serum.jpg", "description": "hydrating", "tag": "New",
	}, "")
	require.Equal(t, http.StatusCreated, code)
	var created models.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.DefaultStock, created.Stock)

	code, env = a.do(http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, code)
	var cats []string
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	assert.Equal(t, []string{"makeup", "skincare"}, cats)
}

func TestProductPaging(t *testing.T) {
	a := newAPI(t)
	for i, price := range []float64{40, 10, 50, 30, 20} {
		p := models.Product{Name: fmt.Sprintf("Item %d", i), Category: "makeup", Price: price, Stock: 5}
		require.NoError(t, a.repos.Products.Create(context.Background(), &p))
	}

	code, env := a.do(http.MethodGet, "/api/products?sort=price-low&page=2&limit=2", nil, "")
	require.Equal(t, http.StatusOK, code)
	var page services.ProductPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Products, 2)
	assert.Equal(t, 30.0, page.Products[0].Price)
	assert.Equal(t, 40.0, page.Products[1].Price)

	code, env = a.do(http.MethodGet, "/api/products?page=9223372036854775807&limit=2", nil, "")
	require.Equal(t, http.StatusOK, code, env.Message)
	page = services.ProductPage{}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Products)
	assert.EqualValues(t, 5, page.Total)
}

func TestOrderEndpoints(t *testing.T) {
	a := newAPI(t)
	token := a.register("ada@example.com")
	p := a.product("Radiant Glow Foundation", 5)

	order := map[string]any{
		"items":           []map[string]any{{"product": p.ID.Hex(), "quantity": 3, "price": 20}},
		"total":           60,
		"shippingAddress": map[string]string{"city": "Pune"},
	}
	code, env := a.do(http.MethodPost, "/api/orders", order, token)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var placed models.Order
	require.NoError(t, json.Unmarshal(env.Data, &placed))

	code, env = a.do(http.MethodPost, "/api/orders", order, token)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Insufficient stock for Radiant Glow Foundation", env.Message)

	code, env = a.do(http.MethodPost, "/api/orders", map[string]any{"items": []any{}}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "items")

	code, env = a.do(http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusOK, code)
	var list []services.OrderDetail
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Radiant Glow Foundation", list[0].Items[0].Product.Name)

	code, _ = a.do(http.MethodGet, "/api/orders/"+placed.ID.Hex(), nil, token)
	assert.Equal(t, http.StatusOK, code)

	other := a.register("bob@example.com")
	code, env = a.do(http.MethodGet, "/api/orders/"+placed.ID.Hex(), nil, other)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Order not found", env.Message)
}

func TestFavoritesReviewsAndProfile(t *testing.T) {
	a := newAPI(t)
	token := a.register("ada@example.com")
	p := a.product("Hydrating Face Serum", 5)

	code, env := a.do(http.MethodPost, "/api/favorites/"+p.ID.Hex(), nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Product added to favorites", env.Message)

	code, env = a.do(http.MethodGet, "/api/favorites", nil, token)
	require.Equal(t, http.StatusOK, code)
	var favs []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &favs))
	require.Len(t, favs, 1)

	code, env = a.do(http.MethodDelete, "/api/favorites/"+p.ID.Hex(), nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Product removed from favorites", env.Message)

	review := map[string]any{"productId": p.ID.Hex(), "rating": 4, "comment": "lovely"}
	code, _ = a.do(http.MethodPost, "/api/reviews", review, token)
	require.Equal(t, http.StatusCreated, code)

	code, env = a.do(http.MethodPost, "/api/reviews", review, token)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You have already reviewed this product", env.Message)

	code, env = a.do(http.MethodGet, "/api/reviews/"+p.ID.Hex(), nil, "")
	require.Equal(t, http.StatusOK, code)
	var reviews []services.ReviewView
	require.NoError(t, json.Unmarshal(env.Data, &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Ada", reviews[0].User.Name)

	code, env = a.do(http.MethodGet, "/api/user/profile", nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "password")

	code, env = a.do(http.MethodPut, "/api/user/profile", map[string]string{"name": "Ada L.", "email": "ada.l@example.com"}, token)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "ada.l@example.com")
}

func TestFrameworkRoutes(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", env.Message)

	code, _ = a.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, code)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_")
}
