package routes

import (
	"net/http"

	"github.com/shashiranjanraj/glamify/app/controllers"
	"github.com/shashiranjanraj/glamify/app/services"
	appctx "github.com/shashiranjanraj/glamify/pkg/ctx"
	"github.com/shashiranjanraj/glamify/pkg/middleware"
	"github.com/shashiranjanraj/glamify/pkg/router"
)

// API holds what the /api routes are served by. A nil GraphQL, StockFeed or
// StockStream handler leaves that route out.
type API struct {
	Services    *services.Services
	Tokens      middleware.TokenValidator
	GraphQL     http.Handler
	StockFeed   http.Handler
	StockStream http.Handler
}

func RegisterAPI(r *router.Router, a API) {
	authController := controllers.NewAuthController(a.Services.Auth)
	productController := controllers.NewProductController(a.Services.Catalog)
	orderController := controllers.NewOrderController(a.Services.Orders)
	favoriteController := controllers.NewFavoriteController(a.Services.Favorites)
	reviewController := controllers.NewReviewController(a.Services.Reviews)
	profileController := controllers.NewProfileController(a.Services.Profile)

	api := r.Group("/api")
	api.Post("/auth/register", "auth.register", appctx.Wrap(authController.Register))
	api.Post("/auth/login", "auth.login", appctx.Wrap(authController.Login))

	api.Get("/products", "products.index", appctx.Wrap(productController.Index))
	api.Get("/products/{id}", "products.show", appctx.Wrap(productController.Show))
	api.Post("/products", "products.store", appctx.Wrap(productController.Store))
	api.Get("/categories", "categories.index", appctx.Wrap(productController.Categories))
	api.Get("/search/suggestions", "search.suggestions", appctx.Wrap(productController.Suggestions))
	api.Get("/reviews/{productId}", "reviews.index", appctx.Wrap(reviewController.Index))

	if a.GraphQL != nil {
		api.Get("/graphql", "graphql.query", a.GraphQL.ServeHTTP)
		api.Post("/graphql", "graphql.execute", a.GraphQL.ServeHTTP)
	}
	if a.StockFeed != nil {
		api.Get("/ws/stock", "stock.feed", a.StockFeed.ServeHTTP)
	}
	if a.StockStream != nil {
		api.Get("/stock/stream", "stock.stream", a.StockStream.ServeHTTP)
	}

	protected := api.Group("", middleware.Authenticate(a.Tokens))
	protected.Post("/products/{id}/image", "products.image", appctx.Wrap(productController.UploadImage))

	protected.Post("/orders", "orders.store", appctx.Wrap(orderController.Store))
	protected.Get("/orders", "orders.index", appctx.Wrap(orderController.Index))
	protected.Get("/orders/{id}", "orders.show", appctx.Wrap(orderController.Show))

	protected.Get("/favorites", "favorites.index", appctx.Wrap(favoriteController.Index))
	protected.Post("/favorites/{productId}", "favorites.add", appctx.Wrap(favoriteController.Add))
	protected.Delete("/favorites/{productId}", "favorites.remove", appctx.Wrap(favoriteController.Remove))

	protected.Post("/reviews", "reviews.store", appctx.Wrap(reviewController.Store))

	protected.Get("/user/profile", "profile.show", appctx.Wrap(profileController.Show))
	protected.Put("/user/profile", "profile.update", appctx.Wrap(profileController.Update))
}
