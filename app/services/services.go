// Package services holds the storefront's business rules. Services depend on
// the repository interfaces only, so the same code runs against MongoDB and
// the in-memory stores.
package services

import (
	"time"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/pkg/auth"
	"github.com/shashiranjanraj/glamify/pkg/cache"
	"github.com/shashiranjanraj/glamify/pkg/event"
	"github.com/shashiranjanraj/glamify/pkg/storage"
)

// Event names fired on the dispatcher.
const (
	EventOrderPlaced    = "order.placed"
	EventReviewCreated  = "review.created"
	EventProductChanged = "product.changed"
)

// OrderPlaced is the payload of EventOrderPlaced. Products holds each
// ordered product as it was right after its stock was reserved.
type OrderPlaced struct {
	Order    models.Order
	Products []models.Product
}

// ReviewCreated is the payload of EventReviewCreated.
type ReviewCreated struct {
	Review  models.Review
	Product models.Product
}

// ProductChanged is the payload of EventProductChanged.
type ProductChanged struct {
	Product models.Product
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Repos  repositories.Set
	Tokens *auth.Manager
	Cache  cache.Store
	Disk   storage.Disk
	Events *event.Dispatcher

	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

type Services struct {
	Auth      *AuthService
	Catalog   *CatalogService
	Orders    *OrderService
	Reviews   *ReviewService
	Favorites *FavoriteService
	Profile   *ProfileService
}

func New(d Deps) *Services {
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}
	catalog := NewCatalogService(d.Repos.Products, d.Cache, CatalogOptions{
		CacheTTL:        d.CacheTTL,
		DefaultPageSize: d.DefaultPageSize,
		MaxPageSize:     d.MaxPageSize,
		Disk:            d.Disk,
		Events:          d.Events,
	})
	return &Services{
		Auth:      NewAuthService(d.Repos.Users, d.Tokens),
		Catalog:   catalog,
		Orders:    NewOrderService(d.Repos.Orders, d.Repos.Products, d.Events),
		Reviews:   NewReviewService(d.Repos.Reviews, d.Repos.Products, d.Repos.Users, d.Events),
		Favorites: NewFavoriteService(d.Repos.Users, d.Repos.Products),
		Profile:   NewProfileService(d.Repos.Users),
	}
}
