// Package repositories defines the storefront's persistence contracts and
// their MongoDB implementations. An in-process implementation of the same
// interfaces lives in the memory sub-package.
package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("repositories: record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("repositories: duplicate record")
	// ErrInsufficientStock is returned by ReserveStock when the product
	// holds fewer units than requested.
	ErrInsufficientStock = errors.New("repositories: insufficient stock")
)

// SortKey selects the ordering of a product listing.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps a query value to a SortKey, defaulting to SortNewest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return k
	default:
		return SortNewest
	}
}

// ProductFilter narrows and pages a product listing. An empty Category or
// "all" disables the category filter; Search is a case-insensitive substring
// matched against name and description.
type ProductFilter struct {
	Category string
	Search   string
	Sort     SortKey
	Skip     int
	Limit    int
}

// HasCategory reports whether the filter restricts by category.
func (f ProductFilter) HasCategory() bool {
	return f.Category != "" && f.Category != "all"
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*models.User, error)
	SetFavorites(ctx context.Context, id primitive.ObjectID, favorites []primitive.ObjectID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	SuggestNames(ctx context.Context, query string, limit int) ([]string, error)
	Count(ctx context.Context) (int64, error)

	// ReserveStock decrements stock by qty only if at least qty units are
	// available, returning the updated product.
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
	// ReleaseStock returns qty units taken by ReserveStock.
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
	// ApplyRating folds one rating into the product's running mean.
	ApplyRating(ctx context.Context, id primitive.ObjectID, rating int) (*models.Product, error)
	SetImage(ctx context.Context, id primitive.ObjectID, image string) (*models.Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	// ListByProduct returns the product's reviews, newest first.
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
}

// Set bundles one implementation of every repository.
type Set struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
	Reviews  ReviewRepository
}
