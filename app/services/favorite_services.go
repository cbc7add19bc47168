package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
)

type FavoriteService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
}

func NewFavoriteService(users repositories.UserRepository, products repositories.ProductRepository) *FavoriteService {
	return &FavoriteService{users: users, products: products}
}

func (s *FavoriteService) load(ctx context.Context, userID string) (*models.User, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("User")
	}
	return user, err
}

// Add appends productID to the caller's favorites. Adding a product that is
// already a favorite changes nothing.
func (s *FavoriteService) Add(ctx context.Context, userID, productID string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return notFound("Product")
	}
	if user.HasFavorite(pid) {
		return nil
	}
	if _, err := s.products.FindByID(ctx, pid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Product")
		}
		return err
	}

	favorites := append(append([]primitive.ObjectID{}, user.Favorites...), pid)
	return s.users.SetFavorites(ctx, user.ID, favorites)
}

// Remove drops productID from the caller's favorites. Removing a product
// that is not a favorite changes nothing.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil
	}

	favorites := make([]primitive.ObjectID, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		if id != pid {
			favorites = append(favorites, id)
		}
	}
	return s.users.SetFavorites(ctx, user.ID, favorites)
}

// List returns the caller's favorite products in the order they were added.
// Products deleted since are skipped.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Product, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindByIDs(ctx, user.Favorites)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]models.Product, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
