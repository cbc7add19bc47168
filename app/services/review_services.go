package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/pkg/event"
	"github.com/shashiranjanraj/glamify/pkg/metrics"
)

type CreateReviewInput struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Rating    int    `json:"rating"    validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"   validate:"required,max=2000"`
}

type Reviewer struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// ReviewView is a review with its author expanded. User is nil when the
// author's account no longer exists.
type ReviewView struct {
	ID        primitive.ObjectID `json:"id"`
	User      *Reviewer          `json:"user"`
	Product   primitive.ObjectID `json:"product"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ReviewService struct {
	reviews  repositories.ReviewRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
	events   *event.Dispatcher
	now      func() time.Time
}

func NewReviewService(reviews repositories.ReviewRepository, products repositories.ProductRepository, users repositories.UserRepository, events *event.Dispatcher) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, users: users, events: events, now: time.Now}
}

// Create stores the caller's review and folds its rating into the product's
// running mean. A user reviews a product at most once.
func (s *ReviewService) Create(ctx context.Context, userID string, in CreateReviewInput) (*models.Review, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	if err := check(in); err != nil {
		return nil, err
	}
	pid, _ := primitive.ObjectIDFromHex(in.ProductID)

	if _, err := s.products.FindByID(ctx, pid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product")
		}
		return nil, err
	}

	exists, err := s.reviews.Exists(ctx, uid, pid)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		User:      uid,
		Product:   pid,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	product, err := s.products.ApplyRating(ctx, pid, in.Rating)
	if err != nil {
		return nil, err
	}

	metrics.ReviewsCreated.Inc()
	s.events.Fire(ctx, EventReviewCreated, ReviewCreated{Review: *review, Product: *product})
	return review, nil
}

// ListForProduct returns the product's reviews newest first.
func (s *ReviewService) ListForProduct(ctx context.Context, productID string) ([]ReviewView, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return []ReviewView{}, nil
	}

	reviews, err := s.reviews.ListByProduct(ctx, pid)
	if err != nil {
		return nil, err
	}

	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, r := range reviews {
		if !seen[r.User] {
			seen[r.User] = true
			ids = append(ids, r.User)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	out := make([]ReviewView, len(reviews))
	for i, r := range reviews {
		out[i] = ReviewView{
			ID:        r.ID,
			Product:   r.Product,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
		if name, ok := names[r.User]; ok {
			out[i].User = &Reviewer{ID: r.User, Name: name}
		}
	}
	return out, nil
}
