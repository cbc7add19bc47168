package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/glamify/app/models"
)

type reviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{coll: db.Collection(reviewsCollection)}
}

// Create relies on the unique (user, product) index; a second review by the
// same user yields ErrDuplicate.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	defer observe("reviews.insert")()

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, review)
	return translate(err)
}

func (r *reviewRepository) Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	defer observe("reviews.count")()

	n, err := r.coll.CountDocuments(ctx,
		bson.M{"user": userID, "product": productID},
		options.Count().SetLimit(1),
	)
	return n > 0, err
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	defer observe("reviews.list")()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"product": productID}, opts)
	if err != nil {
		return nil, err
	}
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
