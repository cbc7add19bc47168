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

type orderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{coll: db.Collection(ordersCollection)}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	defer observe("orders.insert")()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	_, err := r.coll.InsertOne(ctx, order)
	return translate(err)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	defer observe("orders.list")()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindForUser returns ErrNotFound both when the order does not exist and when
// it belongs to someone else.
func (r *orderRepository) FindForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error) {
	defer observe("orders.find")()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}
