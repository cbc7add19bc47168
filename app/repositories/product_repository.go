package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/glamify/app/models"
)

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository returns a ProductRepository backed by the products
// collection.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{coll: db.Collection(productsCollection)}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	defer observe("products.insert")()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, product)
	return translate(err)
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	defer observe("products.find")()

	var p models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	defer observe("products.find")()

	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	defer observe("products.list")()

	query := listQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sortDoc(filter.Sort))
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func listQuery(filter ProductFilter) bson.M {
	query := bson.M{}
	if filter.HasCategory() {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	return query
}

// sortDoc always ends with _id so pages stay stable when the primary key ties.
func sortDoc(key SortKey) bson.D {
	switch key {
	case SortPriceLow:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case SortRating:
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	defer observe("products.distinct")()

	raw, err := r.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *productRepository) SuggestNames(ctx context.Context, query string, limit int) ([]string, error) {
	defer observe("products.suggest")()

	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx,
		bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}},
		opts,
	)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	defer observe("products.count")()
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *productRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	defer observe("products.reserve")()

	var p models.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
		returnAfter(),
	).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// The guard failed: either the product is gone or it is short.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, ErrInsufficientStock
}

func (r *productRepository) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	defer observe("products.release")()

	var p models.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}},
		returnAfter(),
	).Decode(&p)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ApplyRating updates rating_sum and rated in one pipeline update so concurrent
// reviews never lose an increment. reviews and rating are rederived from them,
// dropping any seeded placeholder values.
func (r *productRepository) ApplyRating(ctx context.Context, id primitive.ObjectID, rating int) (*models.Product, error) {
	defer observe("products.rate")()

	sum := bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$rating_sum", 0}}, rating}}
	count := bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$rated", 0}}, 1}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"rating_sum": sum, "rated": count}}},
		{{Key: "$set", Value: bson.M{
			"reviews": "$rated",
			"rating":  bson.M{"$divide": bson.A{"$rating_sum", "$rated"}},
		}}},
	}

	var p models.Product
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, returnAfter()).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepository) SetImage(ctx context.Context, id primitive.ObjectID, image string) (*models.Product, error) {
	defer observe("products.update")()

	var p models.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"image": image}},
		returnAfter(),
	).Decode(&p)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
