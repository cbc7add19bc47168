package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/glamify/app/models"
)

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository returns a UserRepository backed by the users collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observe("users.insert")()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}

	_, err := r.coll.InsertOne(ctx, user)
	return translate(err)
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	defer observe("users.find")()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	defer observe("users.find")()

	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observe("users.find")()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*models.User, error) {
	defer observe("users.update")()

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "email": email}},
		returnAfter(),
	).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) SetFavorites(ctx context.Context, id primitive.ObjectID, favorites []primitive.ObjectID) error {
	defer observe("users.update")()

	if favorites == nil {
		favorites = []primitive.ObjectID{}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"favorites": favorites}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
