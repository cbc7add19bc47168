package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a single rating left by a user. At most one exists per
// (User, Product) pair.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user"          json:"user"`
	Product   primitive.ObjectID `bson:"product"       json:"product"`
	Rating    int                `bson:"rating"        json:"rating"`
	Comment   string             `bson:"comment"       json:"comment"`
	CreatedAt time.Time          `bson:"created_at"    json:"createdAt"`
}
