package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultStock is applied when a product is created without a stock count.
const DefaultStock = 100

// Product represents a product in the catalogue.
//
// Rating and Reviews may carry catalogue placeholders until the first review
// lands. RatingSum and Rated track only submitted reviews; once Rated > 0,
// Reviews == Rated and Rating == RatingSum / Rated.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	Name          string             `bson:"name"           json:"name"`
	Category      string             `bson:"category"       json:"category"`
	Price         float64            `bson:"price"          json:"price"`
	OriginalPrice float64            `bson:"original_price" json:"originalPrice"`
	Rating        float64            `bson:"rating"         json:"rating"`
	Reviews       int                `bson:"reviews"        json:"reviews"`
	RatingSum     float64            `bson:"rating_sum"     json:"-"`
	Rated         int                `bson:"rated"          json:"-"`
	Image         string             `bson:"image"          json:"image"`
	Description   string             `bson:"description"    json:"description"`
	Tag           string             `bson:"tag"            json:"tag"`
	Stock         int                `bson:"stock"          json:"stock"`
	CreatedAt     time.Time          `bson:"created_at"     json:"createdAt"`
}

// ApplyRating folds one more review rating into the running aggregate.
func (p *Product) ApplyRating(rating int) {
	p.RatingSum += float64(rating)
	p.Rated++
	p.Reviews = p.Rated
	p.Rating = p.RatingSum / float64(p.Rated)
}
