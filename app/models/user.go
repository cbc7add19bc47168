package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered shopper. Password holds the bcrypt hash and is never
// serialised to JSON.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name"          json:"name"`
	Email     string               `bson:"email"         json:"email"`
	Password  string               `bson:"password"      json:"-"`
	Favorites []primitive.ObjectID `bson:"favorites"     json:"favorites"`
	CreatedAt time.Time            `bson:"created_at"    json:"createdAt"`
}

// UserSummary is the public shape returned alongside auth tokens.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary trims u down to the fields safe to echo back after login.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
}

// HasFavorite reports whether productID is already in the favorites list.
func (u *User) HasFavorite(productID primitive.ObjectID) bool {
	for _, id := range u.Favorites {
		if id == productID {
			return true
		}
	}
	return false
}
