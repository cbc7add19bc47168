package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyRatingKeepsRunningMean(t *testing.T) {
	p := &Product{}
	for _, r := range []int{4, 5, 3} {
		p.ApplyRating(r)
	}

	assert.Equal(t, 3, p.Reviews)
	assert.InDelta(t, 4.0, p.Rating, 1e-9)
	assert.InDelta(t, 12.0, p.RatingSum, 1e-9)
	assert.Equal(t, 3, p.Rated)
}

func TestApplyRatingReplacesPlaceholders(t *testing.T) {
	p := &Product{Rating: 4.8, Reviews: 1234}

	p.ApplyRating(2)
	assert.Equal(t, 1, p.Reviews)
	assert.InDelta(t, 2.0, p.Rating, 1e-9)

	p.ApplyRating(5)
	assert.Equal(t, 2, p.Reviews)
	assert.InDelta(t, 3.5, p.Rating, 1e-9)
}

func TestUserPasswordNeverSerialised(t *testing.T) {
	u := User{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", Password: "hash"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "password")
}

func TestHasFavorite(t *testing.T) {
	fav := primitive.NewObjectID()
	u := User{Favorites: []primitive.ObjectID{fav}}

	assert.True(t, u.HasFavorite(fav))
	assert.False(t, u.HasFavorite(primitive.NewObjectID()))
}
