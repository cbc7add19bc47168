package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/services"
)

func TestReviewsKeepRunningMean(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Serum", 10)
	ctx := context.Background()

	for i, rating := range []int{5, 4, 3} {
		uid := f.user(t, string(rune('a'+i))+"@example.com")
		_, err := f.svc.Reviews.Create(ctx, uid, services.CreateReviewInput{
			ProductID: p.ID.Hex(), Rating: rating, Comment: "nice",
		})
		require.NoError(t, err)
	}

	got, err := f.repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Reviews)
	assert.InDelta(t, 4.0, got.Rating, 1e-9)
	assert.InDelta(t, got.RatingSum/float64(got.Rated), got.Rating, 1e-9)
}

func TestReviewsReplaceSeededRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.svc.Catalog.Create(ctx, services.ProductInput{
		Name: "Velvet Matte Lipstick", Category: "makeup", Price: float(24.99), OriginalPrice: float(32.99),
		Rating: 4.8, Reviews: 1234, Image: "https://img.test/l.jpg", Description: "matte", Tag: "Bestseller",
	})
	require.NoError(t, err)

	for i, rating := range []int{4, 5, 3} {
		uid := f.user(t, string(rune('a'+i))+"@example.com")
		_, err := f.svc.Reviews.Create(ctx, uid, services.CreateReviewInput{
			ProductID: p.ID.Hex(), Rating: rating, Comment: "ok",
		})
		require.NoError(t, err)
	}

	got, err := f.repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Reviews)
	assert.InDelta(t, 4.0, got.Rating, 1e-9)
}

func TestDuplicateReviewLeavesProductUntouched(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Serum", 10)
	uid := f.user(t, "ada@example.com")
	ctx := context.Background()

	in := services.CreateReviewInput{ProductID: p.ID.Hex(), Rating: 5, Comment: "love it"}
	_, err := f.svc.Reviews.Create(ctx, uid, in)
	require.NoError(t, err)

	in.Rating = 1
	_, err = f.svc.Reviews.Create(ctx, uid, in)
	assert.ErrorIs(t, err, services.ErrDuplicateReview)
	assert.EqualError(t, err, "You have already reviewed this product")

	got, err := f.repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Reviews)
	assert.InDelta(t, 5.0, got.Rating, 1e-9)
}

func TestReviewValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Serum", 10)
	uid := f.user(t, "ada@example.com")
	ctx := context.Background()

	_, err := f.svc.Reviews.Create(ctx, uid, services.CreateReviewInput{ProductID: p.ID.Hex(), Rating: 6, Comment: "x"})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.svc.Reviews.Create(ctx, uid, services.CreateReviewInput{ProductID: p.ID.Hex(), Rating: 3})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.svc.Reviews.Create(ctx, uid, services.CreateReviewInput{ProductID: primitive.NewObjectID().Hex(), Rating: 3, Comment: "x"})
	assert.EqualError(t, err, "Product not found")
}

func TestListForProductExpandsReviewer(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Serum", 10)
	ctx := context.Background()

	ada := f.user(t, "ada@example.com")
	bob := f.user(t, "bob@example.com")
	_, err := f.svc.Reviews.Create(ctx, ada, services.CreateReviewInput{ProductID: p.ID.Hex(), Rating: 5, Comment: "first"})
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(ctx, bob, services.CreateReviewInput{ProductID: p.ID.Hex(), Rating: 4, Comment: "second"})
	require.NoError(t, err)

	list, err := f.svc.Reviews.ListForProduct(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Comment)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "Shopper", list[0].User.Name)
	assert.Equal(t, bob, list[0].User.ID.Hex())

	list, err = f.svc.Reviews.ListForProduct(ctx, "garbage")
	require.NoError(t, err)
	assert.Empty(t, list)
}
