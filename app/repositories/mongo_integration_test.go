//go:build integration

package repositories_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("glamify_test")
	require.NoError(t, repositories.EnsureIndexes(ctx, db))
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := setupMongo(t)
	set := repositories.NewMongoSet(db)
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		require.NoError(t, set.Users.Create(ctx, &models.User{Name: "A", Email: "a@x.com", Password: "h"}))
		err := set.Users.Create(ctx, &models.User{Name: "B", Email: "a@x.com", Password: "h"})
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
	})

	t.Run("concurrent reserve", func(t *testing.T) {
		p := models.Product{Name: "Palette", Category: "makeup", Stock: 5}
		require.NoError(t, set.Products.Create(ctx, &p))

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = set.Products.ReserveStock(ctx, p.ID, 3)
			}(i)
		}
		wg.Wait()

		failures := 0
		for _, err := range results {
			if err != nil {
				assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
				failures++
			}
		}
		assert.Equal(t, 1, failures)

		got, err := set.Products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stock)
	})

	t.Run("rating pipeline", func(t *testing.T) {
		p := models.Product{Name: "Serum", Category: "skincare", Rating: 4.8, Reviews: 1234}
		require.NoError(t, set.Products.Create(ctx, &p))

		got, err := set.Products.ApplyRating(ctx, p.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Reviews)
		assert.InDelta(t, 5.0, got.Rating, 1e-9)

		got, err = set.Products.ApplyRating(ctx, p.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Reviews)
		assert.Equal(t, 2, got.Rated)
		assert.InDelta(t, 4.5, got.Rating, 1e-9)
	})

	t.Run("search escapes regex", func(t *testing.T) {
		require.NoError(t, set.Products.Create(ctx, &models.Product{Name: "Glow (Mini)", Category: "makeup"}))

		got, total, err := set.Products.List(ctx, repositories.ProductFilter{Search: "(mini"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, "Glow (Mini)", got[0].Name)
	})

	t.Run("duplicate review", func(t *testing.T) {
		u := models.User{Name: "R", Email: "r@x.com", Password: "h"}
		require.NoError(t, set.Users.Create(ctx, &u))
		p := models.Product{Name: "Mask", Category: "haircare"}
		require.NoError(t, set.Products.Create(ctx, &p))

		require.NoError(t, set.Reviews.Create(ctx, &models.Review{User: u.ID, Product: p.ID, Rating: 5}))
		err := set.Reviews.Create(ctx, &models.Review{User: u.ID, Product: p.ID, Rating: 3})
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
	})
}
