package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/glamify/app/repositories/memory"
	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/database/seeders"
)

func newEnv() seeders.Env {
	repos := memory.NewSet()
	return seeders.Env{Repos: repos, Services: services.New(services.Deps{Repos: repos})}
}

func TestSeedProductsFillsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	env := newEnv()

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, env, &out))
	assert.Contains(t, out.String(), "Running seeder: products")

	n, err := env.Repos.Products.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)

	page, err := env.Services.Catalog.List(ctx, services.ListQuery{Search: "serum"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	p := page.Products[0]
	assert.Equal(t, 32.50, p.Price)
	assert.Equal(t, 75, p.Stock)
	assert.Equal(t, 892, p.Reviews)
	assert.InDelta(t, 4.9, p.Rating, 1e-9)
	assert.Zero(t, p.RatingSum)
	assert.Zero(t, p.Rated)
}

func TestSeedProductsSkipsNonEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	env := newEnv()

	require.NoError(t, seeders.SeedProducts(ctx, env))
	require.NoError(t, seeders.SeedProducts(ctx, env))

	n, err := env.Repos.Products.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
}
