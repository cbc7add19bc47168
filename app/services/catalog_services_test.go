package services_test

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories/memory"
	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/pkg/cache"
	"github.com/shashiranjanraj/glamify/pkg/event"
	"github.com/shashiranjanraj/glamify/pkg/storage"
)

func float(v float64) *float64 { return &v }
func integer(v int) *int       { return &v }

func TestListClampsPageSize(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.product(t, fmt.Sprintf("Product %02d", i), 5)
	}
	ctx := context.Background()

	page, err := f.svc.Catalog.List(ctx, services.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 10)
	assert.EqualValues(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)

	page, err = f.svc.Catalog.List(ctx, services.ListQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Products, 5)

	small := services.NewCatalogService(memory.NewProductRepository(), cache.NewMemory(), services.CatalogOptions{MaxPageSize: 4})
	page, err = small.List(ctx, services.ListQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Limit)
	assert.NotNil(t, page.Products)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListPagesPastTheEnd(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.product(t, fmt.Sprintf("Product %02d", i), 5)
	}

	for _, pg := range []int{4, math.MaxInt / 2, math.MaxInt} {
		page, err := f.svc.Catalog.List(context.Background(), services.ListQuery{Page: pg, Limit: 2})
		require.NoError(t, err, "page %d", pg)
		assert.Empty(t, page.Products)
		assert.NotNil(t, page.Products)
		assert.EqualValues(t, 3, page.Total)
		assert.Equal(t, 2, page.TotalPages)
	}
}

func TestListSortsByPriceAcrossPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i, price := range []float64{40, 10, 50, 30, 20} {
		p := models.Product{Name: fmt.Sprintf("Item %d", i), Category: "makeup", Price: price, Stock: 5}
		require.NoError(t, f.repos.Products.Create(ctx, &p))
	}

	tests := []struct {
		sort string
		page int
		want []float64
	}{
		{sort: "price-low", page: 1, want: []float64{10, 20}},
		{sort: "price-low", page: 2, want: []float64{30, 40}},
		{sort: "price-low", page: 3, want: []float64{50}},
		{sort: "price-high", page: 2, want: []float64{30, 20}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.sort, tt.page), func(t *testing.T) {
			page, err := f.svc.Catalog.List(ctx, services.ListQuery{Sort: tt.sort, Page: tt.page, Limit: 2})
			require.NoError(t, err)
			assert.Equal(t, 3, page.TotalPages)
			assert.Equal(t, tt.page, page.CurrentPage)
			assert.EqualValues(t, 5, page.Total)

			got := make([]float64, 0, len(page.Products))
			for _, p := range page.Products {
				got = append(got, p.Price)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

// ctxProducts fails lookups whose context is already done, like a network store.
type ctxProducts struct {
	*memory.ProductRepository
}

func (r ctxProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.ProductRepository.FindByID(ctx, id)
}

func TestGetSharedLookupIgnoresCallerCancellation(t *testing.T) {
	repo := memory.NewProductRepository()
	p := models.Product{Name: "Velvet Matte Lipstick", Category: "makeup", Price: 10, Stock: 30}
	require.NoError(t, repo.Create(context.Background(), &p))
	catalog := services.NewCatalogService(ctxProducts{repo}, cache.NewMemory(), services.CatalogOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := catalog.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = catalog.Get(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 30, got.Stock)
}

func TestGetServesFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Velvet Matte Lipstick", 30)
	ctx := context.Background()

	got, err := f.svc.Catalog.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 30, got.Stock)

	_, err = f.repos.Products.ReserveStock(ctx, p.ID, 5)
	require.NoError(t, err)

	got, err = f.svc.Catalog.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 30, got.Stock, "served from cache")

	f.svc.Catalog.InvalidateProducts(ctx, p.ID)
	got, err = f.svc.Catalog.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 25, got.Stock)
}

func TestGetUnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Catalog.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.EqualError(t, err, "Product not found")

	_, err = f.svc.Catalog.Get(ctx, "not-an-id")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateDefaultsStockAndTreatsRatingAsPlaceholder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := services.ProductInput{
		Name: "Free Sample", Category: "skincare", Price: float(0), OriginalPrice: float(0),
		Rating: 4.5, Reviews: 2, Image: "https://img.test/s.jpg", Description: "tiny", Tag: "New",
	}
	p, err := f.svc.Catalog.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStock, p.Stock)
	assert.InDelta(t, 4.5, p.Rating, 1e-9)
	assert.Equal(t, 2, p.Reviews)
	assert.Zero(t, p.RatingSum)
	assert.Zero(t, p.Rated)

	p.ApplyRating(3)
	assert.InDelta(t, 3.0, p.Rating, 1e-9)
	assert.Equal(t, 1, p.Reviews)

	in.Stock = integer(0)
	p, err = f.svc.Catalog.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestCreateRequiresFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Catalog.Create(context.Background(), services.ProductInput{Name: "x"})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"category", "price", "originalPrice", "image", "description", "tag"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestCategoriesAreCachedAndRefreshedOnCreate(t *testing.T) {
	f := newFixture(t)
	f.product(t, "Lipstick", 1)
	ctx := context.Background()

	cats, err := f.svc.Catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"makeup"}, cats)

	_, err = f.svc.Catalog.Create(ctx, services.ProductInput{
		Name: "Serum", Category: "skincare", Price: float(32.5), OriginalPrice: float(40),
		Image: "i", Description: "d", Tag: "Bestseller",
	})
	require.NoError(t, err)

	cats, err = f.svc.Catalog.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"makeup", "skincare"}, cats)
}

func TestSuggestions(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		f.product(t, fmt.Sprintf("Glow Serum %d", i), 1)
	}
	ctx := context.Background()

	got, err := f.svc.Catalog.Suggestions(ctx, "glow")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = f.svc.Catalog.Suggestions(ctx, "  ")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)
}

func TestAttachImageStoresOnDiskAndFiresEvent(t *testing.T) {
	repo := memory.NewProductRepository()
	disk, err := storage.NewLocal(t.TempDir(), "http://cdn.test/storage")
	require.NoError(t, err)

	events := event.New()
	var changed []services.ProductChanged
	events.Listen(services.EventProductChanged, func(_ context.Context, payload any) error {
		changed = append(changed, payload.(services.ProductChanged))
		return nil
	})

	catalog := services.NewCatalogService(repo, cache.NewMemory(), services.CatalogOptions{Disk: disk, Events: events})
	p := models.Product{Name: "Palette", Image: "old.jpg"}
	require.NoError(t, repo.Create(context.Background(), &p))

	got, err := catalog.AttachImage(context.Background(), p.ID.Hex(), services.ImageUpload{
		Filename: "palette.PNG", ContentType: "image/png", Body: strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Image, "http://cdn.test/storage/products/"+p.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(got.Image, ".png"))
	require.Len(t, changed, 1)
	assert.Equal(t, got.Image, changed[0].Product.Image)

	_, err = catalog.AttachImage(context.Background(), p.ID.Hex(), services.ImageUpload{
		Filename: "notes.txt", ContentType: "text/plain", Body: strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, services.ErrValidation)
}
