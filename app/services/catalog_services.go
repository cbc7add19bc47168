package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/pkg/cache"
	"github.com/shashiranjanraj/glamify/pkg/event"
	"github.com/shashiranjanraj/glamify/pkg/logger"
	"github.com/shashiranjanraj/glamify/pkg/storage"
)

const (
	categoriesKey  = "catalog:categories"
	maxSuggestions = 5
)

func productKey(id primitive.ObjectID) string { return "catalog:product:" + id.Hex() }

type CatalogOptions struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	Disk            storage.Disk
	Events          *event.Dispatcher
}

// ListQuery is the raw listing request. Zero Page and Limit take defaults.
type ListQuery struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type ProductPage struct {
	Products    []models.Product `json:"products"`
	Total       int64            `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Limit       int              `json:"limit"`
}

type ProductInput struct {
	Name          string   `json:"name"          validate:"required,max=200"`
	Category      string   `json:"category"      validate:"required,max=100"`
	Price         *float64 `json:"price"         validate:"required,gte=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"required,gte=0"`
	Rating        float64  `json:"rating"        validate:"gte=0,lte=5"`
	Reviews       int      `json:"reviews"       validate:"gte=0"`
	Image         string   `json:"image"         validate:"required"`
	Description   string   `json:"description"   validate:"required"`
	Tag           string   `json:"tag"           validate:"required,max=50"`
	Stock         *int     `json:"stock"         validate:"nullable,gte=0"`
}

// ImageUpload is a product image streamed from a multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type CatalogService struct {
	products repositories.ProductRepository
	cache    cache.Store
	disk     storage.Disk
	events   *event.Dispatcher
	group    singleflight.Group
	opts     CatalogOptions
	now      func() time.Time
}

func NewCatalogService(products repositories.ProductRepository, store cache.Store, opts CatalogOptions) *CatalogService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 10
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if store == nil {
		store = cache.NewMemory()
	}
	return &CatalogService{
		products: products,
		cache:    store,
		disk:     opts.Disk,
		events:   opts.Events,
		opts:     opts,
		now:      time.Now,
	}
}

// List returns one page of products. Limit is clamped to MaxPageSize.
func (s *CatalogService) List(ctx context.Context, q ListQuery) (*ProductPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = s.opts.DefaultPageSize
	}
	if limit > s.opts.MaxPageSize {
		limit = s.opts.MaxPageSize
	}
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}

	items, total, err := s.products.List(ctx, repositories.ProductFilter{
		Category: strings.TrimSpace(q.Category),
		Search:   strings.TrimSpace(q.Search),
		Sort:     repositories.ParseSortKey(q.Sort),
		Skip:     (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Product{}
	}

	return &ProductPage{
		Products:    items,
		Total:       total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
		Limit:       limit,
	}, nil
}

// Get returns one product, served from cache when possible. Concurrent
// misses for the same id share a single store lookup.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound("Product")
	}
	key := productKey(oid)

	var cached models.Product
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache read failed", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Shared by every waiter on key; one caller going away must not fail the rest.
		sctx := context.WithoutCancel(ctx)
		p, err := s.products.FindByID(sctx, oid)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(sctx, key, p, s.opts.CacheTTL); err != nil {
			logger.WithCtx(sctx).Warn("catalog cache write failed", "key", key, "error", err)
		}
		return p, nil
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("Product")
	}
	if err != nil {
		return nil, err
	}
	p := *v.(*models.Product)
	return &p, nil
}

// Create stores a new product. A missing stock count defaults to
// models.DefaultStock. Seeded rating and review counts are display values
// only; the first real review replaces them.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	stock := models.DefaultStock
	if in.Stock != nil {
		stock = *in.Stock
	}
	rating := in.Rating
	if in.Reviews == 0 {
		rating = 0
	}

	p := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		Price:         *in.Price,
		OriginalPrice: *in.OriginalPrice,
		Rating:        rating,
		Reviews:       in.Reviews,
		Image:         in.Image,
		Description:   in.Description,
		Tag:           in.Tag,
		Stock:         stock,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Invalidate(ctx, categoriesKey)
	return p, nil
}

// Categories lists the distinct categories in the catalog.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if hit, err := s.cache.Get(ctx, categoriesKey, &cached); err == nil && hit {
		return cached, nil
	}

	cats, err := s.products.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	if err := s.cache.Set(ctx, categoriesKey, cats, s.opts.CacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache write failed", "key", categoriesKey, "error", err)
	}
	return cats, nil
}

// Suggestions returns up to five product names matching q. An empty q
// matches nothing.
func (s *CatalogService) Suggestions(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	names, err := s.products.SuggestNames(ctx, q, maxSuggestions)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// AttachImage uploads an image to the configured disk and points the
// product at its public URL.
func (s *CatalogService) AttachImage(ctx context.Context, id string, img ImageUpload) (*models.Product, error) {
	if s.disk == nil {
		return nil, errors.New("no storage disk configured")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound("Product")
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return nil, invalid("image", "The image must be an image file.")
	}
	if _, err := s.products.FindByID(ctx, oid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product")
		}
		return nil, err
	}

	ext := strings.ToLower(path.Ext(img.Filename))
	key := fmt.Sprintf("products/%s/%d%s", oid.Hex(), s.now().UnixNano(), ext)
	if err := s.disk.Put(ctx, key, img.Body, img.ContentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	p, err := s.products.SetImage(ctx, oid, s.disk.URL(key))
	if err != nil {
		return nil, err
	}
	s.events.Fire(ctx, EventProductChanged, ProductChanged{Product: *p})
	return p, nil
}

// Invalidate drops the given cache keys.
func (s *CatalogService) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}

// InvalidateProducts drops the cached copies of the given products.
func (s *CatalogService) InvalidateProducts(ctx context.Context, ids ...primitive.ObjectID) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	s.Invalidate(ctx, keys...)
}
