// Package memory implements the repository interfaces in process. It backs
// STORE_DRIVER=memory and every service and controller test.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
)

// NewSet returns a fresh, empty repository set sharing nothing with any other.
func NewSet() repositories.Set {
	return repositories.Set{
		Users:    NewUserRepository(),
		Products: NewProductRepository(),
		Orders:   NewOrderRepository(),
		Reviews:  NewReviewRepository(),
	}
}

func stamp(id *primitive.ObjectID, at *time.Time) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	if at.IsZero() {
		*at = time.Now().UTC()
	}
}

// newerFirst orders by CreatedAt descending, breaking ties on the ObjectID.
func newerFirst(a, b time.Time, aID, bID primitive.ObjectID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return bytes.Compare(aID[:], bID[:]) > 0
}

// ── Users ────────────────────────────────────────────────────────────────────

type UserRepository struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[primitive.ObjectID]models.User{}}
}

func cloneUser(u models.User) models.User {
	u.Favorites = append([]primitive.ObjectID{}, u.Favorites...)
	return u
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	stamp(&user.ID, &user.CreatedAt)
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	r.byID[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, name, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for otherID, other := range r.byID {
		if otherID != id && other.Email == email {
			return nil, repositories.ErrDuplicate
		}
	}
	u.Name, u.Email = name, email
	r.byID[id] = u
	u = cloneUser(u)
	return &u, nil
}

func (r *UserRepository) SetFavorites(_ context.Context, id primitive.ObjectID, favorites []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Favorites = append([]primitive.ObjectID{}, favorites...)
	r.byID[id] = u
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type ProductRepository struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{byID: map[primitive.ObjectID]models.Product{}}
}

func (r *ProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamp(&product.ID, &product.CreatedAt)
	if _, exists := r.byID[product.ID]; exists {
		return repositories.ErrDuplicate
	}
	r.byID[product.ID] = *product
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Product{}
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) List(_ context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	matched := make([]models.Product, 0, len(r.byID))
	search := strings.ToLower(filter.Search)
	for _, p := range r.byID {
		if filter.HasCategory() && p.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, p)
	}
	r.mu.RUnlock()

	sortProducts(matched, filter.Sort)

	total := int64(len(matched))
	start := filter.Skip
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return matched[start:end], total, nil
}

func sortProducts(products []models.Product, key repositories.SortKey) {
	idAsc := func(i, j int) bool {
		return bytes.Compare(products[i].ID[:], products[j].ID[:]) < 0
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch key {
		case repositories.SortPriceLow:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return idAsc(i, j)
		case repositories.SortPriceHigh:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return idAsc(i, j)
		case repositories.SortRating:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return idAsc(i, j)
		default:
			return newerFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
		}
	})
}

func (r *ProductRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, p := range r.byID {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepository) SuggestNames(_ context.Context, query string, limit int) ([]string, error) {
	r.mu.RLock()
	matched := make([]models.Product, 0)
	q := strings.ToLower(query)
	for _, p := range r.byID {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sortProducts(matched, repositories.SortNewest)

	names := []string{}
	for _, p := range matched {
		if limit > 0 && len(names) == limit {
			break
		}
		names = append(names, p.Name)
	}
	return names, nil
}

func (r *ProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func (r *ProductRepository) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.Stock < qty {
		return nil, repositories.ErrInsufficientStock
	}
	p.Stock -= qty
	r.byID[id] = p
	return &p, nil
}

func (r *ProductRepository) ReleaseStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	return r.mutate(id, func(p *models.Product) { p.Stock += qty })
}

func (r *ProductRepository) ApplyRating(_ context.Context, id primitive.ObjectID, rating int) (*models.Product, error) {
	return r.mutate(id, func(p *models.Product) { p.ApplyRating(rating) })
}

func (r *ProductRepository) SetImage(_ context.Context, id primitive.ObjectID, image string) (*models.Product, error) {
	return r.mutate(id, func(p *models.Product) { p.Image = image })
}

func (r *ProductRepository) mutate(id primitive.ObjectID, fn func(*models.Product)) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(&p)
	r.byID[id] = p
	return &p, nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

type OrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order

	// FailCreate, when set, is returned by Create. Tests use it to exercise
	// the stock release path.
	FailCreate error
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem{}, o.Items...)
	return o
}

func (r *OrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		return r.FailCreate
	}
	stamp(&order.ID, &order.CreatedAt)
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	r.orders = append(r.orders, cloneOrder(*order))
	return nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	r.mu.RLock()
	out := []models.Order{}
	for _, o := range r.orders {
		if o.User == userID {
			out = append(out, cloneOrder(o))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *OrderRepository) FindForUser(_ context.Context, id, userID primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id && o.User == userID {
			o = cloneOrder(o)
			return &o, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// ── Reviews ──────────────────────────────────────────────────────────────────

type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []models.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.User == review.User && existing.Product == review.Product {
			return repositories.ErrDuplicate
		}
	}
	stamp(&review.ID, &review.CreatedAt)
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *ReviewRepository) Exists(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, existing := range r.reviews {
		if existing.User == userID && existing.Product == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReviewRepository) ListByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	r.mu.RLock()
	out := []models.Review{}
	for _, rv := range r.reviews {
		if rv.Product == productID {
			out = append(out, rv)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

var (
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.ProductRepository = (*ProductRepository)(nil)
	_ repositories.OrderRepository   = (*OrderRepository)(nil)
	_ repositories.ReviewRepository  = (*ReviewRepository)(nil)
)
