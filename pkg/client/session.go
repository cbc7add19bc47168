package client

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var ErrEmptyCart = errors.New("client: cart is empty")

type CartLine struct {
	Product  Product
	Quantity int
}

// Session is a shopper's local cart and favorites. It talks to the server
// only in Checkout, ToggleFavorite and SyncFavorites; every other method is
// local. Safe for concurrent use.
type Session struct {
	client *Client

	mu        sync.Mutex
	cart      []CartLine
	favorites []string
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// AddToCart adds qty units of p, incrementing an existing line. qty < 1
// counts as 1.
func (s *Session) AddToCart(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.line(p.ID); i >= 0 {
		s.cart[i].Quantity += qty
		return
	}
	s.cart = append(s.cart, CartLine{Product: p, Quantity: qty})
}

// UpdateQuantity sets a line's quantity; qty < 1 removes the line.
func (s *Session) UpdateQuantity(productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.line(productID)
	switch {
	case i < 0:
	case qty < 1:
		s.cart = slices.Delete(s.cart, i, i+1)
	default:
		s.cart[i].Quantity = qty
	}
}

func (s *Session) RemoveFromCart(productID string) {
	s.UpdateQuantity(productID, 0)
}

func (s *Session) Cart() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.cart {
		n += l.Quantity
	}
	return n
}

func (s *Session) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.cart)
}

// Checkout places the cart as one order. The cart is cleared only when the
// server accepts the order; on error it is left untouched.
func (s *Session) Checkout(ctx context.Context, shipTo Address) (*Order, error) {
	s.mu.Lock()
	lines := slices.Clone(s.cart)
	s.mu.Unlock()

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	req := OrderRequest{Total: total(lines), ShippingAddress: shipTo}
	for _, l := range lines {
		req.Items = append(req.Items, OrderItem{
			Product:  ProductRef{ID: l.Product.ID},
			Quantity: l.Quantity,
			Price:    l.Product.Price,
		})
	}

	order, err := s.client.PlaceOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()
	return order, nil
}

func (s *Session) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.favorites, productID)
}

func (s *Session) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

// ToggleFavorite adds or removes productID on the server, then mirrors the
// change locally. It reports whether the product is now a favorite.
func (s *Session) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	if s.IsFavorite(productID) {
		if err := s.client.RemoveFavorite(ctx, productID); err != nil {
			return true, err
		}
		s.mu.Lock()
		s.favorites = slices.DeleteFunc(s.favorites, func(id string) bool { return id == productID })
		s.mu.Unlock()
		return false, nil
	}

	if err := s.client.AddFavorite(ctx, productID); err != nil {
		return false, err
	}
	s.mu.Lock()
	if !slices.Contains(s.favorites, productID) {
		s.favorites = append(s.favorites, productID)
	}
	s.mu.Unlock()
	return true, nil
}

// SyncFavorites replaces local favorites with the server's list.
func (s *Session) SyncFavorites(ctx context.Context) error {
	products, err := s.client.Favorites(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	s.mu.Lock()
	s.favorites = ids
	s.mu.Unlock()
	return nil
}

func (s *Session) line(productID string) int {
	return slices.IndexFunc(s.cart, func(l CartLine) bool { return l.Product.ID == productID })
}

func total(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Product.Price * float64(l.Quantity)
	}
	return sum
}
