package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (*AuthResult, error) {
	var res AuthResult
	msg, err := c.request(http.MethodPost, path).Body(body).Send(ctx, &res)
	if err != nil {
		return nil, err
	}
	res.Message = msg
	c.SetToken(res.Token)
	return &res, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	req := c.request(http.MethodGet, "/api/products").
		Query("category", q.Category).
		Query("search", q.Search).
		Query("sort", q.Sort)
	if q.Page > 0 {
		req.Query("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		req.Query("limit", strconv.Itoa(q.Limit))
	}

	var page ProductPage
	if _, err := req.Send(ctx, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var p Product
	if _, err := c.request(http.MethodGet, "/api/products/"+url.PathEscape(id)).Send(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	_, err := c.request(http.MethodGet, "/api/categories").Send(ctx, &out)
	return out, err
}

func (c *Client) Suggestions(ctx context.Context, q string) ([]string, error) {
	var out []string
	_, err := c.request(http.MethodGet, "/api/search/suggestions").Query("q", q).Send(ctx, &out)
	return out, err
}

// ── Orders ───────────────────────────────────────────────────────────────────

func (c *Client) PlaceOrder(ctx context.Context, in OrderRequest) (*Order, error) {
	var o Order
	if _, err := c.request(http.MethodPost, "/api/orders").Body(in).Send(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	_, err := c.request(http.MethodGet, "/api/orders").Send(ctx, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	var o Order
	if _, err := c.request(http.MethodGet, "/api/orders/"+url.PathEscape(id)).Send(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ── Favorites, reviews, profile ──────────────────────────────────────────────

func (c *Client) AddFavorite(ctx context.Context, productID string) error {
	_, err := c.request(http.MethodPost, "/api/favorites/"+url.PathEscape(productID)).Send(ctx, nil)
	return err
}

func (c *Client) RemoveFavorite(ctx context.Context, productID string) error {
	_, err := c.request(http.MethodDelete, "/api/favorites/"+url.PathEscape(productID)).Send(ctx, nil)
	return err
}

func (c *Client) Favorites(ctx context.Context) ([]Product, error) {
	var out []Product
	_, err := c.request(http.MethodGet, "/api/favorites").Send(ctx, &out)
	return out, err
}

func (c *Client) CreateReview(ctx context.Context, productID string, rating int, comment string) (*Review, error) {
	var r Review
	_, err := c.request(http.MethodPost, "/api/reviews").Body(map[string]any{
		"productId": productID, "rating": rating, "comment": comment,
	}).Send(ctx, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Reviews(ctx context.Context, productID string) ([]Review, error) {
	var out []Review
	_, err := c.request(http.MethodGet, "/api/reviews/"+url.PathEscape(productID)).Send(ctx, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if _, err := c.request(http.MethodGet, "/api/user/profile").Send(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*User, error) {
	var u User
	_, err := c.request(http.MethodPut, "/api/user/profile").
		Body(map[string]string{"name": name, "email": email}).
		Send(ctx, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
