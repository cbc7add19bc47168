package client

import (
	"bytes"
	"encoding/json"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Favorites []string  `json:"favorites,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type AuthResult struct {
	Message string `json:"-"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	Image         string    `json:"image"`
	Description   string    `json:"description"`
	Tag           string    `json:"tag"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ProductPage struct {
	Products    []Product `json:"products"`
	Total       int64     `json:"total"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	Limit       int       `json:"limit"`
}

// ProductQuery filters GET /api/products. Zero values are left to the server.
type ProductQuery struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// ProductRef is an order line's product: a bare id when the order was just
// placed, the full product when listed. Product is nil in the first case and
// when the product has since been deleted.
type ProductRef struct {
	ID      string
	Product *Product
}

func (r *ProductRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = ProductRef{}
		return nil
	case len(b) > 0 && b[0] == '"':
		r.Product = nil
		return json.Unmarshal(b, &r.ID)
	}
	var p Product
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = ProductRef{ID: p.ID, Product: &p}
	return nil
}

func (r ProductRef) MarshalJSON() ([]byte, error) { return json.Marshal(r.ID) }

type OrderItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
}

type Order struct {
	ID              string      `json:"id"`
	User            string      `json:"user"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	Status          string      `json:"status"`
	ShippingAddress Address     `json:"shippingAddress"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	ShippingAddress Address     `json:"shippingAddress"`
}

type Reviewer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Review struct {
	ID        string    `json:"id"`
	User      *Reviewer `json:"user"`
	Product   string    `json:"product"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
