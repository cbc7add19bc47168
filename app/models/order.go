package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderItem is one line of an order. Price is the unit price the caller
// supplied when the order was placed.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product"  json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price"    json:"price"`
}

type ShippingAddress struct {
	Street  string `bson:"street"   json:"street"`
	City    string `bson:"city"     json:"city"`
	State   string `bson:"state"    json:"state"`
	ZipCode string `bson:"zip_code" json:"zipCode"`
	Country string `bson:"country"  json:"country"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"    json:"id"`
	User            primitive.ObjectID `bson:"user"             json:"user"`
	Items           []OrderItem        `bson:"items"            json:"items"`
	Total           float64            `bson:"total"            json:"total"`
	Status          OrderStatus        `bson:"status"           json:"status"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`
	CreatedAt       time.Time          `bson:"created_at"       json:"createdAt"`
}
