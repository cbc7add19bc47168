// Package listeners reacts to domain events fired by the services.
package listeners

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/pkg/event"
	"github.com/shashiranjanraj/glamify/pkg/logger"
	"github.com/shashiranjanraj/glamify/pkg/messaging"
)

// Invalidator drops cached products.
type Invalidator interface {
	InvalidateProducts(ctx context.Context, ids ...primitive.ObjectID)
}

// Broadcaster fans a message out to live subscribers.
type Broadcaster interface {
	Broadcast(msg []byte)
}

// Submitter runs a task off the caller's goroutine; *workerpool.Pool
// satisfies it.
type Submitter interface {
	Submit(task func()) error
}

// StockUpdate is the message pushed on the live stock feed.
type StockUpdate struct {
	Type      string  `json:"type"`
	ProductID string  `json:"productId"`
	Stock     int     `json:"stock"`
	Rating    float64 `json:"rating"`
	Reviews   int     `json:"reviews"`
}

func stockUpdate(p models.Product) StockUpdate {
	return StockUpdate{Type: "stock", ProductID: p.ID.Hex(), Stock: p.Stock, Rating: p.Rating, Reviews: p.Reviews}
}

// OrderPlacedMessage is the Kafka representation of a placed order.
type OrderPlacedMessage struct {
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Items     []OrderPlacedLine  `json:"items"`
	Total     float64            `json:"total"`
	Status    models.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

type OrderPlacedLine struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func orderPlacedMessage(o models.Order) OrderPlacedMessage {
	lines := make([]OrderPlacedLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = OrderPlacedLine{ProductID: item.Product.Hex(), Quantity: item.Quantity, Price: item.Price}
	}
	return OrderPlacedMessage{
		OrderID:   o.ID.Hex(),
		UserID:    o.User.Hex(),
		Items:     lines,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

// affected returns the products an event changed.
func affected(payload any) []models.Product {
	switch e := payload.(type) {
	case services.OrderPlaced:
		return e.Products
	case services.ReviewCreated:
		return []models.Product{e.Product}
	case services.ProductChanged:
		return []models.Product{e.Product}
	}
	return nil
}

// CacheInvalidation evicts every product an event touched.
func CacheInvalidation(cache Invalidator) event.Handler {
	return func(ctx context.Context, payload any) error {
		products := affected(payload)
		ids := make([]primitive.ObjectID, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		cache.InvalidateProducts(ctx, ids...)
		return nil
	}
}

// StockFeed pushes the new stock and rating of every touched product.
func StockFeed(hub Broadcaster) event.Handler {
	return func(_ context.Context, payload any) error {
		for _, p := range affected(payload) {
			msg, err := json.Marshal(stockUpdate(p))
			if err != nil {
				return err
			}
			hub.Broadcast(msg)
		}
		return nil
	}
}

// PublishOrders forwards placed orders to the message broker, keyed by
// order id.
func PublishOrders(pub messaging.Publisher) event.Handler {
	return func(ctx context.Context, payload any) error {
		e, ok := payload.(services.OrderPlaced)
		if !ok {
			return nil
		}
		return pub.Publish(ctx, e.Order.ID.Hex(), orderPlacedMessage(e.Order))
	}
}

// Background moves h onto pool. The handler keeps the event's values but
// not its cancellation, since the request that fired it may already be done.
// A task the pool refuses is logged and dropped.
func Background(pool Submitter, name string, h event.Handler) event.Handler {
	return func(ctx context.Context, payload any) error {
		detached := context.WithoutCancel(ctx)
		return pool.Submit(func() {
			if err := h(detached, payload); err != nil {
				logger.WithCtx(detached).Warn("background listener failed", "listener", name, "error", err)
			}
		})
	}
}

// Sinks are the listener targets. Nil fields are skipped.
type Sinks struct {
	Cache     Invalidator
	Feeds     []Broadcaster
	Publisher messaging.Publisher
	// Background, when set, publishes to the broker off the request path.
	Background Submitter
}

// Register wires the listeners onto d.
func Register(d *event.Dispatcher, s Sinks) {
	for _, name := range []string{services.EventOrderPlaced, services.EventReviewCreated, services.EventProductChanged} {
		if s.Cache != nil {
			d.Listen(name, CacheInvalidation(s.Cache))
		}
		for _, feed := range s.Feeds {
			d.Listen(name, StockFeed(feed))
		}
	}
	if s.Publisher != nil {
		h := PublishOrders(s.Publisher)
		if s.Background != nil {
			h = Background(s.Background, "publish-orders", h)
		}
		d.Listen(services.EventOrderPlaced, h)
	}
}
