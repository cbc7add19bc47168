package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/pkg/event"
	"github.com/shashiranjanraj/glamify/pkg/logger"
	"github.com/shashiranjanraj/glamify/pkg/metrics"
)

type OrderLineInput struct {
	Product  string  `json:"product"  validate:"required,objectid"`
	Quantity int     `json:"quantity" validate:"required,gte=1"`
	Price    float64 `json:"price"    validate:"gte=0"`
}

type AddressInput struct {
	Street  string `json:"street"  validate:"max=200"`
	City    string `json:"city"    validate:"max=100"`
	State   string `json:"state"   validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

// PlaceOrderInput is the checkout request. Line prices and the total are
// stored exactly as supplied.
type PlaceOrderInput struct {
	Items           []OrderLineInput `json:"items"           validate:"required,min=1,dive"`
	Total           float64          `json:"total"           validate:"gte=0"`
	ShippingAddress AddressInput     `json:"shippingAddress"`
}

// OrderLine is an order item with its product expanded. Product is nil when
// the product no longer exists.
type OrderLine struct {
	Product  *models.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Price    float64         `json:"price"`
}

type OrderDetail struct {
	ID              primitive.ObjectID     `json:"id"`
	User            primitive.ObjectID     `json:"user"`
	Items           []OrderLine            `json:"items"`
	Total           float64                `json:"total"`
	Status          models.OrderStatus     `json:"status"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time              `json:"createdAt"`
}

type OrderService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	events   *event.Dispatcher
	now      func() time.Time
}

func NewOrderService(orders repositories.OrderRepository, products repositories.ProductRepository, events *event.Dispatcher) *OrderService {
	return &OrderService{orders: orders, products: products, events: events, now: time.Now}
}

type reservation struct {
	id  primitive.ObjectID
	qty int
}

// Place checks stock for every line, reserves it line by line and persists
// the order. Any failure after a reservation gives the reserved units back,
// so stock never goes negative and concurrent orders cannot oversell.
func (s *OrderService) Place(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	if err := check(in); err != nil {
		return nil, err
	}

	lines := make([]models.OrderItem, len(in.Items))
	for i, item := range in.Items {
		pid, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, invalid("items", "The items contain an invalid product id.")
		}
		lines[i] = models.OrderItem{Product: pid, Quantity: item.Quantity, Price: item.Price}
	}

	for _, line := range lines {
		p, err := s.products.FindByID(ctx, line.Product)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			metrics.StockRejections.Inc()
			return nil, &StockError{Product: "product"}
		case err != nil:
			return nil, err
		case p.Stock < line.Quantity:
			metrics.StockRejections.Inc()
			return nil, &StockError{Product: p.Name}
		}
	}

	reserved := make([]reservation, 0, len(lines))
	updated := make([]models.Product, 0, len(lines))
	for _, line := range lines {
		p, err := s.products.ReserveStock(ctx, line.Product, line.Quantity)
		if err != nil {
			s.release(ctx, reserved)
			if errors.Is(err, repositories.ErrInsufficientStock) || errors.Is(err, repositories.ErrNotFound) {
				metrics.StockRejections.Inc()
				return nil, &StockError{Product: s.productName(ctx, line.Product)}
			}
			return nil, err
		}
		reserved = append(reserved, reservation{id: line.Product, qty: line.Quantity})
		updated = append(updated, *p)
	}

	order := &models.Order{
		User:   uid,
		Items:  lines,
		Total:  in.Total,
		Status: models.OrderStatusPending,
		ShippingAddress: models.ShippingAddress{
			Street:  in.ShippingAddress.Street,
			City:    in.ShippingAddress.City,
			State:   in.ShippingAddress.State,
			ZipCode: in.ShippingAddress.ZipCode,
			Country: in.ShippingAddress.Country,
		},
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.release(ctx, reserved)
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed", "order_id", order.ID.Hex(), "lines", len(lines), "total", order.Total)
	s.events.Fire(ctx, EventOrderPlaced, OrderPlaced{Order: *order, Products: updated})
	return order, nil
}

// release gives back reserved stock. A failed release is logged; the
// remaining reservations are still attempted.
func (s *OrderService) release(ctx context.Context, reserved []reservation) {
	ctx = context.WithoutCancel(ctx)
	for _, r := range reserved {
		if _, err := s.products.ReleaseStock(ctx, r.id, r.qty); err != nil {
			logger.WithCtx(ctx).Error("stock release failed", "product_id", r.id.Hex(), "quantity", r.qty, "error", err)
		}
	}
}

func (s *OrderService) productName(ctx context.Context, id primitive.ObjectID) string {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return "product"
	}
	return p.Name
}

// List returns the caller's orders newest first with products expanded.
func (s *OrderService) List(ctx context.Context, userID string) ([]OrderDetail, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, orders)
}

// Get returns one of the caller's orders. Orders of other users are
// reported as not found.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*OrderDetail, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, notFound("Order")
	}

	order, err := s.orders.FindForUser(ctx, oid, uid)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("Order")
	}
	if err != nil {
		return nil, err
	}

	out, err := s.expand(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *OrderService) expand(ctx context.Context, orders []models.Order) ([]OrderDetail, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, o := range orders {
		for _, item := range o.Items {
			if !seen[item.Product] {
				seen[item.Product] = true
				ids = append(ids, item.Product)
			}
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]OrderDetail, len(orders))
	for i, o := range orders {
		lines := make([]OrderLine, len(o.Items))
		for j, item := range o.Items {
			lines[j] = OrderLine{Quantity: item.Quantity, Price: item.Price}
			if p, ok := byID[item.Product]; ok {
				lines[j].Product = &p
			}
		}
		out[i] = OrderDetail{
			ID:              o.ID,
			User:            o.User,
			Items:           lines,
			Total:           o.Total,
			Status:          o.Status,
			ShippingAddress: o.ShippingAddress,
			CreatedAt:       o.CreatedAt,
		}
	}
	return out, nil
}
