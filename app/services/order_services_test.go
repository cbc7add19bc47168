package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories/memory"
	"github.com/shashiranjanraj/glamify/app/services"
)

func line(p models.Product, qty int) services.OrderLineInput {
	return services.OrderLineInput{Product: p.ID.Hex(), Quantity: qty, Price: p.Price}
}

func TestPlaceOrderReservesStockAndFiresEvent(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ada@example.com")
	lipstick := f.product(t, "Velvet Matte Lipstick", 30)
	serum := f.product(t, "Hydrating Face Serum", 75)

	var placed []services.OrderPlaced
	f.events.Listen(services.EventOrderPlaced, func(_ context.Context, payload any) error {
		placed = append(placed, payload.(services.OrderPlaced))
		return nil
	})

	order, err := f.svc.Orders.Place(context.Background(), uid, services.PlaceOrderInput{
		Items:           []services.OrderLineInput{line(lipstick, 2), line(serum, 1)},
		Total:           1.23,
		ShippingAddress: services.AddressInput{City: "Pune", ZipCode: "411001"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 1.23, order.Total, "caller total is stored as given")
	assert.Equal(t, "411001", order.ShippingAddress.ZipCode)

	assert.Equal(t, 28, f.stock(t, lipstick))
	assert.Equal(t, 74, f.stock(t, serum))

	require.Len(t, placed, 1)
	assert.Equal(t, order.ID, placed[0].Order.ID)
	require.Len(t, placed[0].Products, 2)
	assert.Equal(t, 28, placed[0].Products[0].Stock)
}

func TestPlaceOrderRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ada@example.com")
	p := f.product(t, "Radiant Glow Foundation", 2)

	_, err := f.svc.Orders.Place(context.Background(), uid, services.PlaceOrderInput{
		Items: []services.OrderLineInput{line(p, 3)},
	})
	require.ErrorIs(t, err, services.ErrInsufficientStock)
	assert.EqualError(t, err, "Insufficient stock for Radiant Glow Foundation")
	assert.Equal(t, 2, f.stock(t, p))

	_, err = f.svc.Orders.Place(context.Background(), uid, services.PlaceOrderInput{
		Items: []services.OrderLineInput{{Product: primitive.NewObjectID().Hex(), Quantity: 1}},
	})
	assert.EqualError(t, err, "Insufficient stock for product")
}

func TestPlaceOrderStockBoundary(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ada@example.com")
	p := f.product(t, "Velvet Matte Lipstick", 3)

	tests := []struct {
		name      string
		qty       int
		wantErr   error
		wantStock int
	}{
		{name: "exact stock succeeds", qty: 3, wantStock: 0},
		{name: "empty shelf rejects", qty: 1, wantErr: services.ErrInsufficientStock, wantStock: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Orders.Place(context.Background(), uid, services.PlaceOrderInput{
				Items: []services.OrderLineInput{line(p, tt.qty)},
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStock, f.stock(t, p))
		})
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ada@example.com")
	p := f.product(t, "Lipstick", 5)
	ctx := context.Background()

	_, err := f.svc.Orders.Place(ctx, uid, services.PlaceOrderInput{})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.svc.Orders.Place(ctx, uid, services.PlaceOrderInput{Items: []services.OrderLineInput{line(p, 0)}})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[0].quantity")

	_, err = f.svc.Orders.Place(ctx, "", services.PlaceOrderInput{Items: []services.OrderLineInput{line(p, 1)}})
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
	assert.Equal(t, 5, f.stock(t, p))
}

func TestConcurrentOrdersCannotOversell(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ada@example.com")
	p := f.product(t, "Limited Palette", 5)

	const buyers = 8
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Orders.Place(context.Background(), uid, services.PlaceOrderInput{
				Items: []services.OrderLineInput{line(p, 3)},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, services.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, f.stock(t, p))
}

func TestFailedLineReleasesEarlierReservations(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ada@example.com")
	a := f.product(t, "Serum", 10)
	b := f.product(t, "Mascara", 4)

	// Both lines pass the pre-check but together exceed b's stock.
	_, err := f.svc.Orders.Place(context.Background(), uid, services.PlaceOrderInput{
		Items: []services.OrderLineInput{line(a, 2), line(b, 3), line(b, 3)},
	})
	assert.EqualError(t, err, "Insufficient stock for Mascara")
	assert.Equal(t, 10, f.stock(t, a))
	assert.Equal(t, 4, f.stock(t, b))
}

func TestFailedPersistReleasesStock(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ada@example.com")
	p := f.product(t, "Serum", 10)

	orders := f.repos.Orders.(*memory.OrderRepository)
	orders.FailCreate = errors.New("write concern timeout")

	_, err := f.svc.Orders.Place(context.Background(), uid, services.PlaceOrderInput{
		Items: []services.OrderLineInput{line(p, 4)},
	})
	assert.EqualError(t, err, "write concern timeout")
	assert.Equal(t, 10, f.stock(t, p))
}

func TestListAndGetAreScopedToCaller(t *testing.T) {
	f := newFixture(t)
	ada := f.user(t, "ada@example.com")
	bob := f.user(t, "bob@example.com")
	p := f.product(t, "Serum", 10)
	ctx := context.Background()

	first, err := f.svc.Orders.Place(ctx, ada, services.PlaceOrderInput{Items: []services.OrderLineInput{line(p, 1)}})
	require.NoError(t, err)
	second, err := f.svc.Orders.Place(ctx, ada, services.PlaceOrderInput{Items: []services.OrderLineInput{line(p, 2)}})
	require.NoError(t, err)

	list, err := f.svc.Orders.List(ctx, ada)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	require.NotNil(t, list[0].Items[0].Product)
	assert.Equal(t, "Serum", list[0].Items[0].Product.Name)

	got, err := f.svc.Orders.Get(ctx, ada, first.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)

	_, err = f.svc.Orders.Get(ctx, bob, first.ID.Hex())
	assert.EqualError(t, err, "Order not found")

	list, err = f.svc.Orders.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
}
