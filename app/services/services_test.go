package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/app/repositories/memory"
	"github.com/shashiranjanraj/glamify/app/services"
	"github.com/shashiranjanraj/glamify/pkg/auth"
	"github.com/shashiranjanraj/glamify/pkg/cache"
	"github.com/shashiranjanraj/glamify/pkg/event"
)

type fixture struct {
	repos  repositories.Set
	events *event.Dispatcher
	svc    *services.Services
	tokens *auth.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewSet()
	events := event.New()
	tokens := auth.NewManager("test-secret", time.Hour)
	return &fixture{
		repos:  repos,
		events: events,
		tokens: tokens,
		svc: services.New(services.Deps{
			Repos:           repos,
			Tokens:          tokens,
			Cache:           cache.NewMemory(),
			Events:          events,
			DefaultPageSize: 10,
			MaxPageSize:     100,
		}),
	}
}

func (f *fixture) product(t *testing.T, name string, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Category: "makeup", Price: 10, Description: name, Stock: stock}
	require.NoError(t, f.repos.Products.Create(context.Background(), &p))
	return p
}

func (f *fixture) user(t *testing.T, email string) string {
	t.Helper()
	res, err := f.svc.Auth.Register(context.Background(), services.RegisterInput{
		Name: "Shopper", Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	return res.User.ID
}

func (f *fixture) stock(t *testing.T, p models.Product) int {
	t.Helper()
	got, err := f.repos.Products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got.Stock
}
