// Package graphql exposes a read-only view of the catalog.
package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/services"
	gql "github.com/shashiranjanraj/glamify/pkg/graphql"
)

func hexID(p graphql.ResolveParams) (any, error) {
	switch v := p.Source.(type) {
	case models.Product:
		return v.ID.Hex(), nil
	case services.ReviewView:
		return v.ID.Hex(), nil
	case services.Reviewer:
		return v.ID.Hex(), nil
	}
	return nil, nil
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: hexID},
		"name":          &graphql.Field{Type: graphql.String},
		"category":      &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.Float},
		"originalPrice": &graphql.Field{Type: graphql.Float},
		"rating":        &graphql.Field{Type: graphql.Float},
		"reviews":       &graphql.Field{Type: graphql.Int},
		"image":         &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"tag":           &graphql.Field{Type: graphql.String},
		"stock":         &graphql.Field{Type: graphql.Int},
		"createdAt":     &graphql.Field{Type: graphql.DateTime},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"products":    &graphql.Field{Type: graphql.NewList(productType)},
		"total":       &graphql.Field{Type: graphql.Int},
		"totalPages":  &graphql.Field{Type: graphql.Int},
		"currentPage": &graphql.Field{Type: graphql.Int},
		"limit":       &graphql.Field{Type: graphql.Int},
	},
})

var reviewerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Reviewer",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: hexID},
		"name": &graphql.Field{Type: graphql.String},
	},
})

var reviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Review",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: hexID},
		"rating":  &graphql.Field{Type: graphql.Int},
		"comment": &graphql.Field{Type: graphql.String},
		"user": &graphql.Field{
			Type: reviewerType,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if r, ok := p.Source.(services.ReviewView); ok && r.User != nil {
					return *r.User, nil
				}
				return nil, nil
			},
		},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
	},
})

func intArg(args map[string]any, key string) int {
	if v, ok := args[key].(int); ok {
		return v
	}
	return 0
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// NewSchema builds the catalog schema backed by the given services.
func NewSchema(catalog *services.CatalogService, reviews *services.ReviewService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: productPageType,
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"sort":     &graphql.ArgumentConfig{Type: graphql.String},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					page, err := catalog.List(p.Context, services.ListQuery{
						Category: stringArg(p.Args, "category"),
						Search:   stringArg(p.Args, "search"),
						Sort:     stringArg(p.Args, "sort"),
						Page:     intArg(p.Args, "page"),
						Limit:    intArg(p.Args, "limit"),
					})
					if err != nil {
						return nil, err
					}
					return *page, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					product, err := catalog.Get(p.Context, stringArg(p.Args, "id"))
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return *product, nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return catalog.Categories(p.Context)
				},
			},
			"suggestions": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Args: graphql.FieldConfigArgument{
					"q": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return catalog.Suggestions(p.Context, stringArg(p.Args, "q"))
				},
			},
			"reviews": &graphql.Field{
				Type: graphql.NewList(reviewType),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return reviews.ListForProduct(p.Context, stringArg(p.Args, "productId"))
				},
			},
		},
	})
	return gql.NewSchema(query)
}
