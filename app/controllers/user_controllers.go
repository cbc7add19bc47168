package controllers

import (
	"github.com/shashiranjanraj/glamify/app/services"
	appctx "github.com/shashiranjanraj/glamify/pkg/ctx"
)

type FavoriteController struct {
	favorites *services.FavoriteService
}

func NewFavoriteController(favorites *services.FavoriteService) *FavoriteController {
	return &FavoriteController{favorites: favorites}
}

func (c *FavoriteController) Add(ctx *appctx.Context) {
	if err := c.favorites.Add(ctx.Context(), ctx.UserID(), ctx.Param("productId")); err != nil {
		fail(ctx, err)
		return
	}
	ctx.SuccessMessage("Product added to favorites", nil)
}

func (c *FavoriteController) Remove(ctx *appctx.Context) {
	if err := c.favorites.Remove(ctx.Context(), ctx.UserID(), ctx.Param("productId")); err != nil {
		fail(ctx, err)
		return
	}
	ctx.SuccessMessage("Product removed from favorites", nil)
}

func (c *FavoriteController) Index(ctx *appctx.Context) {
	products, err := c.favorites.List(ctx.Context(), ctx.UserID())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(products)
}

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func (c *ReviewController) Store(ctx *appctx.Context) {
	var in services.CreateReviewInput
	if !ctx.BindJSON(&in) {
		return
	}

	review, err := c.reviews.Create(ctx.Context(), ctx.UserID(), in)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Created("Review created", review)
}

func (c *ReviewController) Index(ctx *appctx.Context) {
	reviews, err := c.reviews.ListForProduct(ctx.Context(), ctx.Param("productId"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(reviews)
}

type ProfileController struct {
	profile *services.ProfileService
}

func NewProfileController(profile *services.ProfileService) *ProfileController {
	return &ProfileController{profile: profile}
}

func (c *ProfileController) Show(ctx *appctx.Context) {
	user, err := c.profile.Get(ctx.Context(), ctx.UserID())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(user)
}

func (c *ProfileController) Update(ctx *appctx.Context) {
	var in services.ProfileInput
	if !ctx.BindJSON(&in) {
		return
	}

	user, err := c.profile.Update(ctx.Context(), ctx.UserID(), in)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.SuccessMessage("Profile updated", user)
}
