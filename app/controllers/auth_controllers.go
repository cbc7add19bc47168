package controllers

import (
	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/services"
	appctx "github.com/shashiranjanraj/glamify/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type tokenPayload struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

func (c *AuthController) Register(ctx *appctx.Context) {
	var in services.RegisterInput
	if !ctx.BindJSON(&in) {
		return
	}

	res, err := c.service.Register(ctx.Context(), in)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Created(res.Message, tokenPayload{Token: res.Token, User: res.User})
}

func (c *AuthController) Login(ctx *appctx.Context) {
	var in services.LoginInput
	if !ctx.BindJSON(&in) {
		return
	}

	res, err := c.service.Login(ctx.Context(), in)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.SuccessMessage(res.Message, tokenPayload{Token: res.Token, User: res.User})
}
