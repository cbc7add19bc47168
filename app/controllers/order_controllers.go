package controllers

import (
	"github.com/shashiranjanraj/glamify/app/services"
	appctx "github.com/shashiranjanraj/glamify/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (c *OrderController) Store(ctx *appctx.Context) {
	var in services.PlaceOrderInput
	if !ctx.BindJSON(&in) {
		return
	}

	order, err := c.orders.Place(ctx.Context(), ctx.UserID(), in)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Created("Order placed", order)
}

func (c *OrderController) Index(ctx *appctx.Context) {
	orders, err := c.orders.List(ctx.Context(), ctx.UserID())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(orders)
}

func (c *OrderController) Show(ctx *appctx.Context) {
	order, err := c.orders.Get(ctx.Context(), ctx.UserID(), ctx.Param("id"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.Success(order)
}
