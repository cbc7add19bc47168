package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/glamify/app/services"
	appctx "github.com/shashiranjanraj/glamify/pkg/ctx"
	"github.com/shashiranjanraj/glamify/pkg/logger"
)

// fail maps a service error onto the response envelope.
func fail(c *appctx.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		c.Error(http.StatusUnauthorized, "Access token required")
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrDuplicateUser),
		errors.Is(err, services.ErrDuplicateReview),
		errors.Is(err, services.ErrInsufficientStock):
		c.Error(http.StatusBadRequest, err.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Internal(err)
	}
}
