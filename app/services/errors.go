package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/pkg/validate"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrDuplicateUser      = errors.New("User already exists")
	ErrDuplicateReview    = errors.New("You have already reviewed this product")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrValidation         = errors.New("validation failed")
)

// NotFoundError names the missing resource, e.g. "Product not found".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(resource string) error { return &NotFoundError{Resource: resource} }

// StockError reports the product whose stock could not cover an order line.
type StockError struct {
	Product string
}

func (e *StockError) Error() string { return "Insufficient stock for " + e.Product }
func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError carries per-field messages keyed by JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// check runs the struct-tag rules of in.
func check(in any) error {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// callerID parses the authenticated user id carried by the request.
func callerID(userID string) (primitive.ObjectID, error) {
	if userID == "" {
		return primitive.NilObjectID, ErrUnauthenticated
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthenticated
	}
	return id, nil
}
