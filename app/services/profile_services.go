package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
)

type ProfileInput struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type ProfileService struct {
	users repositories.UserRepository
}

func NewProfileService(users repositories.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("User")
	}
	return user, err
}

// Update changes the caller's name and email. The email must not belong to
// another account.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	if err := check(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	other, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && other.ID != uid:
		return nil, ErrDuplicateUser
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, uid, strings.TrimSpace(in.Name), email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, notFound("User")
	case errors.Is(err, repositories.ErrDuplicate):
		return nil, ErrDuplicateUser
	}
	return user, err
}
