package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/glamify/app/models"
	"github.com/shashiranjanraj/glamify/app/repositories"
	"github.com/shashiranjanraj/glamify/pkg/auth"
)

type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
}

type AuthService struct {
	users  repositories.UserRepository
	tokens *auth.Manager
	now    func() time.Time
}

func NewAuthService(users repositories.UserRepository, tokens *auth.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  hash,
		Favorites: []primitive.ObjectID{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return s.issue(user, "User created successfully")
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user, "Login successful")
}

func (s *AuthService) issue(user *models.User, message string) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Message: message, Token: token, User: user.Summary()}, nil
}
