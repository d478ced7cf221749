package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/repository"
	"github.com/postdeck/postdeck-go/internal/validate"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

// ValidationError carries the field failures of a rejected payload.
type ValidationError struct {
	Fields validate.FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

// UserStore persists accounts. Both the MySQL and the JSON file
// repositories satisfy it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthService handles authentication business logic.
type AuthService struct {
	users UserStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Authenticate matches a username and password exactly against the stored
// accounts.
func (s *AuthService) Authenticate(ctx context.Context, creds model.Credentials) (model.UserResponse, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrInvalidCredentials
		}
		return model.UserResponse{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.Password != creds.Password {
		return model.UserResponse{}, ErrInvalidCredentials
	}

	return toUserResponse(user), nil
}

// Register validates and stores a new account.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	res := validate.Registration(model.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if !res.OK() {
		return model.UserResponse{}, &ValidationError{Fields: res.Errors}
	}

	user := res.Value
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.UserResponse{}, ErrUsernameTaken
		}
		return model.UserResponse{}, fmt.Errorf("create user: %w", err)
	}

	return toUserResponse(&user), nil
}

func toUserResponse(u *model.User) model.UserResponse {
	return model.UserResponse{
		Username: u.Username,
		Email:    u.Email,
	}
}
