package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/auth"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NormalizeEmail lowercases and trims an email so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active user with a hashed password. A duplicate email
// is a Conflict; unlike login, this deliberately reveals account existence.
func Register(ctx context.Context, users storage.UserRepository, req *RegisterRequest) (*internal.User, *internal.AppError) {
	req.Email = NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internal.Internal("Registration failed")
	}

	now := time.Now().UTC()
	user := &internal.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, internal.Conflict("User already exists with this email")
		}
		return nil, internal.Internal("Registration failed")
	}
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password share one
// message so account existence never leaks.
func Login(ctx context.Context, users storage.UserRepository, req *LoginRequest) (*internal.User, *internal.AppError) {
	if req.Email == "" || req.Password == "" {
		return nil, internal.BadRequest("Please provide email and password")
	}

	user, err := users.UserByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.Unauthorized("Invalid credentials")
		}
		return nil, internal.Internal("Login failed")
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, internal.Unauthorized("Invalid credentials")
	}
	if !user.IsActive {
		return nil, internal.Unauthorized("Account is deactivated")
	}
	return user, nil
}

func validationError(err error) *internal.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return internal.Internal("")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldMessage(fe))
	}
	return internal.Validation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
