package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidEmail    = errors.New("valid email is required")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserNotVerified = errors.New("user is not verified")
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash *string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
