package model

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when no matching account exists.
var ErrNotFound = errors.New("pg: account not found")

// User is an account row. The password hash never crosses the JSON
// boundary.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
}

// DB is the persistence contract the auth flows depend on. Token
// verification itself never touches it; it is consulted only during login,
// refresh, and account management.
type DB interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	SetPassword(ctx context.Context, id, passwordHash string) error
}
