package repository

import (
	"context"

	"expense-tracker/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Email uniqueness is enforced by the store itself, so a concurrent
// check-then-insert cannot produce two users with the same email.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
