package repository

import (
	"context"

	"expense-tracker/internal/domain"
)

// TransactionRepository defines persistence operations for transactions.
// Every read, update, and delete is scoped to the owner's email; a request
// can never see or touch another user's rows regardless of the id supplied.
type TransactionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, tx *domain.Transaction) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Transaction, error)
	GetOwned(ctx context.Context, id, ownerEmail string) (*domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	DeleteOwned(ctx context.Context, id, ownerEmail string) (bool, error)
}
