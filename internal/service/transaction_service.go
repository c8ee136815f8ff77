package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/repository"
)

// ErrTransactionNotFound is returned when no transaction with the given id
// is owned by the requesting user. Guessing another user's id yields the
// same error as a nonexistent id.
var ErrTransactionNotFound = errors.New("transaction not found")

// CreateTransactionInput carries the fields of a new transaction. Amount is
// a pointer so that a literal zero counts as present.
type CreateTransactionInput struct {
	Text      string
	Amount    *float64
	Category  string
	CreatedAt *time.Time
}

// UpdateTransactionInput carries a partial update; nil fields keep their
// prior value.
type UpdateTransactionInput struct {
	Text      *string
	Amount    *float64
	Category  *string
	CreatedAt *time.Time
}

// TransactionService coordinates owner-scoped transaction operations.
type TransactionService interface {
	Create(ctx context.Context, ownerEmail, username string, in CreateTransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, ownerEmail string) ([]domain.Transaction, error)
	Update(ctx context.Context, id, ownerEmail string, in UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id, ownerEmail string) (bool, error)
}

type transactionService struct {
	transactions repository.TransactionRepository
}

func NewTransactionService(transactions repository.TransactionRepository) TransactionService {
	return &transactionService{transactions: transactions}
}

func (s *transactionService) Create(ctx context.Context, ownerEmail, username string, in CreateTransactionInput) (*domain.Transaction, error) {
	if strings.TrimSpace(in.Text) == "" || in.Amount == nil {
		return nil, ErrMissingFields
	}

	createdAt := time.Now().UTC()
	if in.CreatedAt != nil {
		createdAt = in.CreatedAt.UTC()
	}

	tx := &domain.Transaction{
		ID:         uuid.NewString(),
		OwnerEmail: ownerEmail,
		Username:   username,
		Text:       in.Text,
		Amount:     *in.Amount,
		Category:   in.Category,
		CreatedAt:  createdAt,
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) List(ctx context.Context, ownerEmail string) ([]domain.Transaction, error) {
	return s.transactions.ListByOwner(ctx, ownerEmail)
}

func (s *transactionService) Update(ctx context.Context, id, ownerEmail string, in UpdateTransactionInput) (*domain.Transaction, error) {
	tx, err := s.transactions.GetOwned(ctx, id, ownerEmail)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	if in.Text != nil {
		tx.Text = *in.Text
	}
	if in.Amount != nil {
		tx.Amount = *in.Amount
	}
	if in.Category != nil {
		tx.Category = *in.Category
	}
	if in.CreatedAt != nil {
		tx.CreatedAt = in.CreatedAt.UTC()
	}

	if err := s.transactions.Update(ctx, tx); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, id, ownerEmail string) (bool, error) {
	return s.transactions.DeleteOwned(ctx, id, ownerEmail)
}
