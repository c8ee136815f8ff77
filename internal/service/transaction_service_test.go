package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/domain"
)

type fakeTransactionRepo struct {
	rows map[string]domain.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{rows: make(map[string]domain.Transaction)}
}

func (f *fakeTransactionRepo) Init(ctx context.Context) error { return nil }

func (f *fakeTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	f.rows[tx.ID] = *tx
	return nil
}

func (f *fakeTransactionRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range f.rows {
		if tx.OwnerEmail == ownerEmail {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) GetOwned(ctx context.Context, id, ownerEmail string) (*domain.Transaction, error) {
	tx, ok := f.rows[id]
	if !ok || tx.OwnerEmail != ownerEmail {
		return nil, fmt.Errorf("transaction not found")
	}
	return &tx, nil
}

func (f *fakeTransactionRepo) Update(ctx context.Context, tx *domain.Transaction) error {
	existing, ok := f.rows[tx.ID]
	if !ok || existing.OwnerEmail != tx.OwnerEmail {
		return fmt.Errorf("transaction not found")
	}
	f.rows[tx.ID] = *tx
	return nil
}

func (f *fakeTransactionRepo) DeleteOwned(ctx context.Context, id, ownerEmail string) (bool, error) {
	tx, ok := f.rows[id]
	if !ok || tx.OwnerEmail != ownerEmail {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestCreateTransaction_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewTransactionService(newFakeTransactionRepo())
	ctx := context.Background()

	before := time.Now().UTC()
	tx, err := svc.Create(ctx, "a@x.com", "alice", CreateTransactionInput{
		Text:   "coffee",
		Amount: floatPtr(-5),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "a@x.com", tx.OwnerEmail)
	assert.Equal(t, "alice", tx.Username)
	assert.Equal(t, -5.0, tx.Amount)
	assert.Empty(t, tx.Category)
	assert.False(t, tx.CreatedAt.Before(before), "createdAt must default to now")
}

func TestCreateTransaction_ExplicitCreatedAt(t *testing.T) {
	t.Parallel()

	svc := NewTransactionService(newFakeTransactionRepo())
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tx, err := svc.Create(context.Background(), "a@x.com", "alice", CreateTransactionInput{
		Text:      "rent",
		Amount:    floatPtr(-900),
		CreatedAt: &when,
	})
	require.NoError(t, err)
	assert.True(t, tx.CreatedAt.Equal(when))
}

func TestCreateTransaction_MissingFields(t *testing.T) {
	t.Parallel()

	svc := NewTransactionService(newFakeTransactionRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@x.com", "alice", CreateTransactionInput{Amount: floatPtr(1)})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Create(ctx, "a@x.com", "alice", CreateTransactionInput{Text: "coffee"})
	assert.ErrorIs(t, err, ErrMissingFields)

	// zero is a present amount, not a missing one
	_, err = svc.Create(ctx, "a@x.com", "alice", CreateTransactionInput{Text: "freebie", Amount: floatPtr(0)})
	assert.NoError(t, err)
}

func TestUpdateTransaction_PartialFields(t *testing.T) {
	t.Parallel()

	svc := NewTransactionService(newFakeTransactionRepo())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "a@x.com", "alice", CreateTransactionInput{
		Text:     "coffee",
		Amount:   floatPtr(-5),
		Category: "food",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, tx.ID, "a@x.com", UpdateTransactionInput{
		Category: strPtr("drinks"),
	})
	require.NoError(t, err)

	assert.Equal(t, "drinks", updated.Category)
	assert.Equal(t, "coffee", updated.Text)
	assert.Equal(t, -5.0, updated.Amount)
	assert.True(t, updated.CreatedAt.Equal(tx.CreatedAt))
}

func TestUpdateTransaction_OwnerMismatch(t *testing.T) {
	t.Parallel()

	svc := NewTransactionService(newFakeTransactionRepo())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "a@x.com", "alice", CreateTransactionInput{
		Text:   "coffee",
		Amount: floatPtr(-5),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, tx.ID, "b@x.com", UpdateTransactionInput{Text: strPtr("stolen")})
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = svc.Update(ctx, "no-such-id", "a@x.com", UpdateTransactionInput{Text: strPtr("ghost")})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestDeleteTransaction_OwnerScoped(t *testing.T) {
	t.Parallel()

	svc := NewTransactionService(newFakeTransactionRepo())
	ctx := context.Background()

	tx, err := svc.Create(ctx, "a@x.com", "alice", CreateTransactionInput{
		Text:   "coffee",
		Amount: floatPtr(-5),
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, tx.ID, "b@x.com")
	require.NoError(t, err)
	assert.False(t, deleted, "cross-owner delete must be a no-op")

	remaining, err := svc.List(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	deleted, err = svc.Delete(ctx, tx.ID, "a@x.com")
	require.NoError(t, err)
	assert.True(t, deleted)
}
