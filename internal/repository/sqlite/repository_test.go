package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	user := &domain.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$fakehash",
	}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	_, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "h1"})
	require.NoError(t, err)

	// same email, different username: the UNIQUE index must reject it
	_, err = repo.Create(ctx, &domain.User{Username: "impostor", Email: "a@x.com", PasswordHash: "h2"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "already exists")
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	_, err := repo.GetByEmail(ctx, "ghost@x.com")
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found")
}

func newTransaction(owner, text string, amount float64, createdAt time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:         uuid.NewString(),
		OwnerEmail: owner,
		Username:   "tester",
		Text:       text,
		Amount:     amount,
		CreatedAt:  createdAt,
	}
}

func TestTransactionRepository_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	now := time.Now().UTC()
	alice := newTransaction("a@x.com", "coffee", -5, now)
	bob := newTransaction("b@x.com", "salary", 2000, now)
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))

	got, err := repo.ListByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, alice.ID, got[0].ID)

	// a guessed id from another owner behaves like a missing row
	_, err = repo.GetOwned(ctx, bob.ID, "a@x.com")
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found")

	deleted, err := repo.DeleteOwned(ctx, bob.ID, "a@x.com")
	require.NoError(t, err)
	assert.False(t, deleted)

	still, err := repo.ListByOwner(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Len(t, still, 1)
}

func TestTransactionRepository_DeleteOwned(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	tx := newTransaction("a@x.com", "coffee", -5, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, tx))

	deleted, err := repo.DeleteOwned(ctx, tx.ID, "a@x.com")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteOwned(ctx, tx.ID, "a@x.com")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete must be a no-op")

	deleted, err = repo.DeleteOwned(ctx, "no-such-id", "a@x.com")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTransactionRepository_UpdatePersists(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	tx := newTransaction("a@x.com", "coffee", -5, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, tx))

	tx.Text = "espresso"
	tx.Amount = -6
	tx.Category = "drinks"
	require.NoError(t, repo.Update(ctx, tx))

	got, err := repo.GetOwned(ctx, tx.ID, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "espresso", got.Text)
	assert.Equal(t, -6.0, got.Amount)
	assert.Equal(t, "drinks", got.Category)
}

func TestTransactionRepository_UpdateOwnerMismatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	tx := newTransaction("a@x.com", "coffee", -5, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, tx))

	stolen := *tx
	stolen.OwnerEmail = "b@x.com"
	stolen.Text = "stolen"
	err := repo.Update(ctx, &stolen)
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found")

	got, err := repo.GetOwned(ctx, tx.ID, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "coffee", got.Text)
}

func TestTransactionRepository_ListOrderIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	third := newTransaction("a@x.com", "third", 3, base.Add(2*time.Hour))
	first := newTransaction("a@x.com", "first", 1, base)
	second := newTransaction("a@x.com", "second", 2, base.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, third))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.ListByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
}
