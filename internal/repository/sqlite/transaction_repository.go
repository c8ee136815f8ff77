package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/repository"
)

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	owner_email TEXT NOT NULL,
	username TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL,
	amount REAL NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

const createTransactionsOwnerIndex = `
CREATE INDEX IF NOT EXISTS idx_transactions_owner ON transactions(owner_email);
`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTransactionsTable); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createTransactionsOwnerIndex); err != nil {
		return fmt.Errorf("create transactions owner index: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (id, owner_email, username, text, amount, category, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.OwnerEmail,
		tx.Username,
		tx.Text,
		tx.Amount,
		tx.Category,
		tx.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_email, username, text, amount, category, created_at
FROM transactions
WHERE owner_email = ?
ORDER BY created_at ASC, id ASC`,
		ownerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}

	return txs, rows.Err()
}

func (r *TransactionRepository) GetOwned(ctx context.Context, id, ownerEmail string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_email, username, text, amount, category, created_at
FROM transactions
WHERE id = ? AND owner_email = ?`,
		id,
		ownerEmail,
	)
	return scanTransaction(row)
}

func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE transactions
SET text=?, amount=?, category=?, created_at=?
WHERE id=? AND owner_email=?`,
		tx.Text,
		tx.Amount,
		tx.Category,
		tx.CreatedAt.UTC(),
		tx.ID,
		tx.OwnerEmail,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transaction update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

func (r *TransactionRepository) DeleteOwned(ctx context.Context, id, ownerEmail string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM transactions
WHERE id=? AND owner_email=?`,
		id,
		ownerEmail,
	)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transaction delete rows affected: %w", err)
	}
	return aff > 0, nil
}

func scanTransaction(scanner interface {
	Scan(dest ...any) error
}) (*domain.Transaction, error) {
	var (
		tx        domain.Transaction
		createdAt time.Time
	)

	if err := scanner.Scan(
		&tx.ID,
		&tx.OwnerEmail,
		&tx.Username,
		&tx.Text,
		&tx.Amount,
		&tx.Category,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction not found")
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	tx.CreatedAt = createdAt.UTC()
	return &tx, nil
}
