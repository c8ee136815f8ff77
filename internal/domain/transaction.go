package domain

import "time"

// Transaction is a single financial entry owned by exactly one user.
// OwnerEmail is the filtering key for every read, update, and delete.
type Transaction struct {
	ID         string
	OwnerEmail string
	Username   string
	Text       string
	Amount     float64
	Category   string
	CreatedAt  time.Time
}
