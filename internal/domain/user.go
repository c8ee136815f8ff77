package domain

import "time"

// User represents a registered account. Users are immutable after
// registration and are never deleted.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
