package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents account status (matches user_status enum)
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusBanned    Status = "banned"
)

// User represents a user account. Accounts are soft-deleted: a non-null
// DeletedAt means the user no longer exists for any matching or messaging
// purpose.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Status       Status    `db:"status"`

	// Login tracking
	LastLoginAt sql.NullTime `db:"last_login_at"`

	// Soft delete
	DeletedAt sql.NullTime `db:"deleted_at"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsActive returns true if the account is active and not soft-deleted
func (u *User) IsActive() bool {
	return u.Status == StatusActive && !u.DeletedAt.Valid
}

// IsDeleted returns true if the account has been soft-deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt.Valid
}
