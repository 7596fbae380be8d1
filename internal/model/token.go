package model

import (
	"time"
)

// SessionToken is one entry of a user's server-side token set. The signed
// JWT string is stored verbatim so that logout can revoke a session even
// while its signature is still valid.
type SessionToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}
