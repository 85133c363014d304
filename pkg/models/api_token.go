package models

import "time"

// APIToken grants API access. Only the SHA-256 digest of the key is stored;
// the key itself is shown once at creation time.
type APIToken struct {
	ID         string     `json:"id" db:"id"`
	Username   string     `json:"username" db:"username"`
	Digest     string     `json:"-" db:"digest"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
}
