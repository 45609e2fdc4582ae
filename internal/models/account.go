package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the application-level identity behind an identity-provider
// session. Created on first sign-in, read-only afterwards.
type Account struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
