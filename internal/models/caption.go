package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCaptionLength bounds caption text; longer updates are rejected and
// longer generated text is clipped before persisting.
const MaxCaptionLength = 1000

// CaptionGeneration is one persisted caption lifecycle. At most one row
// exists per (account_id, key); regeneration rewrites it in place.
type CaptionGeneration struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AccountID uuid.UUID `json:"account_id" db:"account_id"`
	Key       string    `json:"key" db:"key"`
	Caption   string    `json:"caption" db:"caption"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
