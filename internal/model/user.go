package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account in the system.
//
// FindHash is the server-side claim-check value for bearer tokens: a token
// resolves only while its embedded claim equals the user's current FindHash.
// It is rotated on every login, which invalidates all previously issued
// tokens without a separate blacklist. NULL while no token has ever been
// issued, hence the pointer (MySQL unique indexes allow multiple NULLs).
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FindHash     *string   `json:"-" gorm:"uniqueIndex;size:64"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
