package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an operator account that can sign in to the admin app.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken is a long-lived session token stored server side.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// TokenSlot names one of the integration credential fields on a Profile.
type TokenSlot string

const (
	TokenSlotEtsy  TokenSlot = "etsy"
	TokenSlotCanva TokenSlot = "canva"
)

// Profile holds per-user third-party integration credentials. Each token
// slot is independently nullable; an empty string means not connected.
type Profile struct {
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	EtsyAccessToken  string    `json:"-" db:"etsy_access_token"`
	CanvaAccessToken string    `json:"-" db:"canva_access_token"`
}

// Token returns the credential stored in the given slot.
func (p *Profile) Token(slot TokenSlot) string {
	switch slot {
	case TokenSlotEtsy:
		return p.EtsyAccessToken
	case TokenSlotCanva:
		return p.CanvaAccessToken
	}
	return ""
}
