package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"craftdash/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrUnknownTokenSlot = errors.New("unknown integration token slot")
)

// ProfileRepository defines the interface for profile data access. A
// profile row is created lazily the first time a token is saved for a user.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	SaveToken(ctx context.Context, userID uuid.UUID, slot domain.TokenSlot, token string) error
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByUserID retrieves a profile by owning user.
func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, COALESCE(etsy_access_token, ''), COALESCE(canva_access_token, '')
		FROM profiles
		WHERE user_id = $1
	`

	profile := &domain.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.EtsyAccessToken,
		&profile.CanvaAccessToken,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// SaveToken writes one integration credential onto the user's profile. The
// upsert is a single statement, so the write is atomic and idempotent:
// repeating it only overwrites the same slot, leaving the other slot
// untouched.
func (r *profileRepository) SaveToken(ctx context.Context, userID uuid.UUID, slot domain.TokenSlot, token string) error {
	var column string
	switch slot {
	case domain.TokenSlotEtsy:
		column = "etsy_access_token"
	case domain.TokenSlotCanva:
		column = "canva_access_token"
	default:
		return ErrUnknownTokenSlot
	}

	query := fmt.Sprintf(`
		INSERT INTO profiles (user_id, %s)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET %s = EXCLUDED.%s
	`, column, column, column)

	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to save %s token: %w", slot, err)
	}

	return nil
}
