package repository

import (
	"context"

	"courtside/internal/domain"
)

// ProfileRepository defines document-store operations for UserProfile
// records, keyed by the identity provider's uid.
type ProfileRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, profile *domain.UserProfile) error
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	// Update overwrites the mutable name fields. The caller computes the
	// full field set; unset edits fall back client-side, not in the store.
	Update(ctx context.Context, uid, firstName, lastName, username string) error
}
