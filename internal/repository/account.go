package repository

import (
	"context"

	"courtside/internal/domain"
)

// AccountRepository defines persistence operations for identity-provider
// credential records.
type AccountRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, account *domain.Account) error
	GetByUID(ctx context.Context, uid string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetBySubject(ctx context.Context, provider, subject string) (*domain.Account, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	UpdatePasswordHash(ctx context.Context, uid, passwordHash string) error
}
