package repository

import (
	"context"

	"courtside/internal/domain"
)

// CourtRepository defines persistence operations for court listings.
type CourtRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, court *domain.Court) error
	Get(ctx context.Context, id string) (*domain.Court, error)
	List(ctx context.Context) ([]domain.Court, error)
}

// FavoriteRepository tracks per-user saved courts.
type FavoriteRepository interface {
	Init(ctx context.Context) error
	Add(ctx context.Context, uid, courtID string) error
	Remove(ctx context.Context, uid, courtID string) error
	ListByUser(ctx context.Context, uid string) ([]domain.Favorite, error)
}
