package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside/internal/domain"
	"courtside/internal/repository"
)

const createFavoritesTable = `
CREATE TABLE IF NOT EXISTS favorites (
	uid TEXT NOT NULL,
	court_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (uid, court_id)
);
`

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFavoritesTable); err != nil {
		return fmt.Errorf("create favorites table: %w", err)
	}
	return nil
}

// Add is idempotent: favoriting an already-favorited court is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, uid, courtID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO favorites (uid, court_id, created_at) VALUES (?, ?, ?)`,
		uid, courtID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, uid, courtID string) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM favorites WHERE uid = ? AND court_id = ?`,
		uid, courtID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, uid string) ([]domain.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT uid, court_id, created_at
FROM favorites
WHERE uid = ?
ORDER BY created_at DESC`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var fav domain.Favorite
		if err := rows.Scan(&fav.UID, &fav.CourtID, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}
