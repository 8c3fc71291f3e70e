package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"courtside/internal/domain"
	"courtside/internal/repository"
)

const createCourtsTable = `
CREATE TABLE IF NOT EXISTS courts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	latitude REAL NOT NULL DEFAULT 0,
	longitude REAL NOT NULL DEFAULT 0,
	submitted_by TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

type CourtRepository struct {
	db *sql.DB
}

func NewCourtRepository(db *sql.DB) repository.CourtRepository {
	return &CourtRepository{db: db}
}

func (r *CourtRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCourtsTable); err != nil {
		return fmt.Errorf("create courts table: %w", err)
	}
	return nil
}

func (r *CourtRepository) Create(ctx context.Context, court *domain.Court) error {
	if court.CreatedAt.IsZero() {
		court.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO courts (id, name, image_url, location, latitude, longitude, submitted_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		court.ID,
		court.Name,
		court.ImageURL,
		court.Location,
		court.Latitude,
		court.Longitude,
		court.SubmittedBy,
		court.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("court %s: %w", court.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert court: %w", err)
	}
	return nil
}

func (r *CourtRepository) Get(ctx context.Context, id string) (*domain.Court, error) {
	row := r.db.QueryRowContext(ctx, courtSelect+`WHERE id = ?`, id)

	var court domain.Court
	if err := scanCourt(row.Scan, &court); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("court: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan court: %w", err)
	}
	return &court, nil
}

func (r *CourtRepository) List(ctx context.Context) ([]domain.Court, error) {
	rows, err := r.db.QueryContext(ctx, courtSelect+`ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var courts []domain.Court
	for rows.Next() {
		var court domain.Court
		if err := scanCourt(rows.Scan, &court); err != nil {
			return nil, fmt.Errorf("scan court: %w", err)
		}
		courts = append(courts, court)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courts: %w", err)
	}
	return courts, nil
}

const courtSelect = `
SELECT id, name, image_url, location, latitude, longitude, submitted_by, created_at
FROM courts
`

func scanCourt(scan func(dest ...any) error, court *domain.Court) error {
	return scan(
		&court.ID,
		&court.Name,
		&court.ImageURL,
		&court.Location,
		&court.Latitude,
		&court.Longitude,
		&court.SubmittedBy,
		&court.CreatedAt,
	)
}
