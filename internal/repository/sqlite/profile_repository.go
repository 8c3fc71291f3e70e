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

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS user_profiles (
	uid TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create user_profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_profiles (uid, email, first_name, last_name, username, note, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.UID,
		profile.Email,
		profile.FirstName,
		profile.LastName,
		profile.Username,
		profile.Note,
		profile.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("profile %s: %w", profile.UID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT uid, email, first_name, last_name, username, note, created_at
FROM user_profiles
WHERE uid = ?`,
		uid,
	)

	var profile domain.UserProfile
	if err := row.Scan(
		&profile.UID,
		&profile.Email,
		&profile.FirstName,
		&profile.LastName,
		&profile.Username,
		&profile.Note,
		&profile.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, uid, firstName, lastName, username string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE user_profiles SET first_name = ?, last_name = ?, username = ? WHERE uid = ?`,
		firstName, lastName, username, uid,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}
