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

const createAccountsTable = `
CREATE TABLE IF NOT EXISTS accounts (
	uid TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	auth_provider TEXT NOT NULL,
	subject TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_subject
	ON accounts (auth_provider, subject) WHERE subject != '';
`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAccountsTable); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO accounts (uid, email, password_hash, display_name, auth_provider, subject, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.UID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.AuthProvider,
		account.Subject,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("account %s: %w", account.Email, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByUID(ctx context.Context, uid string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, accountSelect+`WHERE uid = ?`, uid)
	return scanAccount(row)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, accountSelect+`WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *AccountRepository) GetBySubject(ctx context.Context, provider, subject string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, accountSelect+`WHERE auth_provider = ? AND subject = ?`, provider, subject)
	return scanAccount(row)
}

func (r *AccountRepository) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE accounts SET display_name = ?, updated_at = ? WHERE uid = ?`,
		displayName, time.Now().UTC(), uid,
	)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return requireRow(res)
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, uid, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE accounts SET password_hash = ?, updated_at = ? WHERE uid = ?`,
		passwordHash, time.Now().UTC(), uid,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return requireRow(res)
}

const accountSelect = `
SELECT uid, email, password_hash, display_name, auth_provider, subject, created_at, updated_at
FROM accounts
`

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.UID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&account.AuthProvider,
		&account.Subject,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &account, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
