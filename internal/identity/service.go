package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"courtside/internal/domain"
	"courtside/internal/repository"
)

// Service is the concrete identity provider backed by the account
// repository. It owns the auth-state broadcaster and session tokens.
type Service struct {
	accounts    repository.AccountRepository
	verifiers   map[OAuthProvider]TokenVerifier
	broadcaster *Broadcaster
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewService(accounts repository.AccountRepository, verifiers map[OAuthProvider]TokenVerifier, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		accounts:    accounts,
		verifiers:   verifiers,
		broadcaster: NewBroadcaster(),
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if account.PasswordHash == "" {
		// social account, no password to compare against
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	identity := toIdentity(account)
	s.broadcaster.Publish(identity)
	return identity, nil
}

func (s *Service) CreateAccountWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		AuthProvider: "password",
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	identity := toIdentity(account)
	s.broadcaster.Publish(identity)
	return identity, nil
}

func (s *Service) VerifyOAuthToken(ctx context.Context, provider OAuthProvider, token string) (*domain.Identity, error) {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	external, err := verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetBySubject(ctx, string(provider), external.Subject)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		account = &domain.Account{
			UID:          uuid.NewString(),
			Email:        strings.ToLower(external.Email),
			DisplayName:  external.DisplayName,
			AuthProvider: string(provider),
			Subject:      external.Subject,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("create oauth account: %w", err)
		}
	default:
		return nil, err
	}

	identity := toIdentity(account)
	s.broadcaster.Publish(identity)
	return identity, nil
}

func (s *Service) SignOut(ctx context.Context, uid string) error {
	s.broadcaster.Publish(nil)
	return nil
}

func (s *Service) SubscribeToAuthState(fn func(*domain.Identity)) func() {
	return s.broadcaster.Subscribe(fn)
}

func (s *Service) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	if err := s.accounts.UpdateDisplayName(ctx, uid, strings.TrimSpace(displayName)); err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return nil
}

func (s *Service) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, uid, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *Service) IssueToken(identity *domain.Identity) (string, error) {
	return generateToken(identity, s.jwtSecret, s.tokenTTL)
}

func (s *Service) VerifyToken(token string) (*domain.Identity, error) {
	return identityFromToken(token, s.jwtSecret)
}

func validatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func toIdentity(account *domain.Account) *domain.Identity {
	return &domain.Identity{
		UID:         account.UID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
	}
}

var _ Provider = (*Service)(nil)
