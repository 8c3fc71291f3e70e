// Package identity implements the identity-provider boundary: password and
// OAuth sign-in, account credential updates, session tokens and the
// auth-state observer. Callers never see credential material, only
// domain.Identity values.
package identity

import (
	"context"
	"errors"

	"courtside/internal/domain"
)

// OAuthProvider names a supported social sign-in provider.
type OAuthProvider string

const (
	ProviderGoogle OAuthProvider = "google"
	ProviderGitHub OAuthProvider = "github"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is returned when registering an email that already has an account.
	ErrAccountExists = errors.New("account already exists")
	// ErrUnknownProvider is returned for an OAuth provider outside the supported set.
	ErrUnknownProvider = errors.New("unknown oauth provider")
	// ErrInvalidToken indicates a session token that failed verification.
	ErrInvalidToken = errors.New("invalid token")
)

// Provider describes identity operations. Error messages are human-readable
// and shown to the user verbatim.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error)
	CreateAccountWithPassword(ctx context.Context, email, password string) (*domain.Identity, error)
	// VerifyOAuthToken validates a provider-issued token (the result of the
	// client-side popup) and signs in the matching account, creating the
	// credential record on first sight.
	VerifyOAuthToken(ctx context.Context, provider OAuthProvider, token string) (*domain.Identity, error)
	SignOut(ctx context.Context, uid string) error
	// SubscribeToAuthState registers an observer which fires immediately
	// with the current identity (nil when signed out) and again on every
	// change. The returned function must be called on teardown.
	SubscribeToAuthState(fn func(*domain.Identity)) (unsubscribe func())
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	UpdatePassword(ctx context.Context, uid, newPassword string) error

	IssueToken(identity *domain.Identity) (string, error)
	// VerifyToken returns the identity embedded in a session token.
	VerifyToken(token string) (*domain.Identity, error)
}
