package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"courtside/internal/domain"
	"courtside/internal/identity"
	"courtside/internal/repository"
)

const (
	RouteLanding   = "/"
	RouteDashboard = "/dashboard"
	RouteSignup    = "/signup"
)

var (
	// ErrProfileExists guards signup against overwriting an existing profile record.
	ErrProfileExists = errors.New("profile already exists")
	// ErrMissingFields is returned when a required signup field is blank.
	ErrMissingFields = errors.New("all fields are required")
)

// AuthOutcome is the single result of an auth submission: exactly one of
// Redirect or PendingIdentity is set. A pending identity means the flow
// moved to profile completion; Token accompanies either success shape.
type AuthOutcome struct {
	Redirect        string
	PendingIdentity *domain.Identity
	Token           string
}

// SignupInput collects the password signup form.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// CompletionInput collects the remaining fields for a social identity
// without a profile record.
type CompletionInput struct {
	FirstName string
	LastName  string
	Username  string
}

// AuthFlow sequences the login, signup and profile-completion flows over
// the identity provider and the profile document store. Multi-step flows
// are not transactional: a profile write failing after the credential was
// created leaves the credential in place (known limitation, surfaced as an
// error to the caller).
type AuthFlow interface {
	LoginWithPassword(ctx context.Context, email, password string) (*AuthOutcome, error)
	LoginWithOAuth(ctx context.Context, provider identity.OAuthProvider, token string) (*AuthOutcome, error)
	SignupWithPassword(ctx context.Context, in SignupInput) (*AuthOutcome, error)
	SignupWithOAuth(ctx context.Context, provider identity.OAuthProvider, token string) (*AuthOutcome, error)
	CompleteProfile(ctx context.Context, ident *domain.Identity, in CompletionInput) (*AuthOutcome, error)
}

type authFlow struct {
	provider identity.Provider
	profiles repository.ProfileRepository
}

func NewAuthFlow(provider identity.Provider, profiles repository.ProfileRepository) AuthFlow {
	return &authFlow{provider: provider, profiles: profiles}
}

func (f *authFlow) LoginWithPassword(ctx context.Context, email, password string) (*AuthOutcome, error) {
	ident, err := f.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return f.navigateOutcome(ident, RouteDashboard)
}

// LoginWithOAuth checks for an existing profile record before deciding
// between the dashboard and profile completion. SignupWithOAuth does not;
// the asymmetry is inherited behavior, kept on purpose.
func (f *authFlow) LoginWithOAuth(ctx context.Context, provider identity.OAuthProvider, token string) (*AuthOutcome, error) {
	ident, err := f.provider.VerifyOAuthToken(ctx, provider, token)
	if err != nil {
		return nil, err
	}

	_, err = f.profiles.Get(ctx, ident.UID)
	switch {
	case err == nil:
		return f.navigateOutcome(ident, RouteDashboard)
	case errors.Is(err, repository.ErrNotFound):
		return f.completionOutcome(ident)
	default:
		return nil, err
	}
}

func (f *authFlow) SignupWithPassword(ctx context.Context, in SignupInput) (*AuthOutcome, error) {
	if strings.TrimSpace(in.FirstName) == "" ||
		strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Username) == "" ||
		strings.TrimSpace(in.Email) == "" {
		return nil, ErrMissingFields
	}

	ident, err := f.provider.CreateAccountWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	profile := &domain.UserProfile{
		UID:       ident.UID,
		Email:     ident.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.profiles.Create(ctx, profile); err != nil {
		// credential already exists at this point and is not rolled back
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("store profile: %w", err)
	}

	return f.navigateOutcome(ident, RouteDashboard)
}

func (f *authFlow) SignupWithOAuth(ctx context.Context, provider identity.OAuthProvider, token string) (*AuthOutcome, error) {
	ident, err := f.provider.VerifyOAuthToken(ctx, provider, token)
	if err != nil {
		return nil, err
	}
	return f.completionOutcome(ident)
}

func (f *authFlow) CompleteProfile(ctx context.Context, ident *domain.Identity, in CompletionInput) (*AuthOutcome, error) {
	if strings.TrimSpace(in.FirstName) == "" ||
		strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Username) == "" {
		return nil, ErrMissingFields
	}

	profile := &domain.UserProfile{
		UID:       ident.UID,
		Email:     ident.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("store profile: %w", err)
	}

	return f.navigateOutcome(ident, RouteDashboard)
}

func (f *authFlow) navigateOutcome(ident *domain.Identity, route string) (*AuthOutcome, error) {
	token, err := f.provider.IssueToken(ident)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthOutcome{Redirect: route, Token: token}, nil
}

func (f *authFlow) completionOutcome(ident *domain.Identity) (*AuthOutcome, error) {
	token, err := f.provider.IssueToken(ident)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthOutcome{PendingIdentity: ident, Token: token}, nil
}
