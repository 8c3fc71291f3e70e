package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/domain"
	"courtside/internal/repository"
)

type memAccountRepo struct {
	byUID map[string]*domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{byUID: make(map[string]*domain.Account)}
}

func (m *memAccountRepo) Init(ctx context.Context) error { return nil }

func (m *memAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	for _, existing := range m.byUID {
		if existing.Email == account.Email {
			return repository.ErrAlreadyExists
		}
	}
	copied := *account
	m.byUID[account.UID] = &copied
	return nil
}

func (m *memAccountRepo) GetByUID(ctx context.Context, uid string) (*domain.Account, error) {
	if account, ok := m.byUID[uid]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, account := range m.byUID {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAccountRepo) GetBySubject(ctx context.Context, provider, subject string) (*domain.Account, error) {
	for _, account := range m.byUID {
		if account.AuthProvider == provider && account.Subject == subject {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAccountRepo) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	account, ok := m.byUID[uid]
	if !ok {
		return repository.ErrNotFound
	}
	account.DisplayName = displayName
	return nil
}

func (m *memAccountRepo) UpdatePasswordHash(ctx context.Context, uid, passwordHash string) error {
	account, ok := m.byUID[uid]
	if !ok {
		return repository.ErrNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

var _ repository.AccountRepository = (*memAccountRepo)(nil)

type staticVerifier struct {
	external *ExternalIdentity
	err      error
	calls    int
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (*ExternalIdentity, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.external, nil
}

func newTestService(accounts repository.AccountRepository, verifiers map[OAuthProvider]TokenVerifier) *Service {
	return NewService(accounts, verifiers, "test-secret", time.Hour)
}

func TestCreateAndSignInWithPassword(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)

	created, err := svc.CreateAccountWithPassword(context.Background(), "A@B.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", created.Email)
	assert.NotEmpty(t, created.UID)

	signedIn, err := svc.SignInWithPassword(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.UID, signedIn.UID)
}

func TestSignInWrongPassword(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	_, err := svc.CreateAccountWithPassword(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	_, err = svc.SignInWithPassword(context.Background(), "a@b.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	_, err := svc.SignInWithPassword(context.Background(), "nobody@b.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	_, err := svc.CreateAccountWithPassword(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	_, err = svc.CreateAccountWithPassword(context.Background(), "a@b.com", "secret456")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestCreateAccountShortPassword(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	_, err := svc.CreateAccountWithPassword(context.Background(), "a@b.com", "short")
	assert.Error(t, err)
}

func TestOAuthSignInCreatesAccountOnce(t *testing.T) {
	verifier := &staticVerifier{external: &ExternalIdentity{
		Subject: "g-123", Email: "G@B.com", DisplayName: "Grace Hopper",
	}}
	svc := newTestService(newMemAccountRepo(), map[OAuthProvider]TokenVerifier{
		ProviderGoogle: verifier,
	})

	first, err := svc.VerifyOAuthToken(context.Background(), ProviderGoogle, "tok")
	require.NoError(t, err)
	assert.Equal(t, "g@b.com", first.Email)
	assert.Equal(t, "Grace Hopper", first.DisplayName)

	second, err := svc.VerifyOAuthToken(context.Background(), ProviderGoogle, "tok")
	require.NoError(t, err)
	assert.Equal(t, first.UID, second.UID)
	assert.Equal(t, 2, verifier.calls)
}

func TestOAuthUnknownProvider(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	_, err := svc.VerifyOAuthToken(context.Background(), "facebook", "tok")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestPasswordSignInRejectedForOAuthAccount(t *testing.T) {
	verifier := &staticVerifier{external: &ExternalIdentity{Subject: "g-123", Email: "g@b.com"}}
	svc := newTestService(newMemAccountRepo(), map[OAuthProvider]TokenVerifier{
		ProviderGoogle: verifier,
	})
	_, err := svc.VerifyOAuthToken(context.Background(), ProviderGoogle, "tok")
	require.NoError(t, err)

	_, err = svc.SignInWithPassword(context.Background(), "g@b.com", "anything1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePasswordThenSignIn(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	created, err := svc.CreateAccountWithPassword(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(context.Background(), created.UID, "newpass99"))

	_, err = svc.SignInWithPassword(context.Background(), "a@b.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignInWithPassword(context.Background(), "a@b.com", "newpass99")
	assert.NoError(t, err)
}

func TestSignOutNotifiesObservers(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	created, err := svc.CreateAccountWithPassword(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	var last *domain.Identity
	seen := 0
	unsub := svc.SubscribeToAuthState(func(ident *domain.Identity) {
		last = ident
		seen++
	})
	defer unsub()
	require.Equal(t, created.UID, last.UID)

	require.NoError(t, svc.SignOut(context.Background(), created.UID))
	assert.Nil(t, last)
	assert.Equal(t, 2, seen)
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc := newTestService(newMemAccountRepo(), nil)
	created, err := svc.CreateAccountWithPassword(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	token, err := svc.IssueToken(created)
	require.NoError(t, err)

	ident, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.UID, ident.UID)
	assert.Equal(t, "a@b.com", ident.Email)
}
