package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"courtside/internal/domain"
	"courtside/internal/identity"
	"courtside/internal/repository"
	"courtside/internal/storage"
)

// fakeProvider scripts the identity-provider boundary and counts every
// mutating call.
type fakeProvider struct {
	broadcaster *identity.Broadcaster

	signInIdentity *domain.Identity
	signInErr      error
	signInCalls    int

	createIdentity *domain.Identity
	createErr      error
	createCalls    int

	oauthIdentity *domain.Identity
	oauthErr      error
	oauthCalls    int

	signOutCalls int

	displayNameCalls int
	lastDisplayName  string
	displayNameErr   error

	passwordCalls int
	lastPassword  string
	passwordErr   error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{broadcaster: identity.NewBroadcaster()}
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.broadcaster.Publish(f.signInIdentity)
	return f.signInIdentity, nil
}

func (f *fakeProvider) CreateAccountWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	ident := f.createIdentity
	if ident == nil {
		ident = &domain.Identity{UID: "uid-created", Email: email}
	}
	f.broadcaster.Publish(ident)
	return ident, nil
}

func (f *fakeProvider) VerifyOAuthToken(ctx context.Context, provider identity.OAuthProvider, token string) (*domain.Identity, error) {
	f.oauthCalls++
	if f.oauthErr != nil {
		return nil, f.oauthErr
	}
	f.broadcaster.Publish(f.oauthIdentity)
	return f.oauthIdentity, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, uid string) error {
	f.signOutCalls++
	f.broadcaster.Publish(nil)
	return nil
}

func (f *fakeProvider) SubscribeToAuthState(fn func(*domain.Identity)) func() {
	return f.broadcaster.Subscribe(fn)
}

func (f *fakeProvider) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	f.displayNameCalls++
	if f.displayNameErr != nil {
		return f.displayNameErr
	}
	f.lastDisplayName = displayName
	return nil
}

func (f *fakeProvider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	f.passwordCalls++
	if f.passwordErr != nil {
		return f.passwordErr
	}
	f.lastPassword = newPassword
	return nil
}

func (f *fakeProvider) IssueToken(ident *domain.Identity) (string, error) {
	return "token-" + ident.UID, nil
}

func (f *fakeProvider) VerifyToken(token string) (*domain.Identity, error) {
	return nil, identity.ErrInvalidToken
}

var _ identity.Provider = (*fakeProvider)(nil)

// fakeProfileRepo is an in-memory ProfileRepository with call counters.
type fakeProfileRepo struct {
	profiles map[string]domain.UserProfile

	getCalls    int
	getCtxs     []context.Context
	getErr      error
	createCalls int
	createErr   error
	updateCalls int
	updateErr   error

	lastUpdated domain.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]domain.UserProfile)}
}

func (f *fakeProfileRepo) Init(ctx context.Context) error { return nil }

func (f *fakeProfileRepo) Create(ctx context.Context, profile *domain.UserProfile) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.profiles[profile.UID]; ok {
		return repository.ErrAlreadyExists
	}
	f.profiles[profile.UID] = *profile
	return nil
}

func (f *fakeProfileRepo) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	f.getCalls++
	f.getCtxs = append(f.getCtxs, ctx)
	if f.getErr != nil {
		return nil, f.getErr
	}
	profile, ok := f.profiles[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, uid, firstName, lastName, username string) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	profile, ok := f.profiles[uid]
	if !ok {
		return repository.ErrNotFound
	}
	profile.FirstName = firstName
	profile.LastName = lastName
	profile.Username = username
	f.profiles[uid] = profile
	f.lastUpdated = profile
	return nil
}

var _ repository.ProfileRepository = (*fakeProfileRepo)(nil)

// fakeCourtRepo / fakeFavoriteRepo back the court service tests.
type fakeCourtRepo struct {
	courts map[string]domain.Court
}

func newFakeCourtRepo() *fakeCourtRepo {
	return &fakeCourtRepo{courts: make(map[string]domain.Court)}
}

func (f *fakeCourtRepo) Init(ctx context.Context) error { return nil }

func (f *fakeCourtRepo) Create(ctx context.Context, court *domain.Court) error {
	if _, ok := f.courts[court.ID]; ok {
		return repository.ErrAlreadyExists
	}
	if court.CreatedAt.IsZero() {
		court.CreatedAt = time.Now().UTC()
	}
	f.courts[court.ID] = *court
	return nil
}

func (f *fakeCourtRepo) Get(ctx context.Context, id string) (*domain.Court, error) {
	court, ok := f.courts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &court, nil
}

func (f *fakeCourtRepo) List(ctx context.Context) ([]domain.Court, error) {
	out := make([]domain.Court, 0, len(f.courts))
	for _, court := range f.courts {
		out = append(out, court)
	}
	return out, nil
}

var _ repository.CourtRepository = (*fakeCourtRepo)(nil)

type fakeFavoriteRepo struct {
	favorites map[string][]domain.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string][]domain.Favorite)}
}

func (f *fakeFavoriteRepo) Init(ctx context.Context) error { return nil }

func (f *fakeFavoriteRepo) Add(ctx context.Context, uid, courtID string) error {
	for _, fav := range f.favorites[uid] {
		if fav.CourtID == courtID {
			return nil
		}
	}
	f.favorites[uid] = append(f.favorites[uid], domain.Favorite{UID: uid, CourtID: courtID, CreatedAt: time.Now().UTC()})
	return nil
}

func (f *fakeFavoriteRepo) Remove(ctx context.Context, uid, courtID string) error {
	kept := f.favorites[uid][:0]
	for _, fav := range f.favorites[uid] {
		if fav.CourtID != courtID {
			kept = append(kept, fav)
		}
	}
	f.favorites[uid] = kept
	return nil
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, uid string) ([]domain.Favorite, error) {
	return f.favorites[uid], nil
}

var _ repository.FavoriteRepository = (*fakeFavoriteRepo)(nil)

// fakeStorage records uploads without touching any real bucket.
type fakeStorage struct {
	uploads map[string][]byte
	lastKey string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) UploadObject(ctx context.Context, bucket, key string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploads[key] = data
	f.lastKey = key
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

func (f *fakeStorage) GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://%s.example.com/%s", bucket, key), nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	delete(f.uploads, key)
	return nil
}

var _ storage.Service = (*fakeStorage)(nil)
