package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/domain"
)

func TestSubmitCourtWithImageUpload(t *testing.T) {
	courts := newFakeCourtRepo()
	store := newFakeStorage()
	svc := NewCourtService(courts, newFakeFavoriteRepo(), store, "courts-bucket", "courtside")

	court, err := svc.SubmitCourt(context.Background(), "uid-1", SubmitCourtInput{
		Name:      "Exhibition Park",
		Location:  "Guelph",
		Latitude:  43.55,
		Longitude: -80.25,
		Image:     strings.NewReader("fake-png-bytes"),
		ImageName: "court.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Exhibition Park", court.Name)
	assert.Equal(t, "uid-1", court.SubmittedBy)
	assert.True(t, strings.HasSuffix(store.lastKey, ".png"), "key %q keeps the extension", store.lastKey)
	assert.Equal(t, []byte("fake-png-bytes"), store.uploads[store.lastKey])

	// the row keeps the canonical object reference, the caller gets a link
	// a browser can fetch
	assert.Equal(t, "s3://courts-bucket/"+store.lastKey, courts.courts[court.ID].ImageURL)
	assert.Equal(t, "https://courts-bucket.example.com/"+store.lastKey, court.ImageURL)
}

func TestUploadedImageServedAsFetchableURL(t *testing.T) {
	courts := newFakeCourtRepo()
	store := newFakeStorage()
	svc := NewCourtService(courts, newFakeFavoriteRepo(), store, "courts-bucket", "courtside")

	created, err := svc.SubmitCourt(context.Background(), "uid-1", SubmitCourtInput{
		Name:      "Exhibition Park",
		Image:     strings.NewReader("fake-png-bytes"),
		ImageName: "court.png",
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddFavorite(context.Background(), "uid-2", created.ID))

	listed, err := svc.ListCourts(context.Background())
	require.NoError(t, err)
	fetched, err := svc.GetCourt(context.Background(), created.ID)
	require.NoError(t, err)
	favorites, err := svc.ListFavorites(context.Background(), "uid-2")
	require.NoError(t, err)

	for _, url := range []string{created.ImageURL, listed[0].ImageURL, fetched.ImageURL, favorites[0].ImageURL} {
		assert.Truef(t, strings.HasPrefix(url, "https://"), "image URL %q is not fetchable by a client", url)
	}
}

func TestSubmitCourtWithExternalURL(t *testing.T) {
	svc := NewCourtService(newFakeCourtRepo(), newFakeFavoriteRepo(), nil, "", "")

	court, err := svc.SubmitCourt(context.Background(), "uid-1", SubmitCourtInput{
		Name:     "Riverside",
		ImageURL: "https://img.example.com/riverside.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/riverside.jpg", court.ImageURL)
}

func TestSubmitCourtRequiresImage(t *testing.T) {
	svc := NewCourtService(newFakeCourtRepo(), newFakeFavoriteRepo(), nil, "", "")

	_, err := svc.SubmitCourt(context.Background(), "uid-1", SubmitCourtInput{Name: "Riverside"})
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestFavoriteRoundTrip(t *testing.T) {
	courts := newFakeCourtRepo()
	favorites := newFakeFavoriteRepo()
	svc := NewCourtService(courts, favorites, nil, "", "")

	court, err := svc.SubmitCourt(context.Background(), "uid-1", SubmitCourtInput{
		Name:     "Riverside",
		ImageURL: "https://img.example.com/riverside.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddFavorite(context.Background(), "uid-2", court.ID))
	// idempotent
	require.NoError(t, svc.AddFavorite(context.Background(), "uid-2", court.ID))

	saved, err := svc.ListFavorites(context.Background(), "uid-2")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, court.ID, saved[0].ID)

	require.NoError(t, svc.RemoveFavorite(context.Background(), "uid-2", court.ID))
	saved, err = svc.ListFavorites(context.Background(), "uid-2")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestAddFavoriteUnknownCourt(t *testing.T) {
	svc := NewCourtService(newFakeCourtRepo(), newFakeFavoriteRepo(), nil, "", "")
	assert.Error(t, svc.AddFavorite(context.Background(), "uid-1", "missing"))
}

func TestMapPins(t *testing.T) {
	courts := newFakeCourtRepo()
	require.NoError(t, courts.Create(context.Background(), &domain.Court{
		ID: "c1", Name: "Riverside", Latitude: 43.5, Longitude: -80.2,
	}))
	svc := NewCourtService(courts, newFakeFavoriteRepo(), nil, "", "")

	pins, err := svc.MapPins(context.Background())
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, MapPin{CourtID: "c1", Name: "Riverside", Latitude: 43.5, Longitude: -80.2}, pins[0])
}
