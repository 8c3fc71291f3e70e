package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtside/internal/domain"
	"courtside/internal/repository"
	"courtside/internal/storage"
)

// ErrNoImage is returned when a court submission carries neither an upload
// nor an external image URL.
var ErrNoImage = errors.New("court image is required")

// imageURLTTL bounds the presigned read links handed to clients. Stored
// rows keep the canonical s3://bucket/key form.
const imageURLTTL = 15 * time.Minute

// SubmitCourtInput is a court submission. Exactly one of Image or ImageURL
// should be provided; Image wins when both are set.
type SubmitCourtInput struct {
	Name      string
	Location  string
	Latitude  float64
	Longitude float64
	ImageURL  string
	Image     io.Reader
	ImageName string
}

// MapPin is the minimal payload the map widget needs per court.
type MapPin struct {
	CourtID   string
	Name      string
	Latitude  float64
	Longitude float64
}

// CourtService serves the dashboard sub-views: court listings (Home),
// map pins (Map), per-user favorites (Favorite) and submissions (AddCourts).
type CourtService interface {
	ListCourts(ctx context.Context) ([]domain.Court, error)
	GetCourt(ctx context.Context, id string) (*domain.Court, error)
	SubmitCourt(ctx context.Context, uid string, in SubmitCourtInput) (*domain.Court, error)
	MapPins(ctx context.Context) ([]MapPin, error)
	AddFavorite(ctx context.Context, uid, courtID string) error
	RemoveFavorite(ctx context.Context, uid, courtID string) error
	ListFavorites(ctx context.Context, uid string) ([]domain.Court, error)
}

type courtService struct {
	courts    repository.CourtRepository
	favorites repository.FavoriteRepository
	images    storage.Service // nil when object storage is not configured
	bucket    string
	keyPrefix string
}

func NewCourtService(courts repository.CourtRepository, favorites repository.FavoriteRepository, images storage.Service, bucket, keyPrefix string) CourtService {
	return &courtService{
		courts:    courts,
		favorites: favorites,
		images:    images,
		bucket:    bucket,
		keyPrefix: keyPrefix,
	}
}

func (s *courtService) ListCourts(ctx context.Context) ([]domain.Court, error) {
	courts, err := s.courts.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courts {
		if err := s.resolveImageURL(ctx, &courts[i]); err != nil {
			return nil, err
		}
	}
	return courts, nil
}

func (s *courtService) GetCourt(ctx context.Context, id string) (*domain.Court, error) {
	court, err := s.courts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveImageURL(ctx, court); err != nil {
		return nil, err
	}
	return court, nil
}

func (s *courtService) SubmitCourt(ctx context.Context, uid string, in SubmitCourtInput) (*domain.Court, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("court name is required")
	}

	court := &domain.Court{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Location:    strings.TrimSpace(in.Location),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		SubmittedBy: uid,
	}

	switch {
	case in.Image != nil && s.images != nil && s.bucket != "":
		key := s.imageKey(court.ID, in.ImageName)
		url, err := s.images.UploadObject(ctx, s.bucket, key, in.Image)
		if err != nil {
			return nil, fmt.Errorf("upload court image: %w", err)
		}
		court.ImageURL = url
	case in.ImageURL != "":
		court.ImageURL = in.ImageURL
	default:
		return nil, ErrNoImage
	}

	if err := s.courts.Create(ctx, court); err != nil {
		return nil, err
	}
	if err := s.resolveImageURL(ctx, court); err != nil {
		return nil, err
	}
	return court, nil
}

func (s *courtService) MapPins(ctx context.Context) ([]MapPin, error) {
	courts, err := s.courts.List(ctx)
	if err != nil {
		return nil, err
	}
	pins := make([]MapPin, len(courts))
	for i := range courts {
		pins[i] = MapPin{
			CourtID:   courts[i].ID,
			Name:      courts[i].Name,
			Latitude:  courts[i].Latitude,
			Longitude: courts[i].Longitude,
		}
	}
	return pins, nil
}

func (s *courtService) AddFavorite(ctx context.Context, uid, courtID string) error {
	if _, err := s.courts.Get(ctx, courtID); err != nil {
		return err
	}
	return s.favorites.Add(ctx, uid, courtID)
}

func (s *courtService) RemoveFavorite(ctx context.Context, uid, courtID string) error {
	return s.favorites.Remove(ctx, uid, courtID)
}

func (s *courtService) ListFavorites(ctx context.Context, uid string) ([]domain.Court, error) {
	favorites, err := s.favorites.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	courts := make([]domain.Court, 0, len(favorites))
	for _, fav := range favorites {
		court, err := s.courts.Get(ctx, fav.CourtID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if err := s.resolveImageURL(ctx, court); err != nil {
			return nil, err
		}
		courts = append(courts, *court)
	}
	return courts, nil
}

// resolveImageURL swaps a stored s3://bucket/key reference for a presigned
// HTTPS link a browser can actually fetch. External URLs pass through.
func (s *courtService) resolveImageURL(ctx context.Context, court *domain.Court) error {
	rest, ok := strings.CutPrefix(court.ImageURL, "s3://")
	if !ok || s.images == nil {
		return nil
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok {
		return nil
	}
	url, err := s.images.GetObjectURL(ctx, bucket, key, imageURLTTL)
	if err != nil {
		return fmt.Errorf("presign court image %s: %w", key, err)
	}
	court.ImageURL = url
	return nil
}

func (s *courtService) imageKey(courtID, imageName string) string {
	ext := path.Ext(imageName)
	key := fmt.Sprintf("courts/%s%s", courtID, ext)
	if prefix := strings.Trim(s.keyPrefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}
