package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courtside/internal/domain"
	"courtside/internal/identity"
	"courtside/internal/repository"
)

var (
	// ErrPasswordMismatch aborts a save before any update call is made.
	ErrPasswordMismatch = errors.New("new password and confirm password do not match")
	// ErrInvalidAvatar is returned for an avatar value that is not a data URL.
	ErrInvalidAvatar = errors.New("avatar must be a data URL")
)

// SettingsInput is the settings edit buffer. Name fields are deltas: nil
// means untouched (keep the stored value), a non-nil value is applied even
// when empty, which makes clearing a field possible.
type SettingsInput struct {
	FirstName       *string
	LastName        *string
	Username        *string
	NewPassword     string
	ConfirmPassword string
	// AvatarDataURL is previewed, never persisted.
	AvatarDataURL *string
}

// SettingsResult reports a completed save.
type SettingsResult struct {
	Profile       domain.UserProfile
	DisplayName   string
	Message       string
	AvatarDataURL string
}

// Settings loads and saves the user's profile settings. A save issues the
// profile update, the display-name update and (only when a new password was
// entered) the password update in sequence; earlier steps are not rolled
// back when a later one fails.
type Settings interface {
	Load(ctx context.Context, uid string) (*domain.UserProfile, error)
	Save(ctx context.Context, uid string, in SettingsInput) (*SettingsResult, error)
}

type settings struct {
	provider identity.Provider
	profiles repository.ProfileRepository
}

func NewSettings(provider identity.Provider, profiles repository.ProfileRepository) Settings {
	return &settings{provider: provider, profiles: profiles}
}

func (s *settings) Load(ctx context.Context, uid string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, uid)
}

func (s *settings) Save(ctx context.Context, uid string, in SettingsInput) (*SettingsResult, error) {
	// validation happens before any external call
	if in.NewPassword != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	var avatar string
	if in.AvatarDataURL != nil {
		if !strings.HasPrefix(*in.AvatarDataURL, "data:") {
			return nil, ErrInvalidAvatar
		}
		avatar = *in.AvatarDataURL
	}

	stored, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	firstName := applyDelta(in.FirstName, stored.FirstName)
	lastName := applyDelta(in.LastName, stored.LastName)
	username := applyDelta(in.Username, stored.Username)

	if err := s.profiles.Update(ctx, uid, firstName, lastName, username); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	displayName := firstName + " " + lastName
	if err := s.provider.UpdateDisplayName(ctx, uid, displayName); err != nil {
		return nil, fmt.Errorf("update display name: %w", err)
	}

	if in.NewPassword != "" {
		if err := s.provider.UpdatePassword(ctx, uid, in.NewPassword); err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
	}

	result := &SettingsResult{
		Profile: domain.UserProfile{
			UID:       stored.UID,
			Email:     stored.Email,
			FirstName: firstName,
			LastName:  lastName,
			Username:  username,
			Note:      stored.Note,
			CreatedAt: stored.CreatedAt,
		},
		DisplayName:   displayName,
		Message:       "Profile updated successfully",
		AvatarDataURL: avatar,
	}
	return result, nil
}

// applyDelta keeps the stored value for a nil delta. A non-nil delta wins
// even when empty; the old empty-string-as-unedited sentinel only applies
// to requests that omit the field entirely.
func applyDelta(delta *string, stored string) string {
	if delta == nil {
		return stored
	}
	return *delta
}
