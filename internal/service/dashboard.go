package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"courtside/internal/domain"
	"courtside/internal/identity"
	"courtside/internal/repository"
)

// DashboardState is the shell's lifecycle state.
type DashboardState string

const (
	StateUnauthenticated DashboardState = "unauthenticated"
	StateLoadingProfile  DashboardState = "loading_profile"
	StateReady           DashboardState = "ready"
	// StateProfileMissing is entered when an authenticated user's profile
	// record never shows up before the configured deadline. Without a
	// deadline the shell waits indefinitely, matching the original.
	StateProfileMissing DashboardState = "profile_missing"
)

// DashboardShell drives the dashboard lifecycle: it owns one auth-state
// subscription, loads the profile record on sign-in, redirects on sign-out
// and tracks the selected sub-view. Mount returns an unmount function that
// releases the subscription and any pending deadline timer.
type DashboardShell struct {
	provider identity.Provider
	profiles repository.ProfileRepository
	navigate func(path string)
	deadline time.Duration // zero means wait forever
	log      logrus.FieldLogger

	mu       sync.Mutex
	state    DashboardState
	identity *domain.Identity
	profile  *domain.UserProfile
	note     string
	view     domain.DashboardView

	unsubscribe func()
	cancelLoad  context.CancelFunc
	timer       *time.Timer
	mounted     bool
}

func NewDashboardShell(provider identity.Provider, profiles repository.ProfileRepository, navigate func(path string), deadline time.Duration) *DashboardShell {
	return &DashboardShell{
		provider: provider,
		profiles: profiles,
		navigate: navigate,
		deadline: deadline,
		log:      logrus.StandardLogger(),
		state:    StateUnauthenticated,
		view:     domain.ViewHome,
	}
}

// Mount subscribes to auth-state changes. The observer fires immediately
// with the current identity: a signed-out mount redirects to the landing
// route without ever touching the profile store.
func (s *DashboardShell) Mount() (unmount func()) {
	s.mu.Lock()
	s.mounted = true
	s.mu.Unlock()

	s.unsubscribe = s.provider.SubscribeToAuthState(s.onAuthState)

	return func() {
		s.mu.Lock()
		s.mounted = false
		if s.cancelLoad != nil {
			s.cancelLoad()
			s.cancelLoad = nil
		}
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.mu.Unlock()
		s.unsubscribe()
	}
}

func (s *DashboardShell) onAuthState(ident *domain.Identity) {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}

	if ident == nil {
		s.state = StateUnauthenticated
		s.identity = nil
		s.profile = nil
		if s.cancelLoad != nil {
			s.cancelLoad()
			s.cancelLoad = nil
		}
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.mu.Unlock()
		s.navigate(RouteLanding)
		return
	}

	s.identity = ident
	s.state = StateLoadingProfile
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelLoad = cancel
	if s.deadline > 0 {
		if s.timer != nil {
			s.timer.Stop()
		}
		s.timer = time.AfterFunc(s.deadline, func() { s.markProfileMissing() })
	}
	s.mu.Unlock()

	s.loadProfile(ctx, ident.UID)
}

func (s *DashboardShell) loadProfile(ctx context.Context, uid string) {
	profile, err := s.profiles.Get(ctx, uid)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted || s.identity == nil || s.identity.UID != uid {
		return
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// stay loading until the deadline (if any) fires
			return
		}
		s.log.WithError(err).WithField("uid", uid).Warn("dashboard: profile fetch failed")
		return
	}
	s.profile = profile
	s.note = profile.Note
	s.state = StateReady
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *DashboardShell) markProfileMissing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted || s.state != StateLoadingProfile {
		return
	}
	s.state = StateProfileMissing
}

// Logout signs out and navigates home. The auth observer also fires with a
// nil identity, which is what resets the shell state.
func (s *DashboardShell) Logout(ctx context.Context) error {
	s.mu.Lock()
	uid := ""
	if s.identity != nil {
		uid = s.identity.UID
	}
	s.mu.Unlock()

	if err := s.provider.SignOut(ctx, uid); err != nil {
		return err
	}
	s.navigate(RouteLanding)
	return nil
}

// SetView switches the dashboard sub-view. Unknown names are rejected, any
// authenticated-ready user may switch freely.
func (s *DashboardShell) SetView(name string) error {
	view, err := domain.ParseDashboardView(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	return nil
}

func (s *DashboardShell) View() domain.DashboardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *DashboardShell) State() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *DashboardShell) Profile() *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *DashboardShell) Note() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note
}
