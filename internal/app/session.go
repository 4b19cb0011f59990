package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/futsalhub/clubadmin/internal/logging"
)

type authProvider interface {
	SendLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, code string) (domain.Session, error)

	SetAccessToken(token string)
	HasAccessToken() bool
	OnUnauthorized(fn func(ctx context.Context))
}

// Session owns the login state of the console. Everything cached belongs to
// the logged in admin, so the cache is cleared whenever the session changes,
// including when the backend rejects the token.
type Session struct {
	client   *cache.Client
	provider authProvider

	mu      sync.Mutex
	current *domain.Session
}

func NewSession(client *cache.Client, provider authProvider) *Session {
	s := &Session{
		client:   client,
		provider: provider,
	}
	provider.OnUnauthorized(func(ctx context.Context) {
		logging.FromContext(ctx).InfoContext(ctx, "Backend rejected the access token, logging out")
		s.Logout(ctx)
	})
	return s
}

func (s *Session) SendCode(ctx context.Context, email string) error {
	if err := s.provider.SendLoginCode(ctx, email); err != nil {
		return fmt.Errorf("could not send login code: %w", err)
	}
	return nil
}

func (s *Session) VerifyCode(ctx context.Context, email, code string) error {
	if err := s.provider.VerifyLoginCode(ctx, email, code); err != nil {
		return fmt.Errorf("could not verify login code: %w", err)
	}
	return nil
}

func (s *Session) Login(ctx context.Context, email, code string) (domain.Session, error) {
	session, err := s.provider.Login(ctx, email, code)
	if err != nil {
		return domain.Session{}, fmt.Errorf("could not log in: %w", err)
	}
	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	s.client.Clear()
	s.provider.SetAccessToken(session.AccessToken)

	logging.FromContext(ctx).InfoContext(ctx, "Logged in", slog.String("userID", strconv.FormatInt(session.User.ID, 10)))
	return session, nil
}

// Resume installs a token obtained earlier, e.g. from the environment.
func (s *Session) Resume(token string) {
	s.client.Clear()
	s.provider.SetAccessToken(token)
}

func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.provider.SetAccessToken("")
	s.client.Clear()
	logging.FromContext(ctx).InfoContext(ctx, "Logged out, cache cleared")
}

func (s *Session) LoggedIn() bool {
	return s.provider.HasAccessToken()
}

// Current returns the session from the last Login, if any.
func (s *Session) Current() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}
