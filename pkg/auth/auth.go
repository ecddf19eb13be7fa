// Package auth manages the user session over the backend auth endpoints.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cookbookd/recipe-browser/pkg/api"
	"github.com/cookbookd/recipe-browser/pkg/logging"
)

// Backend is the auth surface of the API client.
// *api.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (api.Session, error)
	Register(ctx context.Context, username, email, password string) (api.Session, error)
	Me(ctx context.Context, token string) (api.User, error)
}

// TokenStore persists a session across manager instances. The in-memory
// implementation keeps it for the process lifetime only.
type TokenStore interface {
	Save(session api.Session) error
	Load() (api.Session, bool, error)
	Clear() error
}

// MemoryTokenStore is a process-local TokenStore.
type MemoryTokenStore struct {
	mu      sync.Mutex
	session api.Session
	ok      bool
}

// Save implements TokenStore.
func (s *MemoryTokenStore) Save(session api.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.ok = true
	return nil
}

// Load implements TokenStore.
func (s *MemoryTokenStore) Load() (api.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.ok, nil
}

// Clear implements TokenStore.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = api.Session{}
	s.ok = false
	return nil
}

// Manager holds the current user and bearer token.
type Manager struct {
	backend Backend
	tokens  TokenStore
	logger  zerolog.Logger

	mu      sync.RWMutex
	user    api.User
	token   string
	granted bool
}

// Config holds the manager configuration.
type Config struct {
	// Backend is the API client. Required.
	Backend Backend

	// Tokens persists sessions. Nil means a MemoryTokenStore.
	Tokens TokenStore
}

// New creates a session manager.
func New(cfg Config) (*Manager, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if cfg.Tokens == nil {
		cfg.Tokens = &MemoryTokenStore{}
	}

	return &Manager{
		backend: cfg.Backend,
		tokens:  cfg.Tokens,
		logger:  logging.NewLogger("auth"),
	}, nil
}

// Restore loads a stored session and verifies its token against the
// backend. An invalid token clears the session.
func (m *Manager) Restore(ctx context.Context) error {
	session, ok, err := m.tokens.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}

	user, err := m.backend.Me(ctx, session.Token)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Stored token rejected, clearing session")
		m.Logout()
		return fmt.Errorf("verify token: %w", err)
	}

	m.setSession(api.Session{User: user, Token: session.Token})
	return nil
}

// Login authenticates and establishes the session.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	session, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.setSession(session)
	if err := m.tokens.Save(session); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist session")
	}
	m.logger.Info().Str("username", session.User.Username).Msg("Logged in")
	return nil
}

// Register creates an account and establishes the session.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	session, err := m.backend.Register(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	m.setSession(session)
	if err := m.tokens.Save(session); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist session")
	}
	m.logger.Info().Str("username", session.User.Username).Msg("Registered")
	return nil
}

// Logout clears the session and the stored token.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.user = api.User{}
	m.token = ""
	m.granted = false
	m.mu.Unlock()

	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to clear stored session")
	}
}

// IsAuthenticated reports whether a session is established.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.granted
}

// Token returns the bearer token, or empty when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns the current user.
func (m *Manager) User() (api.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.granted
}

// UpdateFavorites replaces the cached user's favorite list. Only the
// local session state changes; persistence happens via the favorites
// endpoints.
func (m *Manager) UpdateFavorites(favorites []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.granted {
		return
	}
	m.user.Favorites = favorites
}

func (m *Manager) setSession(session api.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = session.User
	m.token = session.Token
	m.granted = true
}
