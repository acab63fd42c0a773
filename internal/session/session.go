// Package session tracks the single signed-in user.
package session

import (
	"context"
	"slices"
	"strings"
	"sync"

	"moneyx/internal/log"
)

// Provider reports the active user id.
type Provider interface {
	CurrentUserID() (string, bool)
}

// Manager is an in-process session: one user at a time, no credentials.
type Manager struct {
	mu       sync.RWMutex
	userID   string
	onLogin  []func(ctx context.Context, userID string) error
	onLogout []func(ctx context.Context, userID string)
	logger   *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{logger: logger.WithComponent(log.ComponentSession)}
}

// OnLogin registers fn to run after a user signs in. A failing hook aborts
// the login.
func (m *Manager) OnLogin(fn func(ctx context.Context, userID string) error) {
	m.mu.Lock()
	m.onLogin = append(m.onLogin, fn)
	m.mu.Unlock()
}

// OnLogout registers fn to run after the user signs out.
func (m *Manager) OnLogout(fn func(ctx context.Context, userID string)) {
	m.mu.Lock()
	m.onLogout = append(m.onLogout, fn)
	m.mu.Unlock()
}

// CurrentUserID implements Provider.
func (m *Manager) CurrentUserID() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID, m.userID != ""
}

// Login switches the session to userID, signing out any previous user.
func (m *Manager) Login(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrEmptyUser
	}
	if current, ok := m.CurrentUserID(); ok && current != userID {
		m.Logout(ctx)
	}

	m.mu.RLock()
	hooks := slices.Clone(m.onLogin)
	m.mu.RUnlock()
	for _, fn := range hooks {
		if err := fn(ctx, userID); err != nil {
			m.logger.ErrorContext(ctx, "login hook failed", log.FieldUserID, userID, log.FieldError, err)
			return err
		}
	}

	m.mu.Lock()
	m.userID = userID
	m.mu.Unlock()
	m.logger.InfoContext(ctx, "user logged in", log.FieldUserID, userID, log.FieldOperation, log.OpLogin)
	return nil
}

// Logout clears the session and runs the logout hooks. It is a no-op when
// nobody is signed in.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	userID := m.userID
	m.userID = ""
	hooks := slices.Clone(m.onLogout)
	m.mu.Unlock()

	if userID == "" {
		return
	}
	for _, fn := range hooks {
		fn(ctx, userID)
	}
	m.logger.InfoContext(ctx, "user logged out", log.FieldUserID, userID, log.FieldOperation, log.OpLogout)
}
