package store

import (
	"context"
	"fmt"
	"sync"

	"moneyx/internal/core"
	"moneyx/internal/log"
)

// Persister saves a committed state. A failing Save aborts the commit.
type Persister interface {
	Save(ctx context.Context, userID string, s State) error
}

// Loader returns a previously persisted state; ok is false when the user
// has none.
type Loader interface {
	Load(ctx context.Context, userID string) (s State, ok bool, err error)
}

// Store holds the state of the single active user. All writes go through
// Update, which applies a mutation to a private copy and swaps it in only
// when the mutation and the persister both succeed.
type Store struct {
	mu        sync.RWMutex
	state     *State
	persister Persister
	logger    *log.Logger
}

type Option func(*Store)

// WithPersister makes every committed Update durable.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

func New(opts ...Option) *Store {
	s := &Store{logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces whatever is loaded with st, owned by userID.
func (s *Store) Seed(ctx context.Context, userID string, st State) {
	c := st.Clone()
	c.UserID = userID
	if c.Preferences == (core.Preferences{}) {
		c.Preferences = core.DefaultPreferences()
	}

	s.mu.Lock()
	s.state = &c
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "store seeded",
		log.FieldUserID, userID,
		"accounts", len(c.Accounts),
		"transactions", len(c.Transactions))
}

// Reset drops every collection. Preferences return to defaults on the next
// Seed.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()
}

// Owner reports the user whose state is loaded.
func (s *Store) Owner() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return "", false
	}
	return s.state.UserID, true
}

// Snapshot returns a deep copy of the loaded state.
func (s *Store) Snapshot() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return State{}, false
	}
	return s.state.Clone(), true
}

// Update runs fn against a copy of userID's state and commits the copy if
// fn returns nil. Errors from fn are returned unchanged.
func (s *Store) Update(ctx context.Context, userID string, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return core.NoActiveUser("update")
	}
	if s.state.UserID != userID {
		return core.Precondition("update", fmt.Sprintf("state belongs to another user than %q", userID))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	draft := s.state.Clone()
	if err := fn(&draft); err != nil {
		return err
	}

	if s.persister != nil {
		if err := s.persister.Save(ctx, userID, draft); err != nil {
			s.logger.ErrorContext(ctx, "persist failed, discarding update",
				log.FieldUserID, userID,
				log.FieldOperation, log.OpPersist,
				log.FieldError, err)
			return fmt.Errorf("persist state: %w", err)
		}
	}

	s.state = &draft
	return nil
}
